package sale

import (
	"strconv"
	"time"

	"github.com/lovawin/sosh-test-sub004/domain"
)

type SaleId uint64

func (id SaleId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseSaleId(s string) (SaleId, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, domain.ErrBadParamInput
	}
	return SaleId(v), nil
}

type SaleType string

const (
	SaleTypeFixed   SaleType = "fixed"
	SaleTypeAuction SaleType = "auction"
)

func (t SaleType) IsValid() bool {
	return t == SaleTypeFixed || t == SaleTypeAuction
}

type Status string

// Stored statuses. Only open is non-terminal. A sale stays open while its
// transfer intent is pending and takes the terminal status on confirmation.
const (
	StatusOpen      Status = "open"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
	StatusRetrieved Status = "retrieved"
)

// Derived statuses, computed by EffectiveStatus and never persisted.
const (
	// StatusScheduled is an open sale whose start time is still ahead.
	StatusScheduled Status = "scheduled"
	// StatusExpired is an open sale past its end time without a winning bid.
	StatusExpired Status = "expired"
	// StatusEnded is an auction past its end time holding a winning bid, awaiting settlement.
	StatusEnded Status = "ended"
)

func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusCancelled || s == StatusRetrieved
}

func (s Status) IsStored() bool {
	return s == StatusOpen || s.IsTerminal()
}

type Bid struct {
	Bidder   domain.Address `json:"bidder" bson:"bidder"`
	Amount   domain.Amount  `json:"amount" bson:"amount"`
	PlacedAt time.Time      `json:"placedAt" bson:"placedAt"`
}

// Settlement records the fee split of a sold sale.
type Settlement struct {
	Buyer     domain.Address `json:"buyer" bson:"buyer"`
	Amount    domain.Amount  `json:"amount" bson:"amount"`
	FeeAmount domain.Amount  `json:"feeAmount" bson:"feeAmount"`
	NetAmount domain.Amount  `json:"netAmount" bson:"netAmount"`
	FeeBps    uint32         `json:"feeBps" bson:"feeBps"`
	SettledAt time.Time      `json:"settledAt" bson:"settledAt"`
}

type Sale struct {
	SaleId          SaleId          `json:"saleId" bson:"saleId"`
	TokenId         domain.TokenId  `json:"tokenId" bson:"tokenId"`
	Seller          domain.Address  `json:"seller" bson:"seller"`
	SaleType        SaleType        `json:"saleType" bson:"saleType"`
	AskPrice        domain.Amount   `json:"askPrice" bson:"askPrice"`
	StartTime       time.Time       `json:"startTime" bson:"startTime"`
	EndTime         time.Time       `json:"endTime" bson:"endTime"`
	OriginalEndTime time.Time       `json:"originalEndTime" bson:"originalEndTime"`
	Status          Status          `json:"status" bson:"status"`
	HighestBid      *Bid            `json:"highestBid,omitempty" bson:"highestBid,omitempty"`
	BidCount        int             `json:"bidCount" bson:"bidCount"`
	PrimarySale     bool            `json:"primarySale" bson:"primarySale"`
	Settlement      *Settlement     `json:"settlement,omitempty" bson:"settlement,omitempty"`
	Intent          *TransferIntent `json:"intent,omitempty" bson:"intent,omitempty"`
	Version         uint64          `json:"version" bson:"version"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
	ClosedAt        *time.Time      `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// EffectiveStatus is the single derivation of a sale's status at now.
// Every reader goes through it: views, eligibility, the state machine and the sweeper.
// An open sale with a pending intent already reports the status the intent leads to.
func EffectiveStatus(s *Sale, now time.Time) Status {
	if s.Status != StatusOpen {
		return s.Status
	}
	if s.Intent.IsPending() {
		return s.Intent.Target()
	}
	if now.After(s.EndTime) {
		if s.SaleType == SaleTypeAuction && s.HighestBid != nil {
			return StatusEnded
		}
		return StatusExpired
	}
	if now.Before(s.StartTime) {
		return StatusScheduled
	}
	return StatusOpen
}

// HasExpired reports whether now is strictly past the end time.
func (s *Sale) HasExpired(now time.Time) bool {
	return now.After(s.EndTime)
}

// Clone returns a deep copy so callers can mutate it before a compare-and-swap.
func (s *Sale) Clone() *Sale {
	c := *s
	if s.HighestBid != nil {
		b := *s.HighestBid
		c.HighestBid = &b
	}
	if s.Settlement != nil {
		st := *s.Settlement
		c.Settlement = &st
	}
	if s.Intent != nil {
		c.Intent = s.Intent.Clone()
	}
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}
