package sale

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/domain"
)

type IntentKind string

const (
	// IntentKindSettle moves the token to the buyer and the payment to the seller.
	IntentKindSettle IntentKind = "settle"
	// IntentKindRetrieve returns an expired, unsold token to its seller.
	IntentKindRetrieve IntentKind = "retrieve"
	// IntentKindReturn returns a cancelled sale's token to its seller.
	IntentKindReturn IntentKind = "return"
)

type IntentState string

const (
	IntentStatePending   IntentState = "pending"
	IntentStateConfirmed IntentState = "confirmed"
	// IntentStateAborted is an intent the executor gave up on. The sale is open again.
	IntentStateAborted IntentState = "aborted"
)

// Payment is the value transfer an external executor carries out next to the token transfer.
type Payment struct {
	Payer     domain.Address `json:"payer" bson:"payer"`
	PayTo     domain.Address `json:"payTo" bson:"payTo"`
	Amount    domain.Amount  `json:"amount" bson:"amount"`
	FeeAmount domain.Amount  `json:"feeAmount" bson:"feeAmount"`
	NetAmount domain.Amount  `json:"netAmount" bson:"netAmount"`
}

// TransferIntent is the decision an executor acts on. It is created pending,
// becomes confirmed once ConfirmTransferExecuted reports the transaction, or
// aborted when the executor reports it cannot be carried out.
type TransferIntent struct {
	Id          string         `json:"id" bson:"id"`
	Kind        IntentKind     `json:"kind" bson:"kind"`
	SaleId      SaleId         `json:"saleId" bson:"saleId"`
	TokenId     domain.TokenId `json:"tokenId" bson:"tokenId"`
	TokenTo     domain.Address `json:"tokenTo" bson:"tokenTo"`
	Payment     *Payment       `json:"payment,omitempty" bson:"payment,omitempty"`
	State       IntentState    `json:"state" bson:"state"`
	TxRef       domain.TxHash  `json:"txRef,omitempty" bson:"txRef,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	ConfirmedAt *time.Time     `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	AbortedAt   *time.Time     `json:"abortedAt,omitempty" bson:"abortedAt,omitempty"`
	AbortReason string         `json:"abortReason,omitempty" bson:"abortReason,omitempty"`
}

func (i *TransferIntent) IsPending() bool {
	return i != nil && i.State == IntentStatePending
}

// Target is the stored status the sale takes once the intent is confirmed.
func (i *TransferIntent) Target() Status {
	switch i.Kind {
	case IntentKindSettle:
		return StatusSold
	case IntentKindRetrieve:
		return StatusRetrieved
	default:
		return StatusCancelled
	}
}

func (i *TransferIntent) Clone() *TransferIntent {
	c := *i
	if i.Payment != nil {
		p := *i.Payment
		c.Payment = &p
	}
	if i.ConfirmedAt != nil {
		t := *i.ConfirmedAt
		c.ConfirmedAt = &t
	}
	if i.AbortedAt != nil {
		t := *i.AbortedAt
		c.AbortedAt = &t
	}
	return &c
}
