package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidAddress      = errors.New("Invalid address")
	// ErrTokenNotMinted means the collection reverted ownerOf, the token is burned or never existed.
	ErrTokenNotMinted = errors.New("token not minted")
)

// ErrorKind groups sale lifecycle errors by how a caller should react to them.
type ErrorKind string

const (
	// KindValidation is bad input. Nothing was touched, retry after fixing the input.
	KindValidation ErrorKind = "validation"
	// KindStateConflict means the caller's view is stale. Re-read and retry.
	KindStateConflict ErrorKind = "state_conflict"
	// KindDependency is a transient failure of an external read. Retry with backoff.
	KindDependency ErrorKind = "dependency"
	// KindInvariant is a programmer error. The operation aborted without mutation.
	KindInvariant ErrorKind = "invariant"
)

// SaleError is a typed lifecycle error. Sentinels are compared with errors.Is.
type SaleError struct {
	Code string
	Kind ErrorKind
}

func (e *SaleError) Error() string {
	return e.Code
}

func newSaleError(code string, kind ErrorKind) *SaleError {
	return &SaleError{Code: code, Kind: kind}
}

var (
	ErrInvalidAmount        = newSaleError("INVALID_AMOUNT", KindValidation)
	ErrDurationOutOfRange   = newSaleError("DURATION_OUT_OF_RANGE", KindValidation)
	ErrTooSoonToStart       = newSaleError("TOO_SOON_TO_START", KindValidation)
	ErrPriceMismatch        = newSaleError("PRICE_MISMATCH", KindValidation)
	ErrBidTooLow            = newSaleError("BID_TOO_LOW", KindValidation)
	ErrNotSeller            = newSaleError("NOT_SELLER", KindValidation)
	ErrSellerIsBuyer        = newSaleError("SELLER_IS_BUYER", KindValidation)
	ErrWrongSaleType        = newSaleError("WRONG_SALE_TYPE", KindValidation)
	ErrInvalidConfig        = newSaleError("INVALID_CONFIG", KindValidation)
	ErrInvalidTransferRef   = newSaleError("INVALID_TRANSFER_REF", KindValidation)
	ErrDuplicateActiveSale  = newSaleError("DUPLICATE_ACTIVE_SALE", KindStateConflict)
	ErrSaleNotOpenOrExpired = newSaleError("SALE_NOT_OPEN_OR_EXPIRED", KindStateConflict)
	ErrSaleHasBids          = newSaleError("SALE_HAS_BIDS", KindStateConflict)
	ErrAlreadyRetrieved     = newSaleError("ALREADY_RETRIEVED", KindStateConflict)
	ErrNotEligible          = newSaleError("NOT_ELIGIBLE", KindStateConflict)
	ErrAuctionNotEnded      = newSaleError("AUCTION_NOT_ENDED", KindStateConflict)
	ErrTooLateToUpdate      = newSaleError("TOO_LATE_TO_UPDATE", KindStateConflict)
	ErrCustodyNotHeld       = newSaleError("CUSTODY_NOT_HELD", KindStateConflict)
	ErrNoPendingTransfer    = newSaleError("NO_PENDING_TRANSFER", KindStateConflict)
	ErrTransferRefMismatch  = newSaleError("TRANSFER_REF_MISMATCH", KindStateConflict)
	ErrIntentMismatch       = newSaleError("INTENT_MISMATCH", KindStateConflict)
	ErrVersionConflict      = newSaleError("VERSION_CONFLICT", KindStateConflict)
	ErrOracleUnavailable    = newSaleError("ORACLE_UNAVAILABLE", KindDependency)
	ErrClockUnavailable     = newSaleError("CLOCK_UNAVAILABLE", KindDependency)
	ErrFeeExceedsCap        = newSaleError("FEE_EXCEEDS_CAP", KindInvariant)
	ErrDurationUnderflow    = newSaleError("DURATION_UNDERFLOW", KindInvariant)
)

// ReasonError carries a diagnostic reason next to a SaleError sentinel.
type ReasonError struct {
	Err    *SaleError
	Reason string
}

func NewReasonError(err *SaleError, reason string) *ReasonError {
	return &ReasonError{Err: err, Reason: reason}
}

func (e *ReasonError) Error() string {
	return e.Err.Code + ": " + e.Reason
}

func (e *ReasonError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first SaleError found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *SaleError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

// CodeOf returns the stable code of the first SaleError found in err's chain.
func CodeOf(err error) string {
	var se *SaleError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ReasonOf returns the reason attached by a ReasonError, if any.
func ReasonOf(err error) string {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
