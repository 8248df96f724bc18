package sale

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/domain"
)

type FindAllOptions struct {
	TokenId             *domain.TokenId
	Seller              *domain.Address
	Statuses            []Status
	SaleType            *SaleType
	EndTimeLT           *time.Time
	IntentState         *IntentState
	IntentCreatedBefore *time.Time
	Offset              *int32
	Limit               *int32
	Sort                *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		canonical, err := tokenId.Canonical()
		if err != nil {
			return domain.ErrBadParamInput
		}
		options.TokenId = &canonical
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		seller = seller.ToLower()
		options.Seller = &seller
		return nil
	}
}

// WithStatus filters by stored status. Derived statuses are rejected.
func WithStatus(statuses ...Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		for _, s := range statuses {
			if !s.IsStored() {
				return domain.ErrBadParamInput
			}
		}
		options.Statuses = statuses
		return nil
	}
}

func WithSaleType(saleType SaleType) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if !saleType.IsValid() {
			return domain.ErrBadParamInput
		}
		options.SaleType = &saleType
		return nil
	}
}

func WithEndTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
		return nil
	}
}

func WithIntentState(state IntentState) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IntentState = &state
		return nil
	}
}

func WithIntentCreatedBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IntentCreatedBefore = &t
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// WithSort takes a field name, prefixed with "-" for descending order.
func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}
