package validator

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	// TagAddress validates a hex account address, any letter case.
	TagAddress = "address"
	// TagAmount validates a positive base-10 integer string.
	TagAmount = "amount"
)

// IsValidAddress returns is an address valid or not
func IsValidAddress(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	checksum := common.HexToAddress(address).Hex()
	return strings.EqualFold(checksum, address)
}

// IsValidAmount reports whether s is a positive base-10 integer.
func IsValidAmount(s string) bool {
	v, ok := new(big.Int).SetString(s, 10)
	return ok && v.Sign() > 0
}

// New returns a validate instance with the marketplace tags registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagAddress, func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
	_ = v.RegisterValidation(TagAmount, func(fl validator.FieldLevel) bool {
		return IsValidAmount(fl.Field().String())
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
