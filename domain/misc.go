package domain

import (
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

type ChainId int32

type Address string

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// TokenId is the decimal representation of an erc721 token id.
type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) BigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok || id.Sign() < 0 {
		return nil, xerrors.Errorf("invalid token id %s: %w", i, ErrInvalidNumberFormat)
	}
	return id, nil
}

// Canonical strips signs and leading zeros, so "007" and "+7" both become "7".
// Stores key sales by the canonical form.
func (i TokenId) Canonical() (TokenId, error) {
	id, err := i.BigInt()
	if err != nil {
		return "", err
	}
	return TokenId(id.String()), nil
}

type TxHash string

func (h TxHash) ToLower() TxHash {
	return TxHash(strings.ToLower(string(h)))
}

// Amount is an integer amount in the smallest currency unit, kept as a decimal string.
type Amount string

func AmountFromBig(v *big.Int) Amount {
	if v == nil {
		return Amount("0")
	}
	return Amount(v.String())
}

func (a Amount) String() string {
	return string(a)
}

// BigInt parses the amount. Empty, negative and malformed amounts are rejected.
func (a Amount) BigInt() (*big.Int, error) {
	v, ok := new(big.Int).SetString(string(a), 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return v, nil
}

// Positive parses the amount and requires it to be > 0.
func (a Amount) Positive() (*big.Int, error) {
	v, err := a.BigInt()
	if err != nil || v.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	return v, nil
}
