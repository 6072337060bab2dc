package token

import (
	"math/big"

	"github.com/iov-one/ledger/errors"
	"github.com/shopspring/decimal"
)

// UIAmount returns the amount of tokens as presented to humans, that is with
// the decimal point moved by the number of mint decimals.
func UIAmount(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// ParseUIAmount is the reverse of UIAmount. Values that cannot be
// represented with given number of decimals are rejected.
func ParseUIAmount(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "amount %q", s)
	}
	if d.IsNegative() {
		return 0, errors.Wrap(errors.ErrInput, "negative amount")
	}
	d = d.Shift(int32(decimals))
	if !d.Equal(d.Truncate(0)) {
		return 0, errors.Wrapf(errors.ErrInput, "more than %d decimals", decimals)
	}
	n := d.BigInt()
	if !n.IsUint64() {
		return 0, errors.Wrap(errors.ErrOverflow, "amount")
	}
	return n.Uint64(), nil
}
