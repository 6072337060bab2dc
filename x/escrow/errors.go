package escrow

import (
	"github.com/iov-one/ledger/errors"
)

var (
	// ErrInvalidInstruction is returned when instruction data cannot be
	// decoded.
	ErrInvalidInstruction = errors.Register(1000, "invalid instruction")

	// ErrNotRentExempt is returned when the escrow record does not hold
	// enough lamports to never be purged.
	ErrNotRentExempt = errors.Register(1001, "not rent exempt")

	// ErrExpectedAmountMismatch is returned when the amount the taker
	// expects does not match the custodied amount.
	ErrExpectedAmountMismatch = errors.Register(1002, "expected amount mismatch")

	// ErrAmountOverflow is returned when crediting lamports would overflow.
	ErrAmountOverflow = errors.Register(1003, "amount overflow")
)
