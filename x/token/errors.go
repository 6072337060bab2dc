package token

import (
	"github.com/iov-one/ledger/errors"
)

// Token program reserves 1100~1119 error codes
var (
	// ErrMintMismatch is returned when two token accounts hold a different
	// asset or an account does not hold the asset of a mint.
	ErrMintMismatch = errors.Register(1100, "account not associated with this mint")

	// ErrNonNativeHasBalance is returned when closing a token account that
	// still holds tokens.
	ErrNonNativeHasBalance = errors.Register(1101, "non-native account can only be closed if its balance is zero")

	// ErrOwnerMismatch is returned when the provided authority is not the
	// owner of an account or the authority of a mint.
	ErrOwnerMismatch = errors.Register(1102, "owner does not match")

	ErrNotRentExempt = errors.Register(1103, "lamport balance below rent-exempt threshold")

	// ErrFixedSupply is returned when minting tokens of a mint without a
	// mint authority.
	ErrFixedSupply = errors.Register(1104, "fixed supply")
)
