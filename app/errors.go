package app

import (
	"github.com/iov-one/ledger/errors"
)

var (
	// ErrPrivilegeEscalation is returned when a cross program invocation
	// asks for a signer or writable privilege the caller does not hold.
	ErrPrivilegeEscalation = errors.Register(1300, "cross program invocation with unauthorized signer or writable account")

	// ErrDuplicateTx is returned when a transaction was already executed.
	ErrDuplicateTx = errors.Register(1301, "transaction already processed")
)
