package utils

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Recovery is a decorator to recover from panics in programs,
// so we can log them as errors
type Recovery struct{}

var _ ledger.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Process turns panics into normal errors
func (r Recovery) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte, next ledger.Program) (err error) {
	defer errors.Recover(&err)
	return next.Process(ctx, env, accounts, data)
}
