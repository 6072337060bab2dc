package utils

import (
	"time"

	"github.com/iov-one/ledger"
)

// Logging is a decorator to log program calls as they pass through
type Logging struct{}

var _ ledger.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Process logs error -> error, success -> debug. Nested calls are logged
// with their depth.
func (r Logging) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte, next ledger.Program) error {
	start := time.Now()
	err := next.Process(ctx, env, accounts, data)
	logDuration(ctx, start, env.ProgramID, err)
	return err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx ledger.Context, start time.Time, program ledger.Address, err error) {
	delta := time.Now().Sub(start)
	logger := ledger.GetLogger(ctx).With(
		"program", program,
		"depth", ledger.GetCallDepth(ctx),
		"duration", delta/time.Microsecond,
	)

	if err != nil {
		logger.Error("program failed", "err", err)
	} else {
		logger.Debug("program succeeded")
	}
}
