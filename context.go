package ledger

import (
	"context"
	"regexp"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is the context passed between the runtime, decorators and
// programs. It carries the logger, the chain id and the cross program
// invocation depth. Each extension may add its own keys.
//
// There should exist two functions for every XYZ of type T that we want to
// support in Context:
//
//   WithXYZ(Context, T) Context
//   GetXYZ(Context) (val T, ok bool)
//
// WithXYZ may panic if the value was previously set to avoid lower-level
// modules overwriting the value.
type Context = context.Context

type contextKey int // local to the ledger package

const (
	contextKeyLogger contextKey = iota
	contextKeyChainID
	contextKeyCallDepth
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithChainID sets the chain id for the Context.
// It panics on invalid chain id or if the value was already set.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Tried to set chain id twice")
	}
	if !IsValidChainID(chainID) {
		panic("Invalid chain id")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id set in the context. It panics if the chain
// id was not set, as the runtime always provides it.
func GetChainID(ctx Context) string {
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("No chain id in context")
	}
	return val
}

// WithCallDepth returns a context that declares given cross program
// invocation depth. Top level instructions are executed with depth 1.
func WithCallDepth(ctx Context, depth int) Context {
	return context.WithValue(ctx, contextKeyCallDepth, depth)
}

// GetCallDepth returns the cross program invocation depth, zero if not set.
func GetCallDepth(ctx Context) int {
	val, _ := ctx.Value(contextKeyCallDepth).(int)
	return val
}
