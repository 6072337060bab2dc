package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when an instruction receives an
	// argument (account or value) it cannot work with.
	ErrInvalidArgument = Register(2, "invalid argument")

	// ErrInvalidInstructionData is returned when instruction bytes cannot
	// be decoded by the program they are addressed to.
	ErrInvalidInstructionData = Register(3, "invalid instruction data")

	// ErrInvalidAccountData is returned when the content of an account does
	// not match what the program expects, or when a supplied account does
	// not match the account bound in the persisted state.
	ErrInvalidAccountData = Register(4, "invalid account data")

	// ErrAccountDataTooSmall is returned when account data cannot hold the
	// state a program wants to write.
	ErrAccountDataTooSmall = Register(5, "account data too small")

	// ErrInsufficientFunds is returned when a balance is too low to cover
	// the requested debit.
	ErrInsufficientFunds = Register(6, "insufficient funds")

	// ErrIncorrectProgramID is returned when an account is not owned by the
	// program that is expected to own it, or when an instruction is
	// addressed to an unknown program.
	ErrIncorrectProgramID = Register(7, "incorrect program id")

	// ErrMissingRequiredSignature is returned when an account must
	// authorize an operation but no signature for it was provided.
	ErrMissingRequiredSignature = Register(8, "missing required signature")

	// ErrAccountAlreadyInitialized is returned when initializing an
	// account that already holds state.
	ErrAccountAlreadyInitialized = Register(9, "account already initialized")

	// ErrUninitializedAccount is returned when an account is expected to
	// hold state but does not.
	ErrUninitializedAccount = Register(10, "uninitialized account")

	// ErrNotEnoughAccountKeys is returned when an instruction does not
	// reference all accounts it requires.
	ErrNotEnoughAccountKeys = Register(11, "not enough account keys")

	// ErrInvalidSeeds is returned when seeds produce an address that is a
	// valid curve point or no valid bump exists.
	ErrInvalidSeeds = Register(12, "invalid seeds")

	// ErrMaxSeedLengthExceeded is returned when a derivation seed is longer
	// than allowed or there are too many of them.
	ErrMaxSeedLengthExceeded = Register(13, "max seed length exceeded")

	// ErrInvalidSignature is returned when a transaction signature does
	// not verify.
	ErrInvalidSignature = Register(14, "invalid signature")

	// ErrUnbalancedInstruction is returned when the sum of native balances
	// changed during an instruction.
	ErrUnbalancedInstruction = Register(15, "sum of account balances before and after instruction do not match")

	// ErrExternalAccountModified is returned when a program modified an
	// account it has no right to modify.
	ErrExternalAccountModified = Register(16, "program modified an account it does not own")

	// ErrCallDepth is returned when cross program invocations nest deeper
	// than allowed.
	ErrCallDepth = Register(17, "cross program invocation call depth too deep")

	// ErrAccountAlreadyInUse is returned when creating an account at an
	// address that already holds one.
	ErrAccountAlreadyInUse = Register(18, "account already in use")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(19, "an operation cannot be completed due to value overflow")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(20, "not found")

	// ErrState is returned when an object is in invalid state.
	ErrState = Register(21, "invalid state")

	// ErrModel is returned whenever a model (ie. configuration) is invalid
	// and cannot be used.
	ErrModel = Register(22, "invalid model")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(23, "invalid input")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(24, "value is empty")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(25, "database")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(26, "coding error")

	// ErrIteratorDone is returned by an iterator when there are no more
	// items to read.
	ErrIteratorDone = Register(27, "iterator done")

	// ErrNetwork is returned when a remote node cannot be reached.
	ErrNetwork = Register(28, "network")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal errors and must not be used.
}

// Error represents a root error.
//
// The ledger is using root errors to categorize issues. Each instance created
// during the runtime should wrap one of the declared root errors. This allows
// error tests and returning all errors to the client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code that identifies this error kind on the
// client side.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide Code method (ie. stdlib errors), it
// will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the full stack trace on %+v, the message otherwise.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.msg, e.parent)
		return
	}
	io.WriteString(s, e.Error())
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType is a helper to augment an error with a corresponding type message
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
