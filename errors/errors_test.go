package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"successful comparison to a double wrapped error": {
			a:      ErrInvalidAccountData,
			b:      Wrap(Wrapf(ErrInvalidAccountData, "custody %d", 3), "exchange"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrNotFound,
			b:      errors.Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

type customError struct {
}

func (customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicatedCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrInvalidSeeds.Code(), "duplicated")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrMissingRequiredSignature,
			wantCode: ErrMissingRequiredSignature.Code(),
			wantLog:  "missing required signature",
		},
		"wrapped registered error": {
			err:      Wrap(ErrIncorrectProgramID, "token account"),
			wantCode: ErrIncorrectProgramID.Code(),
			wantLog:  "token account: incorrect program id",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("disk full"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("disk full"),
			debug:    true,
			wantCode: internalCode,
			wantLog:  "disk full",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("secret"), false); ErrPanic.Is(err) || err.Error() != internalLog {
		t.Fatalf("panic not redacted: %v", err)
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Fatalf("registered error must be preserved: %v", err)
	}
	if err := Redact(fmt.Errorf("private"), true); err.Error() != "private" {
		t.Fatalf("debug mode must not redact: %v", err)
	}
}

func TestFromCode(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantKind *Error
		wantNil  bool
	}{
		"success": {
			err:     nil,
			wantNil: true,
		},
		"registered root error": {
			err:      ErrNotFound,
			wantKind: ErrNotFound,
		},
		"wrapped error keeps its kind": {
			err:      Wrap(ErrInsufficientFunds, "account 1"),
			wantKind: ErrInsufficientFunds,
		},
		"unregistered code": {
			err: stdlib.New("boom"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, false)
			err := FromCode(code, log)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("want an error")
			}
			if tc.wantKind != nil && !tc.wantKind.Is(err) {
				t.Fatalf("want %v kind, got %v", tc.wantKind, err)
			}
			if tc.wantKind == nil && errCode(err) != internalCode {
				t.Fatalf("want internal error, got %d", errCode(err))
			}
		})
	}
}
