package app

import (
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Router maps program addresses to programs.
type Router struct {
	programs map[string]ledger.Program
}

var _ ledger.Registry = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		programs: make(map[string]ledger.Program),
	}
}

// Register adds a program under given address.
// Registering an invalid address or one that is already taken panics.
func (r *Router) Register(id ledger.Address, p ledger.Program) {
	if err := id.Validate(); err != nil {
		panic(fmt.Sprintf("invalid program id: %s", err))
	}
	if _, ok := r.programs[string(id)]; ok {
		panic(fmt.Sprintf("re-registering program %s", id))
	}
	r.programs[string(id)] = p
}

// Program returns the program registered under given address.
func (r *Router) Program(id ledger.Address) (ledger.Program, error) {
	p, ok := r.programs[string(id)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "no program at %s", id)
	}
	return p, nil
}
