package app

import (
	"reflect"

	"github.com/iov-one/ledger"
)

// Decorators holds a chain of decorators, not yet resolved by a Program
type Decorators struct {
	chain []ledger.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Program,
returns a Program that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
  ).WithProgram(
    escrow.NewProgram(conf),
  )
*/
func ChainDecorators(chain ...ledger.Decorator) Decorators {
	chain = cutoffNil(chain)
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...ledger.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := append(append([]ledger.Decorator{}, d.chain...), chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all all nil values from given slice.
func cutoffNil(ds []ledger.Decorator) []ledger.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithProgram resolves the stack and returns a concrete Program
// that will pass through the chain of decorators before calling
// the final Program.
func (d Decorators) WithProgram(p ledger.Program) ledger.Program {
	// start wrapping the program from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		p = step{d: d.chain[i], next: p}
	}
	return p
}

//------------------ internal types to build chain ---------------

// step captures one step executing a decorator around a
// specific Program. Simplified version of a closure.
type step struct {
	d    ledger.Decorator
	next ledger.Program
}

var _ ledger.Program = step{}

// Process passes the program into the decorator, implements Program
func (s step) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	return s.d.Process(ctx, env, accounts, data, s.next)
}

// Registry returns a registry that wraps every program with the decorators
// before registering it with r.
func (d Decorators) Registry(r ledger.Registry) ledger.Registry {
	return decoratedRegistry{decorators: d, next: r}
}

type decoratedRegistry struct {
	decorators Decorators
	next       ledger.Registry
}

func (r decoratedRegistry) Register(id ledger.Address, p ledger.Program) {
	r.next.Register(id, r.decorators.WithProgram(p))
}
