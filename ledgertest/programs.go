package ledgertest

import (
	"github.com/iov-one/ledger"
)

// Program is a mock implementation of the ledger.Program interface.
//
// Set Err to force an error response. Fn, if set, is called after the call
// was counted and its result returned.
type Program struct {
	calls int
	Err   error
	Fn    func(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error

	// LastData is the instruction data of the last call.
	LastData []byte
}

var _ ledger.Program = (*Program)(nil)

func (p *Program) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	p.calls++
	p.LastData = data
	if p.Err != nil {
		return p.Err
	}
	if p.Fn != nil {
		return p.Fn(ctx, env, accounts, data)
	}
	return nil
}

func (p *Program) CallCount() int {
	return p.calls
}

// Decorator is a mock implementation of the ledger.Decorator interface.
//
// Set Err to force error response. If error attribute is not set then
// wrapped program is called and its result returned. Each call is counted.
// Regardless of the call result the counter is incremented.
type Decorator struct {
	calls int
	Err   error
}

var _ ledger.Decorator = (*Decorator)(nil)

func (d *Decorator) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte, next ledger.Program) error {
	d.calls++
	if d.Err != nil {
		return d.Err
	}
	return next.Process(ctx, env, accounts, data)
}

func (d *Decorator) CallCount() int {
	return d.calls
}

// Decorate returns a program that calls the decorator with the program as
// the next step.
func Decorate(p ledger.Program, d ledger.Decorator) ledger.Program {
	return ledger.ProgramFunc(func(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
		return d.Process(ctx, env, accounts, data, p)
	})
}

// Invocation is a single call recorded by the Invoker.
type Invocation struct {
	Instruction ledger.Instruction
	SignerSeeds [][][]byte
}

// Invoker is a mock implementation of the ledger.Invoker interface that
// records all calls. Set Err to fail every call.
type Invoker struct {
	Calls []Invocation
	Err   error
}

var _ ledger.Invoker = (*Invoker)(nil)

func (i *Invoker) Invoke(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo) error {
	return i.InvokeSigned(ctx, ix, accounts, nil)
}

func (i *Invoker) InvokeSigned(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo, signerSeeds [][][]byte) error {
	i.Calls = append(i.Calls, Invocation{Instruction: ix, SignerSeeds: signerSeeds})
	return i.Err
}
