package ledger

import (
	"encoding/json"
)

// Program is the logic owned by a program address. It receives the accounts
// referenced by an instruction in the order they were declared and the raw
// instruction data.
//
// A program must not implement atomicity itself. If Process returns an error
// the runtime discards every change made during the whole transaction.
type Program interface {
	Process(ctx Context, env Env, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc allows a plain function to be used as a Program.
type ProgramFunc func(ctx Context, env Env, accounts []*AccountInfo, data []byte) error

// Process calls the function.
func (fn ProgramFunc) Process(ctx Context, env Env, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, env, accounts, data)
}

// Env is the execution environment of a single program call.
type Env struct {
	// ProgramID is the address the executed program is registered under.
	ProgramID Address
	// Invoker allows calling other programs.
	Invoker Invoker
}

// Invoker executes cross program invocations. The callee works on the same
// accounts as the caller, changes are visible to the caller once the call
// returns.
type Invoker interface {
	// Invoke calls another program. Signer privileges are only those
	// carried by the given account infos.
	Invoke(ctx Context, ix Instruction, accounts []*AccountInfo) error

	// InvokeSigned is like Invoke but additionally grants the signer
	// privilege to every address derived from the calling program and one
	// of the given seed sets.
	InvokeSigned(ctx Context, ix Instruction, accounts []*AccountInfo, signerSeeds [][][]byte) error
}

// Decorator wraps a Program to provide common functionality
// like logging or panic recovery, to many Programs
type Decorator interface {
	Process(ctx Context, env Env, accounts []*AccountInfo, data []byte, next Program) error
}

// Registry is an interface to register your program,
// the setup side of a Router
type Registry interface {
	Register(id Address, p Program)
}

// Options are the genesis options.
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

// FromGenesis will pass opts and kv to every initializer in the list,
// returns an error on the first failure.
func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
