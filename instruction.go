package ledger

import (
	"github.com/iov-one/ledger/errors"
)

// AccountMeta references an account used by an instruction together with the
// privileges it is granted.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a writable account reference.
func NewAccountMeta(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: signer, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only account reference.
func NewReadonlyAccountMeta(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: signer}
}

// Instruction is a call of a single program with an ordered list of accounts
// and opaque data that only the program can decode.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Validate checks that all referenced addresses are well formed.
func (ix *Instruction) Validate() error {
	if err := ix.ProgramID.Validate(); err != nil {
		return errors.Wrap(err, "program id")
	}
	for i, m := range ix.Accounts {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
