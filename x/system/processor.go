package system

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// RegisterProgram registers the system program under its well known
// address.
func RegisterProgram(r ledger.Registry) {
	r.Register(ledger.SystemProgramID, Program{})
}

// Program is the system program.
type Program struct{}

var _ ledger.Program = Program{}

func (Program) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := UnmarshalInstruction(data)
	if err != nil {
		return err
	}
	it := ledger.NewAccountIter(accounts)
	from, err := it.Next()
	if err != nil {
		return err
	}
	to, err := it.Next()
	if err != nil {
		return err
	}

	switch ix.Type {
	case CreateAccount:
		return createAccount(from, to, ix)
	case Transfer:
		return transfer(from, to, ix.Lamports)
	}
	return errors.Wrapf(errors.ErrInvalidInstructionData, "type %d", ix.Type)
}

func createAccount(funder, acct *ledger.AccountInfo, ix Instruction) error {
	if !acct.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "new account %s", acct.Key)
	}
	if acct.Lamports != 0 || len(acct.Data) != 0 || !acct.OwnedBy(ledger.SystemProgramID) {
		return errors.Wrapf(errors.ErrAccountAlreadyInUse, "%s", acct.Key)
	}
	if ix.Space > MaxPermittedDataLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "space %d", ix.Space)
	}
	if err := debit(funder, ix.Lamports); err != nil {
		return err
	}
	acct.Lamports = ix.Lamports
	acct.Data = make([]byte, ix.Space)
	acct.Owner = ix.Owner
	return nil
}

func transfer(from, to *ledger.AccountInfo, lamports uint64) error {
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrap(errors.ErrOverflow, "destination lamports")
	}
	if err := debit(from, lamports); err != nil {
		return err
	}
	to.Lamports += lamports
	return nil
}

// debit takes lamports from an account owned by the system program that
// signed the instruction.
func debit(from *ledger.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "%s", from.Key)
	}
	if !from.OwnedBy(ledger.SystemProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "%s is not a system account", from.Key)
	}
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "%s carries data", from.Key)
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, requested %d", from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}
