package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// InitializeAccounts are the accounts of an Initialize instruction, bound to
// their roles and validated.
type InitializeAccounts struct {
	Initializer  *ledger.AccountInfo
	Custody      *ledger.AccountInfo
	Receiving    *ledger.AccountInfo
	Record       *ledger.AccountInfo
	Rent         *ledger.AccountInfo
	TokenProgram *ledger.AccountInfo
}

// BindInitializeAccounts assigns the instruction accounts to their roles and
// checks every precondition of Initialize. Nothing is modified.
func BindInitializeAccounts(env ledger.Env, tokenProgram ledger.Address, accounts []*ledger.AccountInfo) (*InitializeAccounts, error) {
	var (
		a   InitializeAccounts
		err error
	)
	it := ledger.NewAccountIter(accounts)
	for _, dst := range []**ledger.AccountInfo{
		&a.Initializer, &a.Custody, &a.Receiving, &a.Record, &a.Rent, &a.TokenProgram,
	} {
		if *dst, err = it.Next(); err != nil {
			return nil, err
		}
	}

	if !a.Initializer.IsSigner {
		return nil, errors.Wrap(errors.ErrMissingRequiredSignature, "initializer")
	}
	if !a.Receiving.OwnedBy(tokenProgram) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, "receiving account")
	}
	rent, err := ledger.RentFromAccountInfo(a.Rent)
	if err != nil {
		return nil, err
	}
	if !rent.IsExempt(a.Record.Lamports, a.Record.DataLen()) {
		return nil, errors.Wrapf(ErrNotRentExempt, "escrow record holds %d, requires %d",
			a.Record.Lamports, rent.MinimumBalance(a.Record.DataLen()))
	}
	if !a.Record.OwnedBy(env.ProgramID) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, "escrow record")
	}
	record, err := UnpackUnchecked(a.Record.Data)
	if err != nil {
		return nil, err
	}
	if record.IsInitialized {
		return nil, errors.Wrap(errors.ErrAccountAlreadyInitialized, "escrow record")
	}
	if !a.TokenProgram.Key.Equals(tokenProgram) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", a.TokenProgram.Key)
	}
	return &a, nil
}

// ExchangeAccounts are the accounts of an Exchange instruction, bound to
// their roles and validated, together with the decoded state they hold.
type ExchangeAccounts struct {
	Taker                *ledger.AccountInfo
	TakerSending         *ledger.AccountInfo
	TakerReceiving       *ledger.AccountInfo
	Custody              *ledger.AccountInfo
	InitializerMain      *ledger.AccountInfo
	InitializerReceiving *ledger.AccountInfo
	Record               *ledger.AccountInfo
	TokenProgram         *ledger.AccountInfo
	Authority            *ledger.AccountInfo

	// Escrow is the decoded escrow record.
	Escrow *EscrowRecord
	// CustodyAmount is the token balance of the custody account.
	CustodyAmount uint64
}

// BindExchangeAccounts assigns the instruction accounts to their roles and
// checks every precondition of Exchange. Nothing is modified.
//
// expected is the amount the taker wants to receive. It must be exactly what
// the custody account holds.
func BindExchangeAccounts(
	env ledger.Env,
	tokenProgram ledger.Address,
	auth Authority,
	accounts []*ledger.AccountInfo,
	expected uint64,
) (*ExchangeAccounts, error) {
	var (
		a   ExchangeAccounts
		err error
	)
	it := ledger.NewAccountIter(accounts)
	for _, dst := range []**ledger.AccountInfo{
		&a.Taker, &a.TakerSending, &a.TakerReceiving, &a.Custody, &a.InitializerMain,
		&a.InitializerReceiving, &a.Record, &a.TokenProgram, &a.Authority,
	} {
		if *dst, err = it.Next(); err != nil {
			return nil, err
		}
	}

	if !a.Taker.IsSigner {
		return nil, errors.Wrap(errors.ErrMissingRequiredSignature, "taker")
	}
	if !a.Record.OwnedBy(env.ProgramID) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, "escrow record")
	}
	if a.Escrow, err = Unpack(a.Record.Data); err != nil {
		return nil, err
	}

	if !a.Custody.OwnedBy(tokenProgram) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, "custody account")
	}
	custody, err := token.UnpackAccount(a.Custody.Data)
	if err != nil {
		return nil, errors.Wrap(err, "custody account")
	}
	if custody.Amount != expected {
		return nil, errors.Wrapf(ErrExpectedAmountMismatch, "custody holds %d, taker expects %d", custody.Amount, expected)
	}
	a.CustodyAmount = custody.Amount

	if !a.Escrow.Custody.Equals(a.Custody.Key) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "custody account does not match escrow record")
	}
	if !a.Escrow.Initializer.Equals(a.InitializerMain.Key) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "initializer does not match escrow record")
	}
	if !a.Escrow.Receiving.Equals(a.InitializerReceiving.Key) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "receiving account does not match escrow record")
	}

	derived, _, err := auth.Derive(env.ProgramID)
	if err != nil {
		return nil, err
	}
	if !derived.Equals(a.Authority.Key) {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "authority %s, want %s", a.Authority.Key, derived)
	}
	if !a.TokenProgram.Key.Equals(tokenProgram) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", a.TokenProgram.Key)
	}
	return &a, nil
}
