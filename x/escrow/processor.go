package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// ProgramID is the address the escrow program is deployed under.
var ProgramID = ledger.MustParseAddress("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")

// RegisterProgram registers the escrow program under given address.
func RegisterProgram(r ledger.Registry, programID ledger.Address, conf Configuration) {
	r.Register(programID, NewProgram(conf))
}

// Program is the escrow program.
type Program struct {
	tokenProgram ledger.Address
	authority    Authority
}

var _ ledger.Program = Program{}

// NewProgram returns the escrow program using given configuration.
func NewProgram(conf Configuration) Program {
	return NewProgramWithAuthority(conf.TokenProgram, NewSeedAuthority(conf.Seed))
}

// NewProgramWithAuthority returns the escrow program with a custom custody
// authority.
func NewProgramWithAuthority(tokenProgram ledger.Address, auth Authority) Program {
	return Program{
		tokenProgram: tokenProgram,
		authority:    auth,
	}
}

// Process decodes the instruction and runs the matching operation.
func (p Program) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := UnmarshalInstruction(data)
	if err != nil {
		return err
	}
	log := ledger.GetLogger(ctx)
	switch ix.Type {
	case Initialize:
		log.Debug("escrow instruction", "type", ix.Type, "expected_amount", ix.Amount)
		return p.initialize(ctx, env, accounts, ix.Amount)
	case Exchange:
		log.Debug("escrow instruction", "type", ix.Type, "taker_amount", ix.Amount)
		return p.exchange(ctx, env, accounts, ix.Amount)
	}
	return errors.Wrapf(ErrInvalidInstruction, "type %d", ix.Type)
}

// initialize records the trade and hands the custody account over to the
// derived authority.
func (p Program) initialize(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, amount uint64) error {
	a, err := BindInitializeAccounts(env, p.tokenProgram, accounts)
	if err != nil {
		return err
	}
	derived, _, err := p.authority.Derive(env.ProgramID)
	if err != nil {
		return err
	}

	record := EscrowRecord{
		IsInitialized:  true,
		Initializer:    a.Initializer.Key,
		Custody:        a.Custody.Key,
		Receiving:      a.Receiving.Key,
		ExpectedAmount: amount,
	}
	if err := record.Pack(a.Record.Data); err != nil {
		return err
	}

	ix := token.NewSetAuthorityInstruction(p.tokenProgram, a.Custody.Key, a.Initializer.Key, token.AccountOwner, derived)
	if err := env.Invoker.Invoke(ctx, ix, []*ledger.AccountInfo{a.Custody, a.Initializer, a.TokenProgram}); err != nil {
		return errors.Wrap(err, "transfer custody ownership")
	}
	return nil
}

// exchange settles the trade. Payment goes to the initializer, the custodied
// tokens go to the taker, the custody account and the escrow record are
// destroyed.
func (p Program) exchange(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, expected uint64) error {
	a, err := BindExchangeAccounts(env, p.tokenProgram, p.authority, accounts, expected)
	if err != nil {
		return err
	}
	seeds, err := p.authority.SignerSeeds(env.ProgramID)
	if err != nil {
		return err
	}
	signer := [][][]byte{seeds}

	pay := token.NewTransferInstruction(p.tokenProgram,
		a.TakerSending.Key, a.InitializerReceiving.Key, a.Taker.Key, a.Escrow.ExpectedAmount)
	if err := env.Invoker.Invoke(ctx, pay, []*ledger.AccountInfo{
		a.TakerSending, a.InitializerReceiving, a.Taker, a.TokenProgram,
	}); err != nil {
		return errors.Wrap(err, "pay initializer")
	}

	release := token.NewTransferInstruction(p.tokenProgram,
		a.Custody.Key, a.TakerReceiving.Key, a.Authority.Key, a.CustodyAmount)
	if err := env.Invoker.InvokeSigned(ctx, release, []*ledger.AccountInfo{
		a.Custody, a.TakerReceiving, a.Authority, a.TokenProgram,
	}, signer); err != nil {
		return errors.Wrap(err, "release custody")
	}

	closeCustody := token.NewCloseAccountInstruction(p.tokenProgram,
		a.Custody.Key, a.InitializerMain.Key, a.Authority.Key)
	if err := env.Invoker.InvokeSigned(ctx, closeCustody, []*ledger.AccountInfo{
		a.Custody, a.InitializerMain, a.Authority, a.TokenProgram,
	}, signer); err != nil {
		return errors.Wrap(err, "close custody")
	}

	if a.InitializerMain.Lamports+a.Record.Lamports < a.InitializerMain.Lamports {
		return errors.Wrap(ErrAmountOverflow, "initializer lamports")
	}
	a.InitializerMain.Lamports += a.Record.Lamports
	a.Record.Lamports = 0
	a.Record.Data = []byte{}

	ledger.GetLogger(ctx).Info("escrow settled",
		"record", a.Record.Key,
		"paid", a.Escrow.ExpectedAmount,
		"released", a.CustodyAmount)
	return nil
}
