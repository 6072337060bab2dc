package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
)

func build(programID ledger.Address, ix Instruction, accounts ...ledger.AccountMeta) ledger.Instruction {
	data, err := ix.Marshal()
	if err != nil {
		// Only unknown instruction types fail, which is a coding error.
		panic(err)
	}
	return ledger.Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}
}

// InitializeParams references the accounts of an Initialize instruction.
type InitializeParams struct {
	ProgramID    ledger.Address
	TokenProgram ledger.Address
	Initializer  ledger.Address
	// Custody is a token account owned by the initializer, holding the
	// tokens offered.
	Custody ledger.Address
	// Receiving is the initializer token account the payment goes to.
	Receiving ledger.Address
	// Record is an allocated, rent exempt account of EscrowRecordLen bytes
	// owned by the escrow program.
	Record ledger.Address
	// ExpectedAmount is the payment the initializer wants.
	ExpectedAmount uint64
}

// NewInitializeInstruction returns an instruction starting a trade.
func NewInitializeInstruction(p InitializeParams) ledger.Instruction {
	return build(p.ProgramID,
		Instruction{Type: Initialize, Amount: p.ExpectedAmount},
		ledger.NewReadonlyAccountMeta(p.Initializer, true),
		ledger.NewAccountMeta(p.Custody, false),
		ledger.NewReadonlyAccountMeta(p.Receiving, false),
		ledger.NewAccountMeta(p.Record, false),
		ledger.NewReadonlyAccountMeta(ledger.SysvarRentID, false),
		ledger.NewReadonlyAccountMeta(p.TokenProgram, false),
	)
}

// ExchangeParams references the accounts of an Exchange instruction.
type ExchangeParams struct {
	ProgramID    ledger.Address
	TokenProgram ledger.Address
	// Authority is the derived custody authority, see Authority.Derive.
	Authority            ledger.Address
	Taker                ledger.Address
	TakerSending         ledger.Address
	TakerReceiving       ledger.Address
	Custody              ledger.Address
	Initializer          ledger.Address
	InitializerReceiving ledger.Address
	Record               ledger.Address
	// Amount is what the taker expects to receive. It must match the
	// custodied amount.
	Amount uint64
}

// NewExchangeInstruction returns an instruction settling a trade.
func NewExchangeInstruction(p ExchangeParams) ledger.Instruction {
	return build(p.ProgramID,
		Instruction{Type: Exchange, Amount: p.Amount},
		ledger.NewReadonlyAccountMeta(p.Taker, true),
		ledger.NewAccountMeta(p.TakerSending, false),
		ledger.NewAccountMeta(p.TakerReceiving, false),
		ledger.NewAccountMeta(p.Custody, false),
		ledger.NewAccountMeta(p.Initializer, false),
		ledger.NewAccountMeta(p.InitializerReceiving, false),
		ledger.NewAccountMeta(p.Record, false),
		ledger.NewReadonlyAccountMeta(p.TokenProgram, false),
		ledger.NewReadonlyAccountMeta(p.Authority, false),
	)
}

// TradeParams describes a complete trade offer.
type TradeParams struct {
	ProgramID    ledger.Address
	TokenProgram ledger.Address
	Rent         ledger.Rent
	Initializer  ledger.Address
	// Custody and Record are fresh addresses. Both must sign the
	// transaction, because the system program creates accounts only with
	// the consent of the new address.
	Custody ledger.Address
	Record  ledger.Address
	// Mint of the offered tokens and the initializer account holding them.
	Mint    ledger.Address
	Sending ledger.Address
	Deposit uint64
	// Receiving is the initializer token account the payment goes to.
	Receiving      ledger.Address
	ExpectedAmount uint64
}

// NewTradeInstructions returns all instructions that must be executed in a
// single transaction to offer a trade: allocate and fund the custody
// account, deposit the offered tokens into it, allocate the escrow record and
// initialize the escrow.
func NewTradeInstructions(p TradeParams) []ledger.Instruction {
	return []ledger.Instruction{
		system.NewCreateAccountInstruction(p.Initializer, p.Custody,
			p.Rent.MinimumBalance(token.AccountLen), token.AccountLen, p.TokenProgram),
		token.NewInitializeAccountInstruction(p.TokenProgram, p.Custody, p.Mint, p.Initializer),
		token.NewTransferInstruction(p.TokenProgram, p.Sending, p.Custody, p.Initializer, p.Deposit),
		system.NewCreateAccountInstruction(p.Initializer, p.Record,
			p.Rent.MinimumBalance(EscrowRecordLen), EscrowRecordLen, p.ProgramID),
		NewInitializeInstruction(InitializeParams{
			ProgramID:      p.ProgramID,
			TokenProgram:   p.TokenProgram,
			Initializer:    p.Initializer,
			Custody:        p.Custody,
			Receiving:      p.Receiving,
			Record:         p.Record,
			ExpectedAmount: p.ExpectedAmount,
		}),
	}
}
