package token

import (
	"github.com/iov-one/ledger"
)

// ProgramID is the address the token program is deployed under.
var ProgramID = ledger.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

func build(programID ledger.Address, ix Instruction, accounts ...ledger.AccountMeta) ledger.Instruction {
	data, err := ix.Marshal()
	if err != nil {
		// Only invalid addresses can fail, which is a coding error.
		panic(err)
	}
	return ledger.Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}
}

// NewInitializeMintInstruction returns an instruction that initializes a
// new mint. The mint account must be allocated and owned by the token
// program.
func NewInitializeMintInstruction(programID, mint, authority ledger.Address, decimals uint8) ledger.Instruction {
	return build(programID,
		Instruction{Type: InitializeMint, Decimals: decimals, Authority: authority},
		ledger.NewAccountMeta(mint, false),
		ledger.NewReadonlyAccountMeta(ledger.SysvarRentID, false),
	)
}

// NewInitializeAccountInstruction returns an instruction that initializes a
// new token account of given mint, owned by owner.
func NewInitializeAccountInstruction(programID, account, mint, owner ledger.Address) ledger.Instruction {
	return build(programID,
		Instruction{Type: InitializeAccount},
		ledger.NewAccountMeta(account, false),
		ledger.NewReadonlyAccountMeta(mint, false),
		ledger.NewReadonlyAccountMeta(owner, false),
		ledger.NewReadonlyAccountMeta(ledger.SysvarRentID, false),
	)
}

// NewTransferInstruction returns an instruction moving amount of tokens from
// source to destination. The authority must be the owner of the source.
func NewTransferInstruction(programID, source, destination, authority ledger.Address, amount uint64) ledger.Instruction {
	return build(programID,
		Instruction{Type: Transfer, Amount: amount},
		ledger.NewAccountMeta(source, false),
		ledger.NewAccountMeta(destination, false),
		ledger.NewReadonlyAccountMeta(authority, true),
	)
}

// NewSetAuthorityInstruction returns an instruction that replaces the
// authority of a mint or a token account.
func NewSetAuthorityInstruction(programID, target, current ledger.Address, kind AuthorityType, newAuthority ledger.Address) ledger.Instruction {
	return build(programID,
		Instruction{Type: SetAuthority, AuthorityType: kind, Authority: newAuthority},
		ledger.NewAccountMeta(target, false),
		ledger.NewReadonlyAccountMeta(current, true),
	)
}

// NewMintToInstruction returns an instruction that mints new tokens to the
// destination account.
func NewMintToInstruction(programID, mint, destination, authority ledger.Address, amount uint64) ledger.Instruction {
	return build(programID,
		Instruction{Type: MintTo, Amount: amount},
		ledger.NewAccountMeta(mint, false),
		ledger.NewAccountMeta(destination, false),
		ledger.NewReadonlyAccountMeta(authority, true),
	)
}

// NewCloseAccountInstruction returns an instruction that closes an empty
// token account and moves its lamports to the destination.
func NewCloseAccountInstruction(programID, account, destination, authority ledger.Address) ledger.Instruction {
	return build(programID,
		Instruction{Type: CloseAccount},
		ledger.NewAccountMeta(account, false),
		ledger.NewAccountMeta(destination, false),
		ledger.NewReadonlyAccountMeta(authority, true),
	)
}
