package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
)

func cmdCreateTokenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction allocating a new, rent exempt token account. The
transaction must be signed by the payer and by the new account.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
		payerFl        = flAddress(fl, "payer", "", "Address paying for the account.")
		accountFl      = flAddress(fl, "account", "", "Address of the new token account.")
		mintFl         = flAddress(fl, "mint", "", "Mint of the tokens the account holds.")
		ownerFl        = flAddress(fl, "owner", "", "Owner of the new token account.")
		nonceFl        = fl.Uint64("nonce", 0, "Transaction nonce. Current time is used if not given.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{
		"payer":   payerFl,
		"account": accountFl,
		"mint":    mintFl,
		"owner":   ownerFl,
	}); err != nil {
		return err
	}

	rent, err := newClient(*tmAddrFl).Rent()
	if err != nil {
		return fmt.Errorf("cannot fetch rent: %s", err)
	}
	tx := newTx(*nonceFl)
	tx.Instructions = []ledger.Instruction{
		system.NewCreateAccountInstruction(*payerFl, *accountFl,
			rent.MinimumBalance(token.AccountLen), token.AccountLen, *tokenProgramFl),
		token.NewInitializeAccountInstruction(*tokenProgramFl, *accountFl, *mintFl, *ownerFl),
	}
	return writeTx(output, tx)
}

func cmdMintTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction minting new tokens. The transaction must be signed by the
mint authority.

The amount is given in the human readable form, using the decimals of the mint.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
		mintFl         = flAddress(fl, "mint", "", "Mint of the tokens.")
		toFl           = flAddress(fl, "to", "", "Token account receiving the tokens.")
		authorityFl    = flAddress(fl, "authority", "", "Mint authority.")
		amountFl       = fl.String("amount", "", "Amount of tokens to mint.")
		nonceFl        = fl.Uint64("nonce", 0, "Transaction nonce. Current time is used if not given.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{
		"mint":      mintFl,
		"to":        toFl,
		"authority": authorityFl,
	}); err != nil {
		return err
	}

	amount, err := parseAmount(newClient(*tmAddrFl), *mintFl, *amountFl)
	if err != nil {
		return err
	}
	tx := newTx(*nonceFl)
	tx.Instructions = []ledger.Instruction{
		token.NewMintToInstruction(*tokenProgramFl, *mintFl, *toFl, *authorityFl, amount),
	}
	return writeTx(output, tx)
}
