package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

func cmdAuthority(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the address of the escrow custody authority together with its bump seed.
No private key exists for this address.
`)
		fl.PrintDefaults()
	}
	var (
		programFl = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		seedFl    = fl.String("seed", escrow.DefaultSeed, "Seed the authority is derived from.")
	)
	fl.Parse(args)

	addr, bump, err := escrow.NewSeedAuthority(*seedFl).Derive(*programFl)
	if err != nil {
		return fmt.Errorf("cannot derive authority: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s %d\n", addr, bump)
	return err
}

func cmdOffer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction offering a trade. The offered tokens are moved from the
sending account into a new custody account and an escrow record is created.
Both the custody and the record must be new addresses, for example created
with the keygen command. The transaction must be signed by the initializer,
the custody and the record keys.

Amounts are given in the human readable form, using the decimals of the
relevant mint.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		programFl      = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
		initializerFl  = flAddress(fl, "initializer", "", "Address of the initializer. Pays for the new accounts.")
		custodyFl      = flAddress(fl, "custody", "", "Address of the new custody token account.")
		recordFl       = flAddress(fl, "record", "", "Address of the new escrow record.")
		mintFl         = flAddress(fl, "mint", "", "Mint of the offered tokens.")
		sendingFl      = flAddress(fl, "sending", "", "Initializer token account the offered tokens are taken from.")
		receivingFl    = flAddress(fl, "receiving", "", "Initializer token account the payment goes to.")
		depositFl      = fl.String("deposit", "", "Amount of offered tokens.")
		expectedFl     = fl.String("expected", "", "Amount of tokens expected in exchange.")
		nonceFl        = fl.Uint64("nonce", 0, "Transaction nonce. Current time is used if not given.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{
		"initializer": initializerFl,
		"custody":     custodyFl,
		"record":      recordFl,
		"mint":        mintFl,
		"sending":     sendingFl,
		"receiving":   receivingFl,
	}); err != nil {
		return err
	}

	c := newClient(*tmAddrFl)
	rent, err := c.Rent()
	if err != nil {
		return fmt.Errorf("cannot fetch rent: %s", err)
	}
	deposit, err := parseAmount(c, *mintFl, *depositFl)
	if err != nil {
		return fmt.Errorf("deposit: %s", err)
	}
	receiving, err := tokenAccount(c, *receivingFl, *tokenProgramFl)
	if err != nil {
		return err
	}
	expected, err := parseAmount(c, receiving.Mint, *expectedFl)
	if err != nil {
		return fmt.Errorf("expected: %s", err)
	}

	tx := newTx(*nonceFl)
	tx.Instructions = escrow.NewTradeInstructions(escrow.TradeParams{
		ProgramID:      *programFl,
		TokenProgram:   *tokenProgramFl,
		Rent:           rent,
		Initializer:    *initializerFl,
		Custody:        *custodyFl,
		Record:         *recordFl,
		Mint:           *mintFl,
		Sending:        *sendingFl,
		Deposit:        deposit,
		Receiving:      *receivingFl,
		ExpectedAmount: expected,
	})
	return writeTx(output, tx)
}

func cmdTake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction taking an offered trade. The taker pays the expected
amount and receives the custodied tokens. The transaction must be signed by the
taker.

The amount is what the taker expects to receive. The trade fails if the
custody account holds a different amount.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		programFl      = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
		seedFl         = fl.String("seed", escrow.DefaultSeed, "Seed the custody authority is derived from.")
		recordFl       = flAddress(fl, "record", "", "Address of the escrow record.")
		takerFl        = flAddress(fl, "taker", "", "Address of the taker.")
		sendingFl      = flAddress(fl, "sending", "", "Taker token account the payment is taken from.")
		receivingFl    = flAddress(fl, "receiving", "", "Taker token account the offered tokens go to.")
		amountFl       = fl.String("amount", "", "Amount of offered tokens the taker expects.")
		nonceFl        = fl.Uint64("nonce", 0, "Transaction nonce. Current time is used if not given.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{
		"record":    recordFl,
		"taker":     takerFl,
		"sending":   sendingFl,
		"receiving": receivingFl,
	}); err != nil {
		return err
	}

	c := newClient(*tmAddrFl)
	rec, err := escrowRecord(c, *recordFl, *programFl)
	if err != nil {
		return err
	}
	custody, err := tokenAccount(c, rec.Custody, *tokenProgramFl)
	if err != nil {
		return err
	}
	amount, err := parseAmount(c, custody.Mint, *amountFl)
	if err != nil {
		return fmt.Errorf("amount: %s", err)
	}
	authority, _, err := escrow.NewSeedAuthority(*seedFl).Derive(*programFl)
	if err != nil {
		return fmt.Errorf("cannot derive authority: %s", err)
	}

	tx := newTx(*nonceFl)
	tx.Instructions = []ledger.Instruction{
		escrow.NewExchangeInstruction(escrow.ExchangeParams{
			ProgramID:            *programFl,
			TokenProgram:         *tokenProgramFl,
			Authority:            authority,
			Taker:                *takerFl,
			TakerSending:         *sendingFl,
			TakerReceiving:       *receivingFl,
			Custody:              rec.Custody,
			Initializer:          rec.Initializer,
			InitializerReceiving: rec.Receiving,
			Record:               *recordFl,
			Amount:               amount,
		}),
	}
	return writeTx(output, tx)
}

func cmdRecord(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a summary of an offered trade: what is offered and what is expected in
exchange.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		programFl      = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
		recordFl       = flAddress(fl, "record", "", "Address of the escrow record.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{"record": recordFl}); err != nil {
		return err
	}

	c := newClient(*tmAddrFl)
	rec, err := escrowRecord(c, *recordFl, *programFl)
	if err != nil {
		return err
	}
	custody, err := tokenAccount(c, rec.Custody, *tokenProgramFl)
	if err != nil {
		return err
	}
	receiving, err := tokenAccount(c, rec.Receiving, *tokenProgramFl)
	if err != nil {
		return err
	}
	offeredDecimals, err := mintDecimals(c, custody.Mint)
	if err != nil {
		return err
	}
	expectedDecimals, err := mintDecimals(c, receiving.Mint)
	if err != nil {
		return err
	}

	summary := tradeView{
		Initializer:  rec.Initializer,
		Custody:      rec.Custody,
		Receiving:    rec.Receiving,
		OfferedMint:  custody.Mint,
		Offered:      token.UIAmount(custody.Amount, offeredDecimals).String(),
		ExpectedMint: receiving.Mint,
		Expected:     token.UIAmount(rec.ExpectedAmount, expectedDecimals).String(),
	}
	pretty, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type tradeView struct {
	Initializer  ledger.Address `json:"initializer"`
	Custody      ledger.Address `json:"custody"`
	Receiving    ledger.Address `json:"receiving"`
	OfferedMint  ledger.Address `json:"offered_mint"`
	Offered      string         `json:"offered"`
	ExpectedMint ledger.Address `json:"expected_mint"`
	Expected     string         `json:"expected"`
}

// parseAmount converts a human readable amount into base units using the
// decimals of given mint.
func parseAmount(c *client.Client, mint ledger.Address, amount string) (uint64, error) {
	if amount == "" {
		return 0, errors.New("amount is required")
	}
	decimals, err := mintDecimals(c, mint)
	if err != nil {
		return 0, err
	}
	n, err := token.ParseUIAmount(amount, decimals)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %s", amount, err)
	}
	return n, nil
}

func tokenAccount(c *client.Client, addr, tokenProgram ledger.Address) (*token.Account, error) {
	acct, err := c.Account(addr)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch token account %s: %s", addr, err)
	}
	if acct == nil || !acct.Owner.Equals(tokenProgram) {
		return nil, fmt.Errorf("%s is not a token account", addr)
	}
	ta, err := token.UnpackAccount(acct.Data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode token account %s: %s", addr, err)
	}
	return ta, nil
}

func escrowRecord(c *client.Client, addr, program ledger.Address) (*escrow.EscrowRecord, error) {
	acct, err := c.Account(addr)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch escrow record: %s", err)
	}
	if acct == nil || !acct.Owner.Equals(program) {
		return nil, fmt.Errorf("%s is not an escrow record", addr)
	}
	rec, err := escrow.Unpack(acct.Data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode escrow record: %s", err)
	}
	return rec, nil
}
