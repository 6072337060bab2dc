package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when reciving a
serialized transaction. Before signing you should check what kind of operation
are you authorizing.

Instructions of the system, token and escrow programs are decoded.
`)
		fl.PrintDefaults()
	}
	var (
		programFl      = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
	)
	fl.Parse(args)

	tx, err := readTx(input)
	if err != nil {
		return err
	}
	view := txView{Nonce: tx.Nonce, Signatures: tx.Signatures}
	for _, ix := range tx.Instructions {
		view.Instructions = append(view.Instructions, viewInstruction(ix, *programFl, *tokenProgramFl))
	}
	pretty, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type txView struct {
	Nonce        uint64            `json:"nonce"`
	Instructions []instructionView `json:"instructions"`
	Signatures   []app.Signature   `json:"signatures"`
}

type instructionView struct {
	Program  ledger.Address `json:"program"`
	Accounts []accountView  `json:"accounts"`
	Data     string         `json:"data"`
	// Decoded is set for instructions of known programs.
	Decoded map[string]interface{} `json:"decoded,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type accountView struct {
	Address  ledger.Address `json:"address"`
	Signer   bool           `json:"signer,omitempty"`
	Writable bool           `json:"writable,omitempty"`
}

func viewInstruction(ix ledger.Instruction, escrowProgram, tokenProgram ledger.Address) instructionView {
	v := instructionView{
		Program: ix.ProgramID,
		Data:    hex.EncodeToString(ix.Data),
	}
	for _, m := range ix.Accounts {
		v.Accounts = append(v.Accounts, accountView{
			Address:  m.Address,
			Signer:   m.IsSigner,
			Writable: m.IsWritable,
		})
	}
	decoded, err := decodeInstruction(ix, escrowProgram, tokenProgram)
	if err != nil {
		v.Error = err.Error()
	}
	v.Decoded = decoded
	return v
}

func decodeInstruction(ix ledger.Instruction, escrowProgram, tokenProgram ledger.Address) (map[string]interface{}, error) {
	switch {
	case ix.ProgramID.Equals(ledger.SystemProgramID):
		d, err := system.UnmarshalInstruction(ix.Data)
		if err != nil {
			return nil, err
		}
		m := map[string]interface{}{
			"type":     d.Type.String(),
			"lamports": d.Lamports,
		}
		if d.Type == system.CreateAccount {
			m["space"] = d.Space
			m["owner"] = d.Owner
		}
		return m, nil
	case ix.ProgramID.Equals(tokenProgram):
		d, err := token.UnmarshalInstruction(ix.Data)
		if err != nil {
			return nil, err
		}
		m := map[string]interface{}{"type": d.Type.String()}
		switch d.Type {
		case token.Transfer, token.MintTo:
			m["amount"] = d.Amount
		case token.InitializeMint:
			m["decimals"] = d.Decimals
			m["authority"] = d.Authority
		case token.SetAuthority:
			m["authority_type"] = d.AuthorityType
			m["authority"] = d.Authority
		}
		return m, nil
	case ix.ProgramID.Equals(escrowProgram):
		d, err := escrow.UnmarshalInstruction(ix.Data)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":   d.Type.String(),
			"amount": d.Amount,
		}, nil
	}
	return nil, nil
}

func cmdAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Fetch an account from the node and print its state. Mints, token accounts and
escrow records are decoded.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl       = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		addressFl      = flAddress(fl, "address", "", "Address of the account.")
		programFl      = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
		tokenProgramFl = flAddress(fl, "token-program", token.ProgramID.String(), "Address of the token program.")
	)
	fl.Parse(args)

	if err := required(map[string]*ledger.Address{"address": addressFl}); err != nil {
		return err
	}
	c := newClient(*tmAddrFl)
	acct, err := c.Account(*addressFl)
	if err != nil {
		return fmt.Errorf("cannot fetch account: %s", err)
	}
	if acct == nil {
		return fmt.Errorf("account %s does not exist", *addressFl)
	}
	view, err := viewAccount(c, *addressFl, acct, *programFl, *tokenProgramFl)
	if err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type stateView struct {
	Address    ledger.Address `json:"address"`
	Lamports   uint64         `json:"lamports"`
	Owner      ledger.Address `json:"owner"`
	Executable bool           `json:"executable,omitempty"`
	DataLen    int            `json:"data_len"`

	Mint   *mintView            `json:"mint,omitempty"`
	Token  *tokenAccountView    `json:"token_account,omitempty"`
	Escrow *escrow.EscrowRecord `json:"escrow,omitempty"`
}

type mintView struct {
	Decimals      uint8          `json:"decimals"`
	Supply        string         `json:"supply"`
	MintAuthority ledger.Address `json:"mint_authority,omitempty"`
}

type tokenAccountView struct {
	Mint   ledger.Address `json:"mint"`
	Owner  ledger.Address `json:"owner"`
	Amount string         `json:"amount"`
}

func viewAccount(c *client.Client, addr ledger.Address, acct *ledger.Account, escrowProgram, tokenProgram ledger.Address) (*stateView, error) {
	v := &stateView{
		Address:    addr,
		Lamports:   acct.Lamports,
		Owner:      acct.Owner,
		Executable: acct.Executable,
		DataLen:    len(acct.Data),
	}
	switch {
	case acct.Owner.Equals(tokenProgram) && len(acct.Data) == token.MintLen:
		mint, err := token.UnpackMintUnchecked(acct.Data)
		if err != nil {
			return nil, fmt.Errorf("cannot decode mint: %s", err)
		}
		v.Mint = &mintView{
			Decimals: mint.Decimals,
			Supply:   token.UIAmount(mint.Supply, mint.Decimals).String(),
		}
		if mint.HasAuthority() {
			v.Mint.MintAuthority = mint.MintAuthority
		}
	case acct.Owner.Equals(tokenProgram) && len(acct.Data) == token.AccountLen:
		ta, err := token.UnpackAccountUnchecked(acct.Data)
		if err != nil {
			return nil, fmt.Errorf("cannot decode token account: %s", err)
		}
		decimals, err := mintDecimals(c, ta.Mint)
		if err != nil {
			return nil, err
		}
		v.Token = &tokenAccountView{
			Mint:   ta.Mint,
			Owner:  ta.Owner,
			Amount: token.UIAmount(ta.Amount, decimals).String(),
		}
	case acct.Owner.Equals(escrowProgram) && len(acct.Data) == escrow.EscrowRecordLen:
		rec, err := escrow.UnpackUnchecked(acct.Data)
		if err != nil {
			return nil, fmt.Errorf("cannot decode escrow record: %s", err)
		}
		v.Escrow = rec
	}
	return v, nil
}

// mintDecimals returns the decimals of a mint. A mint that cannot be
// fetched has no decimals.
func mintDecimals(c *client.Client, mint ledger.Address) (uint8, error) {
	acct, err := c.Account(mint)
	if err != nil {
		return 0, fmt.Errorf("cannot fetch mint: %s", err)
	}
	if acct == nil {
		return 0, nil
	}
	m, err := token.UnpackMint(acct.Data)
	if err != nil {
		return 0, fmt.Errorf("cannot decode mint %s: %s", mint, err)
	}
	return m.Decimals, nil
}
