package main

import (
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

// Out is the genesis app_state as read by the escrowd initializers.
type Out struct {
	Rent     ledger.Rent                `json:"rent"`
	Accounts []app.GenesisAccount       `json:"accounts"`
	Token    tokenFormat                `json:"token"`
	Conf     map[string]json.RawMessage `json:"conf"`
	// Escrow lists open trades. It is informative only, the escrow
	// records are part of Accounts.
	Escrow []escrowFormat `json:"escrow"`
}

type tokenFormat struct {
	Mints    []mintFormat         `json:"mints"`
	Accounts []tokenAccountFormat `json:"accounts"`
}

type mintFormat struct {
	Address       ledger.Address `json:"address"`
	Lamports      uint64         `json:"lamports"`
	Decimals      uint8          `json:"decimals"`
	MintAuthority ledger.Address `json:"mint_authority,omitempty"`
}

type tokenAccountFormat struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
	Mint     ledger.Address `json:"mint"`
	Owner    ledger.Address `json:"owner"`
	Amount   uint64         `json:"amount"`
}

type escrowFormat struct {
	Address        ledger.Address `json:"address"`
	Initializer    ledger.Address `json:"initializer"`
	Custody        ledger.Address `json:"custody"`
	Receiving      ledger.Address `json:"receiving"`
	ExpectedAmount uint64         `json:"expected_amount"`
}

// extractState reads all accounts. Initialized mints and token accounts
// of the configured token program go to the token section, everything
// else is exported as a plain account.
func extractState(db ledger.ReadOnlyKVStore) (*Out, error) {
	conf, err := escrow.LoadConfiguration(db)
	if err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	rawConf, err := conf.Marshal()
	if err != nil {
		return nil, err
	}
	out := &Out{
		Rent:     ledger.DefaultRent(),
		Accounts: []app.GenesisAccount{},
		Token: tokenFormat{
			Mints:    []mintFormat{},
			Accounts: []tokenAccountFormat{},
		},
		Conf:   map[string]json.RawMessage{"escrow": rawConf},
		Escrow: []escrowFormat{},
	}

	bucket := orm.NewAccountBucket()
	addrs, err := bucket.Addresses(db)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		acct, err := bucket.GetAccount(db, addr)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", addr)
		}
		if addr.Equals(ledger.SysvarRentID) {
			rent, err := ledger.UnmarshalRent(acct.Data)
			if err != nil {
				return nil, errors.Wrap(err, "rent sysvar")
			}
			out.Rent = rent
			continue
		}
		if acct.Owner.Equals(conf.TokenProgram) && extractToken(out, addr, acct) {
			continue
		}
		if acct.Owner.Equals(escrow.ProgramID) && len(acct.Data) == escrow.EscrowRecordLen {
			if rec, err := escrow.Unpack(acct.Data); err == nil {
				out.Escrow = append(out.Escrow, escrowFormat{
					Address:        addr,
					Initializer:    rec.Initializer,
					Custody:        rec.Custody,
					Receiving:      rec.Receiving,
					ExpectedAmount: rec.ExpectedAmount,
				})
			}
		}
		out.Accounts = append(out.Accounts, app.GenesisAccount{
			Address:    addr,
			Lamports:   acct.Lamports,
			Owner:      acct.Owner,
			Executable: acct.Executable,
			Data:       hex.EncodeToString(acct.Data),
		})
	}
	return out, nil
}

// extractToken adds an initialized mint or token account to the token
// section. False is returned if the account is neither.
func extractToken(out *Out, addr ledger.Address, acct *ledger.Account) bool {
	switch len(acct.Data) {
	case token.MintLen:
		mint, err := token.UnpackMint(acct.Data)
		if err != nil {
			return false
		}
		m := mintFormat{
			Address:  addr,
			Lamports: acct.Lamports,
			Decimals: mint.Decimals,
		}
		if mint.HasAuthority() {
			m.MintAuthority = mint.MintAuthority
		}
		out.Token.Mints = append(out.Token.Mints, m)
		return true
	case token.AccountLen:
		ta, err := token.UnpackAccount(acct.Data)
		if err != nil {
			return false
		}
		out.Token.Accounts = append(out.Token.Accounts, tokenAccountFormat{
			Address:  addr,
			Lamports: acct.Lamports,
			Mint:     ta.Mint,
			Owner:    ta.Owner,
			Amount:   ta.Amount,
		})
		return true
	}
	return false
}
