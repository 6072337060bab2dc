package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

// DevLamports is the balance of the account created by GenInitOptions.
const DevLamports = 1000000000000

// DevDecimals is the number of decimals of all DevMints.
const DevDecimals = 2

// DevMints are the names of the mints created by GenInitOptions.
var DevMints = []string{"A", "B"}

// MintAddress returns the address of a development mint with given name.
// No private key exists for it.
func MintAddress(name string) (ledger.Address, error) {
	addr, _, err := ledger.FindProgramAddress(MintSeeds(name), token.ProgramID)
	return addr, err
}

// MintSeeds returns the seeds the address of a development mint is derived
// from, using the token program.
func MintSeeds(name string) [][]byte {
	return [][]byte{[]byte("mint"), []byte(name)}
}

type genesisMint struct {
	Address       ledger.Address `json:"address"`
	Lamports      uint64         `json:"lamports"`
	Decimals      uint8          `json:"decimals"`
	MintAuthority ledger.Address `json:"mint_authority"`
}

type genesisToken struct {
	Mints    []genesisMint     `json:"mints"`
	Accounts []json.RawMessage `json:"accounts"`
}

type genesisState struct {
	Rent     ledger.Rent                `json:"rent"`
	Accounts []app.GenesisAccount       `json:"accounts"`
	Token    genesisToken               `json:"token"`
	Conf     map[string]json.RawMessage `json:"conf"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The account is also the mint authority of
// all DevMints.
//
// The address can be given as the first argument. Otherwise a new key is
// generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr ledger.Address
	if len(args) > 0 {
		a, err := ledger.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the key
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	rent := ledger.DefaultRent()
	state := genesisState{
		Rent: rent,
		Accounts: []app.GenesisAccount{
			{Address: addr, Lamports: DevLamports},
		},
		Token: genesisToken{Accounts: []json.RawMessage{}},
	}
	for _, name := range DevMints {
		mint, err := MintAddress(name)
		if err != nil {
			return nil, err
		}
		state.Token.Mints = append(state.Token.Mints, genesisMint{
			Address:       mint,
			Lamports:      rent.MinimumBalance(token.MintLen),
			Decimals:      DevDecimals,
			MintAuthority: addr,
		})
	}
	conf := escrow.DefaultConfiguration()
	raw, err := conf.Marshal()
	if err != nil {
		return nil, err
	}
	state.Conf = map[string]json.RawMessage{"escrow": raw}

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return out, nil
}

// GenerateCoinKey returns the address of a new key, along with
// its json representation.
func GenerateCoinKey() (ledger.Address, string, error) {
	key := crypto.GenPrivKeyEd25519()
	raw, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return key.Address(), string(raw), nil
}
