package app

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return &gen, nil
}

// GenesisAccount is a plain account declared in the genesis file.
type GenesisAccount struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
	// Owner defaults to the system program.
	Owner      ledger.Address `json:"owner"`
	Executable bool           `json:"executable"`
	// Data is hex encoded.
	Data string `json:"data"`
}

// Initializer loads the rent sysvar and plain accounts from the "rent" and
// "accounts" genesis sections. Without a "rent" section the default rent is
// used.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	rent := ledger.DefaultRent()
	if err := opts.ReadOptions("rent", &rent); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := rent.Validate(); err != nil {
		return errors.Wrap(err, "rent")
	}
	bucket := orm.NewAccountBucket()
	sysvar := &ledger.Account{
		Lamports: 1,
		Owner:    ledger.SystemProgramID,
		Data:     rent.Marshal(),
	}
	if err := bucket.Save(db, ledger.SysvarRentID, sysvar); err != nil {
		return errors.Wrap(err, "rent sysvar")
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if a.Lamports == 0 {
			return errors.Wrapf(errors.ErrInput, "account %d: no lamports", i)
		}
		data, err := hex.DecodeString(a.Data)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "account %d data: %s", i, err)
		}
		owner := a.Owner
		if len(owner) == 0 {
			owner = ledger.SystemProgramID
		}
		switch exists, err := bucket.Has(db, a.Address); {
		case err != nil:
			return err
		case exists:
			return errors.Wrapf(errors.ErrAccountAlreadyInUse, "account %d: %s", i, a.Address)
		}
		acct := &ledger.Account{
			Lamports:   a.Lamports,
			Owner:      owner,
			Executable: a.Executable,
			Data:       data,
		}
		if err := bucket.Save(db, a.Address, acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
