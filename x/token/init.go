package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Initializer fulfils the Initializer interface to load mints and token
// accounts from the genesis file.
type Initializer struct {
	// ProgramID owns all created accounts. Defaults to the well known
	// token program address.
	ProgramID ledger.Address
}

var _ ledger.Initializer = (*Initializer)(nil)

type genesisMint struct {
	Address       ledger.Address `json:"address"`
	Lamports      uint64         `json:"lamports"`
	Decimals      uint8          `json:"decimals"`
	MintAuthority ledger.Address `json:"mint_authority"`
}

type genesisAccount struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
	Mint     ledger.Address `json:"mint"`
	Owner    ledger.Address `json:"owner"`
	Amount   uint64         `json:"amount"`
}

// FromGenesis will parse initial token state from genesis and save it to the
// database. The supply of every mint is the sum of its genesis accounts.
func (ini *Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var genesis struct {
		Mints    []genesisMint    `json:"mints"`
		Accounts []genesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions("token", &genesis); err != nil {
		return errors.Wrap(err, "token genesis")
	}
	programID := ini.ProgramID
	if len(programID) == 0 {
		programID = ProgramID
	}

	mints := make(map[string]*Mint, len(genesis.Mints))
	for i, m := range genesis.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		mints[m.Address.String()] = &Mint{
			IsInitialized: true,
			Decimals:      m.Decimals,
			MintAuthority: m.MintAuthority,
		}
	}

	bucket := orm.NewAccountBucket()
	for i, a := range genesis.Accounts {
		mint, ok := mints[a.Mint.String()]
		if !ok {
			return errors.Wrapf(ErrMintMismatch, "account %d: unknown mint %s", i, a.Mint)
		}
		if err := a.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "account %d owner", i)
		}
		if mint.Supply+a.Amount < mint.Supply {
			return errors.Wrapf(errors.ErrOverflow, "supply of %s", a.Mint)
		}
		mint.Supply += a.Amount

		state := Account{Mint: a.Mint, Owner: a.Owner, Amount: a.Amount, State: StateInitialized}
		acct := ledger.NewAccount(a.Lamports, AccountLen, programID)
		if err := state.Pack(acct.Data); err != nil {
			return err
		}
		if err := save(kv, bucket, a.Address, acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	for _, m := range genesis.Mints {
		acct := ledger.NewAccount(m.Lamports, MintLen, programID)
		if err := mints[m.Address.String()].Pack(acct.Data); err != nil {
			return err
		}
		if err := save(kv, bucket, m.Address, acct); err != nil {
			return errors.Wrapf(err, "mint %s", m.Address)
		}
	}
	return nil
}

func save(kv ledger.KVStore, bucket orm.AccountBucket, addr ledger.Address, acct *ledger.Account) error {
	if acct.Lamports == 0 {
		return errors.Wrap(errors.ErrEmpty, "lamports")
	}
	if has, err := bucket.Has(kv, addr); err != nil {
		return err
	} else if has {
		return errors.Wrapf(errors.ErrAccountAlreadyInUse, "%s", addr)
	}
	return bucket.Save(kv, addr, acct)
}
