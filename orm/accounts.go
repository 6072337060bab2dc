package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// AccountBucket stores ledger accounts under their address.
type AccountBucket struct {
	Bucket
}

// NewAccountBucket returns a bucket holding accounts under the "acct:"
// prefix.
func NewAccountBucket() AccountBucket {
	return AccountBucket{Bucket: NewBucket("acct")}
}

// GetAccount returns the account stored under given address, or nil if no
// such account exists.
func (b AccountBucket) GetAccount(db ledger.ReadOnlyKVStore, addr ledger.Address) (*ledger.Account, error) {
	var acct ledger.Account
	switch err := b.One(db, addr, &acct); {
	case err == nil:
		return &acct, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save writes the account. An account without lamports is removed instead.
func (b AccountBucket) Save(db ledger.KVStore, addr ledger.Address, acct *ledger.Account) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if acct.Lamports == 0 {
		return b.Delete(db, addr)
	}
	return b.Put(db, addr, acct)
}

// Addresses returns the addresses of all stored accounts.
func (b AccountBucket) Addresses(db ledger.ReadOnlyKVStore) ([]ledger.Address, error) {
	keys, err := b.Keys(db)
	if err != nil {
		return nil, err
	}
	addrs := make([]ledger.Address, len(keys))
	for i, k := range keys {
		addrs[i] = ledger.Address(k)
	}
	return addrs, nil
}
