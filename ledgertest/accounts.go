package ledgertest

import (
	"github.com/iov-one/ledger"
)

// Info returns an account info view of given account.
func Info(key ledger.Address, acct *ledger.Account, signer, writable bool) *ledger.AccountInfo {
	return &ledger.AccountInfo{
		Key:        key,
		IsSigner:   signer,
		IsWritable: writable,
		Account:    acct,
	}
}

// RentInfo returns the rent sysvar account info holding given rent.
func RentInfo(rent ledger.Rent) *ledger.AccountInfo {
	acct := &ledger.Account{
		Lamports: 1,
		Owner:    ledger.SystemProgramID,
		Data:     rent.Marshal(),
	}
	return Info(ledger.SysvarRentID, acct, false, false)
}

// RentExemptAccount returns an account holding exactly the minimum balance
// for the requested data size.
func RentExemptAccount(space int, owner ledger.Address) *ledger.Account {
	return ledger.NewAccount(ledger.DefaultRent().MinimumBalance(space), space, owner)
}
