package ledger

import (
	"encoding/binary"

	"github.com/iov-one/ledger/errors"
)

// Account is the state stored under an address. Only the owner program may
// change the data or debit lamports.
type Account struct {
	// Lamports is the native balance.
	Lamports uint64
	// Owner is the program that controls this account.
	Owner Address
	// Executable is set for accounts holding programs.
	Executable bool
	Data       []byte
}

// accountHeaderLen is the serialized size of an account without data.
const accountHeaderLen = 8 + AddressLength + 1 + 4

// NewAccount returns an account with given balance, owner and a zeroed data
// buffer of the requested size.
func NewAccount(lamports uint64, space int, owner Address) *Account {
	return &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
}

// Validate ensures the account can be persisted.
func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// Marshal serializes the account into
//   [lamports:8 LE][owner:32][executable:1][data_len:4 LE][data]
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, accountHeaderLen+len(a.Data))
	binary.LittleEndian.PutUint64(raw, a.Lamports)
	copy(raw[8:], a.Owner)
	if a.Executable {
		raw[8+AddressLength] = 1
	}
	binary.LittleEndian.PutUint32(raw[8+AddressLength+1:], uint32(len(a.Data)))
	copy(raw[accountHeaderLen:], a.Data)
	return raw, nil
}

// Unmarshal is the reverse of Marshal.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) < accountHeaderLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "account of %d bytes", len(raw))
	}
	size := binary.LittleEndian.Uint32(raw[8+AddressLength+1:])
	if int(size) != len(raw)-accountHeaderLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "declared %d data bytes, got %d", size, len(raw)-accountHeaderLen)
	}
	switch raw[8+AddressLength] {
	case 0:
		a.Executable = false
	case 1:
		a.Executable = true
	default:
		return errors.Wrap(errors.ErrInvalidAccountData, "executable flag")
	}
	a.Lamports = binary.LittleEndian.Uint64(raw)
	a.Owner = append(Address(nil), raw[8:8+AddressLength]...)
	a.Data = append([]byte{}, raw[accountHeaderLen:]...)
	return nil
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	return &Account{
		Lamports:   a.Lamports,
		Owner:      append(Address(nil), a.Owner...),
		Executable: a.Executable,
		Data:       append([]byte{}, a.Data...),
	}
}

// AccountInfo is the view of an account handed to a program. Infos created
// for the same key share the same *Account, so a change made through one of
// them is visible through all.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	*Account
}

// OwnedBy returns true if the account is owned by given program.
func (i *AccountInfo) OwnedBy(program Address) bool {
	return i.Owner.Equals(program)
}

// DataLen returns the size of the account data.
func (i *AccountInfo) DataLen() int {
	return len(i.Data)
}

// Meta returns the reference to this account that can be used to build an
// instruction for a cross program invocation.
func (i *AccountInfo) Meta() AccountMeta {
	return AccountMeta{
		Address:    i.Key,
		IsSigner:   i.IsSigner,
		IsWritable: i.IsWritable,
	}
}

// AccountIter hands out account infos in the order they were provided to a
// program. Use it to bind positional accounts to named roles.
type AccountIter struct {
	infos []*AccountInfo
}

// NewAccountIter returns an iterator over given infos.
func NewAccountIter(infos []*AccountInfo) *AccountIter {
	return &AccountIter{infos: infos}
}

// Next returns the next account. ErrNotEnoughAccountKeys is returned when
// all accounts were consumed.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if len(it.infos) == 0 {
		return nil, errors.ErrNotEnoughAccountKeys
	}
	info := it.infos[0]
	it.infos = it.infos[1:]
	return info, nil
}
