package token

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	// MintLen is the size of a serialized mint.
	MintLen = 1 + 1 + 8 + ledger.AddressLength

	// AccountLen is the size of a serialized token account.
	AccountLen = ledger.AddressLength + ledger.AddressLength + 8 + 1
)

// Mint declares a token.
//
// Serialized as
//   [initialized:1][decimals:1][supply:8 LE][mint_authority:32]
// An all zero mint authority means that no more tokens can be minted.
type Mint struct {
	IsInitialized bool
	Decimals      uint8
	Supply        uint64
	MintAuthority ledger.Address
}

// HasAuthority returns true if tokens can still be minted.
func (m *Mint) HasAuthority() bool {
	return len(m.MintAuthority) != 0 && !m.MintAuthority.Equals(noAuthority)
}

// Pack writes the mint into dst, which must be exactly MintLen long.
func (m *Mint) Pack(dst []byte) error {
	if len(dst) != MintLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(dst))
	}
	dst[0] = boolByte(m.IsInitialized)
	dst[1] = m.Decimals
	binary.LittleEndian.PutUint64(dst[2:], m.Supply)
	auth := m.MintAuthority
	if len(auth) == 0 {
		auth = noAuthority
	}
	copy(dst[10:], auth)
	return nil
}

// UnpackMintUnchecked decodes a mint without requiring it to be
// initialized.
func UnpackMintUnchecked(src []byte) (*Mint, error) {
	if len(src) != MintLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(src))
	}
	initialized, err := byteBool(src[0])
	if err != nil {
		return nil, err
	}
	return &Mint{
		IsInitialized: initialized,
		Decimals:      src[1],
		Supply:        binary.LittleEndian.Uint64(src[2:]),
		MintAuthority: append(ledger.Address(nil), src[10:]...),
	}, nil
}

// UnpackMint decodes an initialized mint.
func UnpackMint(src []byte) (*Mint, error) {
	m, err := UnpackMintUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "mint")
	}
	return m, nil
}

// AccountState is the state of a token account.
type AccountState uint8

const (
	StateUninitialized AccountState = 0
	StateInitialized   AccountState = 1
)

// Account holds an amount of tokens of a single mint.
//
// Serialized as
//   [mint:32][owner:32][amount:8 LE][state:1]
type Account struct {
	Mint   ledger.Address
	Owner  ledger.Address
	Amount uint64
	State  AccountState
}

// IsInitialized returns true if the account can be used.
func (a *Account) IsInitialized() bool {
	return a.State == StateInitialized
}

// Pack writes the account into dst, which must be exactly AccountLen long.
func (a *Account) Pack(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(dst))
	}
	copy(dst, padAddress(a.Mint))
	copy(dst[32:], padAddress(a.Owner))
	binary.LittleEndian.PutUint64(dst[64:], a.Amount)
	dst[72] = byte(a.State)
	return nil
}

// UnpackAccountUnchecked decodes a token account without requiring it to be
// initialized.
func UnpackAccountUnchecked(src []byte) (*Account, error) {
	if len(src) != AccountLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(src))
	}
	state := AccountState(src[72])
	if state > StateInitialized {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "state %d", state)
	}
	return &Account{
		Mint:   append(ledger.Address(nil), src[:32]...),
		Owner:  append(ledger.Address(nil), src[32:64]...),
		Amount: binary.LittleEndian.Uint64(src[64:]),
		State:  state,
	}, nil
}

// UnpackAccount decodes an initialized token account.
func UnpackAccount(src []byte) (*Account, error) {
	a, err := UnpackAccountUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !a.IsInitialized() {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "token account")
	}
	return a, nil
}

var noAuthority = ledger.Address(make([]byte, ledger.AddressLength))

func padAddress(a ledger.Address) ledger.Address {
	if len(a) == 0 {
		return noAuthority
	}
	return a
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(errors.ErrInvalidAccountData, "bool flag %d", b)
	}
}
