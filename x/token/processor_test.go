package token

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

var env = ledger.Env{ProgramID: ProgramID, Invoker: &ledgertest.Invoker{}}

func mintInfo(t testing.TB, key, authority ledger.Address, supply uint64) *ledger.AccountInfo {
	t.Helper()
	acct := ledgertest.RentExemptAccount(MintLen, ProgramID)
	m := Mint{IsInitialized: true, Decimals: 2, Supply: supply, MintAuthority: authority}
	assert.Nil(t, m.Pack(acct.Data))
	return ledgertest.Info(key, acct, false, true)
}

func tokenInfo(t testing.TB, key, mint, owner ledger.Address, amount uint64) *ledger.AccountInfo {
	t.Helper()
	acct := ledgertest.RentExemptAccount(AccountLen, ProgramID)
	a := Account{Mint: mint, Owner: owner, Amount: amount, State: StateInitialized}
	assert.Nil(t, a.Pack(acct.Data))
	return ledgertest.Info(key, acct, false, true)
}

func signer(key ledger.Address) *ledger.AccountInfo {
	return ledgertest.Info(key, ledger.NewAccount(1, 0, ledger.SystemProgramID), true, false)
}

func amountOf(t testing.TB, info *ledger.AccountInfo) uint64 {
	t.Helper()
	a, err := UnpackAccount(info.Data)
	assert.Nil(t, err)
	return a.Amount
}

func process(accounts []*ledger.AccountInfo, ix ledger.Instruction) error {
	return NewProgram().Process(context.Background(), env, accounts, ix.Data)
}

func TestTransfer(t *testing.T) {
	var (
		mint     = ledgertest.SequenceAddress(1)
		other    = ledgertest.SequenceAddress(2)
		alice    = ledgertest.SequenceAddress(3)
		bob      = ledgertest.SequenceAddress(4)
		aliceAcc = ledgertest.SequenceAddress(5)
		bobAcc   = ledgertest.SequenceAddress(6)
	)

	cases := map[string]struct {
		src, dst  *ledger.AccountInfo
		authority *ledger.AccountInfo
		amount    uint64
		wantErr   *errors.Error
		wantSrc   uint64
		wantDst   uint64
	}{
		"success": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 100),
			dst:       tokenInfo(t, bobAcc, mint, bob, 5),
			authority: signer(alice),
			amount:    60,
			wantSrc:   40,
			wantDst:   65,
		},
		"whole balance": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 100),
			dst:       tokenInfo(t, bobAcc, mint, bob, 0),
			authority: signer(alice),
			amount:    100,
			wantSrc:   0,
			wantDst:   100,
		},
		"insufficient funds": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 10),
			dst:       tokenInfo(t, bobAcc, mint, bob, 0),
			authority: signer(alice),
			amount:    11,
			wantErr:   errors.ErrInsufficientFunds,
		},
		"mint mismatch": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 10),
			dst:       tokenInfo(t, bobAcc, other, bob, 0),
			authority: signer(alice),
			amount:    1,
			wantErr:   ErrMintMismatch,
		},
		"not the owner": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 10),
			dst:       tokenInfo(t, bobAcc, mint, bob, 0),
			authority: signer(bob),
			amount:    1,
			wantErr:   ErrOwnerMismatch,
		},
		"owner did not sign": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 10),
			dst:       tokenInfo(t, bobAcc, mint, bob, 0),
			authority: ledgertest.Info(alice, ledger.NewAccount(1, 0, ledger.SystemProgramID), false, false),
			amount:    1,
			wantErr:   errors.ErrMissingRequiredSignature,
		},
		"destination overflow": {
			src:       tokenInfo(t, aliceAcc, mint, alice, 10),
			dst:       tokenInfo(t, bobAcc, mint, bob, ^uint64(0)),
			authority: signer(alice),
			amount:    1,
			wantErr:   errors.ErrOverflow,
		},
		"destination not owned by the token program": {
			src: tokenInfo(t, aliceAcc, mint, alice, 10),
			dst: ledgertest.Info(bobAcc,
				ledgertest.RentExemptAccount(AccountLen, ledger.SystemProgramID), false, true),
			authority: signer(alice),
			amount:    1,
			wantErr:   errors.ErrIncorrectProgramID,
		},
		"uninitialized destination": {
			src: tokenInfo(t, aliceAcc, mint, alice, 10),
			dst: ledgertest.Info(bobAcc,
				ledgertest.RentExemptAccount(AccountLen, ProgramID), false, true),
			authority: signer(alice),
			amount:    1,
			wantErr:   errors.ErrUninitializedAccount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ix := NewTransferInstruction(ProgramID, tc.src.Key, tc.dst.Key, tc.authority.Key, tc.amount)
			err := process([]*ledger.AccountInfo{tc.src, tc.dst, tc.authority}, ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantSrc, amountOf(t, tc.src))
			assert.Equal(t, tc.wantDst, amountOf(t, tc.dst))
		})
	}
}

func TestTransferToSelf(t *testing.T) {
	mint, alice, acc := ledgertest.SequenceAddress(1), ledgertest.SequenceAddress(2), ledgertest.SequenceAddress(3)
	info := tokenInfo(t, acc, mint, alice, 10)
	ix := NewTransferInstruction(ProgramID, acc, acc, alice, 7)
	assert.Nil(t, process([]*ledger.AccountInfo{info, info, signer(alice)}, ix))
	assert.Equal(t, uint64(10), amountOf(t, info))
}

func TestInitializeMintAndAccount(t *testing.T) {
	var (
		mintKey  = ledgertest.SequenceAddress(1)
		acctKey  = ledgertest.SequenceAddress(2)
		owner    = ledgertest.SequenceAddress(3)
		rentInfo = ledgertest.RentInfo(ledger.DefaultRent())
	)

	mint := ledgertest.Info(mintKey, ledgertest.RentExemptAccount(MintLen, ProgramID), false, true)
	ix := NewInitializeMintInstruction(ProgramID, mintKey, owner, 6)
	assert.Nil(t, process([]*ledger.AccountInfo{mint, rentInfo}, ix))
	m, err := UnpackMint(mint.Data)
	assert.Nil(t, err)
	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, owner, m.MintAuthority)

	// Second initialization is not allowed.
	err = process([]*ledger.AccountInfo{mint, rentInfo}, ix)
	assert.IsErr(t, errors.ErrAccountAlreadyInitialized, err)

	acct := ledgertest.Info(acctKey, ledgertest.RentExemptAccount(AccountLen, ProgramID), false, true)
	ownerInfo := ledgertest.Info(owner, ledger.NewAccount(1, 0, ledger.SystemProgramID), false, false)
	ix = NewInitializeAccountInstruction(ProgramID, acctKey, mintKey, owner)
	assert.Nil(t, process([]*ledger.AccountInfo{acct, mint, ownerInfo, rentInfo}, ix))
	a, err := UnpackAccount(acct.Data)
	assert.Nil(t, err)
	assert.Equal(t, mintKey, a.Mint)
	assert.Equal(t, owner, a.Owner)

	// Account below the rent exemption threshold.
	poor := ledgertest.Info(ledgertest.SequenceAddress(9), ledger.NewAccount(1, AccountLen, ProgramID), false, true)
	ix = NewInitializeAccountInstruction(ProgramID, poor.Key, mintKey, owner)
	err = process([]*ledger.AccountInfo{poor, mint, ownerInfo, rentInfo}, ix)
	assert.IsErr(t, ErrNotRentExempt, err)

	// Not enough accounts.
	err = process([]*ledger.AccountInfo{acct, mint}, ix)
	assert.IsErr(t, errors.ErrNotEnoughAccountKeys, err)
}

func TestMintTo(t *testing.T) {
	mintKey, authority, owner, acctKey := ledgertest.SequenceAddress(1), ledgertest.SequenceAddress(2), ledgertest.SequenceAddress(3), ledgertest.SequenceAddress(4)
	mint := mintInfo(t, mintKey, authority, 10)
	acct := tokenInfo(t, acctKey, mintKey, owner, 0)

	ix := NewMintToInstruction(ProgramID, mintKey, acctKey, authority, 500)
	assert.Nil(t, process([]*ledger.AccountInfo{mint, acct, signer(authority)}, ix))
	assert.Equal(t, uint64(500), amountOf(t, acct))
	m, err := UnpackMint(mint.Data)
	assert.Nil(t, err)
	assert.Equal(t, uint64(510), m.Supply)

	err = process([]*ledger.AccountInfo{mint, acct, signer(owner)}, NewMintToInstruction(ProgramID, mintKey, acctKey, owner, 1))
	assert.IsErr(t, ErrOwnerMismatch, err)

	// Remove the mint authority.
	ix = NewSetAuthorityInstruction(ProgramID, mintKey, authority, MintTokens, nil)
	assert.Nil(t, process([]*ledger.AccountInfo{mint, signer(authority)}, ix))
	err = process([]*ledger.AccountInfo{mint, acct, signer(authority)}, NewMintToInstruction(ProgramID, mintKey, acctKey, authority, 1))
	assert.IsErr(t, ErrFixedSupply, err)
}

func TestSetAuthority(t *testing.T) {
	mint, alice, derived, acc := ledgertest.SequenceAddress(1), ledgertest.SequenceAddress(2), ledgertest.SequenceAddress(3), ledgertest.SequenceAddress(4)

	cases := map[string]struct {
		kind      AuthorityType
		newAuth   ledger.Address
		authority *ledger.AccountInfo
		wantErr   *errors.Error
	}{
		"change owner": {
			kind:      AccountOwner,
			newAuth:   derived,
			authority: signer(alice),
		},
		"wrong authority type": {
			kind:      MintTokens,
			newAuth:   derived,
			authority: signer(alice),
			wantErr:   errors.ErrInvalidArgument,
		},
		"owner cannot be removed": {
			kind:      AccountOwner,
			authority: signer(alice),
			wantErr:   errors.ErrInvalidArgument,
		},
		"not the owner": {
			kind:      AccountOwner,
			newAuth:   derived,
			authority: signer(derived),
			wantErr:   ErrOwnerMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			info := tokenInfo(t, acc, mint, alice, 10)
			ix := NewSetAuthorityInstruction(ProgramID, acc, tc.authority.Key, tc.kind, tc.newAuth)
			err := process([]*ledger.AccountInfo{info, tc.authority}, ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				a, err := UnpackAccount(info.Data)
				assert.Nil(t, err)
				assert.Equal(t, tc.newAuth, a.Owner)
			}
		})
	}
}

func TestCloseAccount(t *testing.T) {
	mint, alice, acc, dest := ledgertest.SequenceAddress(1), ledgertest.SequenceAddress(2), ledgertest.SequenceAddress(3), ledgertest.SequenceAddress(4)

	full := tokenInfo(t, acc, mint, alice, 1)
	destInfo := ledgertest.Info(dest, ledger.NewAccount(5, 0, ledger.SystemProgramID), false, true)
	err := process([]*ledger.AccountInfo{full, destInfo, signer(alice)}, NewCloseAccountInstruction(ProgramID, acc, dest, alice))
	assert.IsErr(t, ErrNonNativeHasBalance, err)

	empty := tokenInfo(t, acc, mint, alice, 0)
	lamports := empty.Lamports
	err = process([]*ledger.AccountInfo{empty, empty, signer(alice)}, NewCloseAccountInstruction(ProgramID, acc, acc, alice))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)

	assert.Nil(t, process([]*ledger.AccountInfo{empty, destInfo, signer(alice)}, NewCloseAccountInstruction(ProgramID, acc, dest, alice)))
	assert.Equal(t, uint64(0), empty.Lamports)
	assert.Equal(t, 0, empty.DataLen())
	assert.Equal(t, 5+lamports, destInfo.Lamports)
}

func TestUnknownInstruction(t *testing.T) {
	err := NewProgram().Process(context.Background(), env, nil, []byte{2})
	assert.IsErr(t, errors.ErrInvalidInstructionData, err)
	err = NewProgram().Process(context.Background(), env, nil, nil)
	assert.IsErr(t, errors.ErrInvalidInstructionData, err)
}
