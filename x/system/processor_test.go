package system

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func run(accounts []*ledger.AccountInfo, ix ledger.Instruction) error {
	env := ledger.Env{ProgramID: ledger.SystemProgramID, Invoker: &ledgertest.Invoker{}}
	return Program{}.Process(context.Background(), env, accounts, ix.Data)
}

func systemAccount(key ledger.Address, lamports uint64, signer bool) *ledger.AccountInfo {
	return ledgertest.Info(key, ledger.NewAccount(lamports, 0, ledger.SystemProgramID), signer, true)
}

func TestCreateAccount(t *testing.T) {
	funderKey, newKey := ledgertest.SequenceAddress(1), ledgertest.SequenceAddress(2)
	owner := ledgertest.SequenceAddress(3)

	cases := map[string]struct {
		funder  *ledger.AccountInfo
		created *ledger.AccountInfo
		wantErr *errors.Error
	}{
		"success": {
			funder:  systemAccount(funderKey, 1000, true),
			created: systemAccount(newKey, 0, true),
		},
		"funder did not sign": {
			funder:  systemAccount(funderKey, 1000, false),
			created: systemAccount(newKey, 0, true),
			wantErr: errors.ErrMissingRequiredSignature,
		},
		"new account did not sign": {
			funder:  systemAccount(funderKey, 1000, true),
			created: systemAccount(newKey, 0, false),
			wantErr: errors.ErrMissingRequiredSignature,
		},
		"account exists": {
			funder:  systemAccount(funderKey, 1000, true),
			created: systemAccount(newKey, 1, true),
			wantErr: errors.ErrAccountAlreadyInUse,
		},
		"insufficient funds": {
			funder:  systemAccount(funderKey, 99, true),
			created: systemAccount(newKey, 0, true),
			wantErr: errors.ErrInsufficientFunds,
		},
		"funder is not a system account": {
			funder:  ledgertest.Info(funderKey, ledger.NewAccount(1000, 0, owner), true, true),
			created: systemAccount(newKey, 0, true),
			wantErr: errors.ErrIncorrectProgramID,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ix := NewCreateAccountInstruction(funderKey, newKey, 100, 105, owner)
			err := run([]*ledger.AccountInfo{tc.funder, tc.created}, ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, uint64(900), tc.funder.Lamports)
			assert.Equal(t, uint64(100), tc.created.Lamports)
			assert.Equal(t, 105, tc.created.DataLen())
			assert.Equal(t, owner, tc.created.Owner)
		})
	}
}

func TestTransfer(t *testing.T) {
	from := systemAccount(ledgertest.SequenceAddress(1), 50, true)
	to := systemAccount(ledgertest.SequenceAddress(2), 0, false)

	assert.Nil(t, run([]*ledger.AccountInfo{from, to}, NewTransferInstruction(from.Key, to.Key, 20)))
	assert.Equal(t, uint64(30), from.Lamports)
	assert.Equal(t, uint64(20), to.Lamports)

	err := run([]*ledger.AccountInfo{from, to}, NewTransferInstruction(from.Key, to.Key, 31))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)

	to.Lamports = ^uint64(0)
	err = run([]*ledger.AccountInfo{from, to}, NewTransferInstruction(from.Key, to.Key, 1))
	assert.IsErr(t, errors.ErrOverflow, err)

	err = run([]*ledger.AccountInfo{from}, NewTransferInstruction(from.Key, to.Key, 1))
	assert.IsErr(t, errors.ErrNotEnoughAccountKeys, err)
}

func TestInstructionEncoding(t *testing.T) {
	ix := Instruction{Type: CreateAccount, Lamports: 5, Space: 105, Owner: ledgertest.SequenceAddress(1)}
	raw, err := ix.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, 52, len(raw))
	got, err := UnmarshalInstruction(raw)
	assert.Nil(t, err)
	assert.Equal(t, ix, got)

	raw, err = Instruction{Type: Transfer, Lamports: 7}.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 7, 0, 0, 0, 0, 0, 0, 0}, raw)

	for name, bad := range map[string][]byte{
		"empty":        nil,
		"unknown":      {1, 0, 0, 0},
		"short":        {2, 0, 0, 0, 7},
		"trailing":     append(raw, 0),
		"create short": {0, 0, 0, 0, 1},
	} {
		if _, err := UnmarshalInstruction(bad); !errors.ErrInvalidInstructionData.Is(err) {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
	}
}
