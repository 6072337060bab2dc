package escrow

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
)

func TestEscrowRecordLayout(t *testing.T) {
	record := EscrowRecord{
		IsInitialized:  true,
		Initializer:    ledgertest.SequenceAddress(1),
		Custody:        ledgertest.SequenceAddress(2),
		Receiving:      ledgertest.SequenceAddress(3),
		ExpectedAmount: 1000,
	}
	raw := make([]byte, EscrowRecordLen)
	require.NoError(t, record.Pack(raw))

	assert.Equal(t, 105, EscrowRecordLen)
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, []byte(record.Initializer), raw[1:33])
	assert.Equal(t, []byte(record.Custody), raw[33:65])
	assert.Equal(t, []byte(record.Receiving), raw[65:97])
	assert.Equal(t, []byte{0xe8, 0x03, 0, 0, 0, 0, 0, 0}, raw[97:])

	got, err := Unpack(raw)
	require.NoError(t, err)
	assert.Equal(t, &record, got)
}

func TestUnpackEscrowRecord(t *testing.T) {
	corrupted := make([]byte, EscrowRecordLen)
	corrupted[0] = 2

	cases := map[string]struct {
		raw             []byte
		wantUncheckErr  *errors.Error
		wantErr         *errors.Error
		wantInitialized bool
	}{
		"all zero is an uninitialized record": {
			raw:     make([]byte, EscrowRecordLen),
			wantErr: errors.ErrUninitializedAccount,
		},
		"too short": {
			raw:            make([]byte, EscrowRecordLen-1),
			wantUncheckErr: errors.ErrInvalidAccountData,
			wantErr:        errors.ErrInvalidAccountData,
		},
		"too long": {
			raw:            make([]byte, EscrowRecordLen+1),
			wantUncheckErr: errors.ErrInvalidAccountData,
			wantErr:        errors.ErrInvalidAccountData,
		},
		"empty": {
			raw:            nil,
			wantUncheckErr: errors.ErrInvalidAccountData,
			wantErr:        errors.ErrInvalidAccountData,
		},
		"invalid initialized flag": {
			raw:            corrupted,
			wantUncheckErr: errors.ErrInvalidAccountData,
			wantErr:        errors.ErrInvalidAccountData,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r, err := UnpackUnchecked(tc.raw)
			if !tc.wantUncheckErr.Is(err) {
				t.Fatalf("unexpected unchecked error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantInitialized, r.IsInitialized)
			}
			if _, err := Unpack(tc.raw); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestPackEscrowRecord(t *testing.T) {
	valid := EscrowRecord{
		IsInitialized: true,
		Initializer:   ledgertest.SequenceAddress(1),
		Custody:       ledgertest.SequenceAddress(2),
		Receiving:     ledgertest.SequenceAddress(3),
	}

	err := valid.Pack(make([]byte, EscrowRecordLen-1))
	assert.True(t, errors.ErrInvalidAccountData.Is(err))

	invalid := valid
	invalid.Receiving = ledger.Address("short")
	err = invalid.Pack(make([]byte, EscrowRecordLen))
	assert.True(t, errors.ErrInvalidAccountData.Is(err))

	// Packing overwrites a previous record entirely.
	raw := bytes.Repeat([]byte{0xff}, EscrowRecordLen)
	uninitialized := valid
	uninitialized.IsInitialized = false
	require.NoError(t, uninitialized.Pack(raw))
	got, err := UnpackUnchecked(raw)
	require.NoError(t, err)
	assert.Equal(t, &uninitialized, got)
}
