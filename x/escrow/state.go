package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// EscrowRecordLen is the size of a serialized escrow record. Callers
// creating the record account must allocate exactly that much space.
const EscrowRecordLen = 1 + 3*ledger.AddressLength + 8

// EscrowRecord is the state of a single trade.
//
// Serialized as
//   [initialized:1][initializer:32][custody:32][receiving:32][expected_amount:8 LE]
type EscrowRecord struct {
	IsInitialized bool
	// Initializer started the trade and receives the lamports of the
	// custody account and of the record once the trade is settled.
	Initializer ledger.Address
	// Custody is the token account holding the traded tokens.
	Custody ledger.Address
	// Receiving is the initializer token account the payment goes to.
	Receiving ledger.Address
	// ExpectedAmount is the payment the initializer wants.
	ExpectedAmount uint64
}

// Validate returns an error if the record cannot be serialized.
func (r *EscrowRecord) Validate() error {
	if err := r.Initializer.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer")
	}
	if err := r.Custody.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody")
	}
	if err := r.Receiving.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, "receiving")
	}
	return nil
}

// Pack writes the record into dst, which must be exactly EscrowRecordLen
// long.
func (r *EscrowRecord) Pack(dst []byte) error {
	if len(dst) != EscrowRecordLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(dst))
	}
	if err := r.Validate(); err != nil {
		return err
	}
	dst[0] = 0
	if r.IsInitialized {
		dst[0] = 1
	}
	off := 1
	for _, a := range []ledger.Address{r.Initializer, r.Custody, r.Receiving} {
		copy(dst[off:], a)
		off += ledger.AddressLength
	}
	binary.LittleEndian.PutUint64(dst[off:], r.ExpectedAmount)
	return nil
}

// UnpackUnchecked decodes a record without requiring it to be initialized.
// An all zero buffer decodes into an uninitialized record.
func UnpackUnchecked(src []byte) (*EscrowRecord, error) {
	if len(src) != EscrowRecordLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(src))
	}
	var r EscrowRecord
	switch src[0] {
	case 0:
	case 1:
		r.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", src[0])
	}
	addr := func(n int) ledger.Address {
		start := 1 + n*ledger.AddressLength
		return append(ledger.Address(nil), src[start:start+ledger.AddressLength]...)
	}
	r.Initializer = addr(0)
	r.Custody = addr(1)
	r.Receiving = addr(2)
	r.ExpectedAmount = binary.LittleEndian.Uint64(src[1+3*ledger.AddressLength:])
	return &r, nil
}

// Unpack decodes an initialized record.
func Unpack(src []byte) (*EscrowRecord, error) {
	r, err := UnpackUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !r.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "escrow record")
	}
	return r, nil
}
