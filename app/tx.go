package app

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/json"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Tx is a list of instructions executed atomically, together with the
// signatures authorizing them.
type Tx struct {
	// Nonce makes otherwise identical transactions distinct. A transaction
	// can be executed only once.
	Nonce        uint64               `json:"nonce"`
	Instructions []ledger.Instruction `json:"instructions"`
	Signatures   []Signature          `json:"signatures"`
}

// Signature is an ed25519 signature of the transaction sign bytes. The
// public key is the address of the signer.
type Signature struct {
	PubKey    ledger.Address `json:"pubkey"`
	Signature []byte         `json:"signature"`
}

// Validate checks the transaction is well formed. Signatures are not
// verified.
func (tx *Tx) Validate() error {
	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instructions")
	}
	for i := range tx.Instructions {
		if err := tx.Instructions[i].Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	for i, s := range tx.Signatures {
		if err := s.PubKey.Validate(); err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
	}
	return nil
}

/*
SignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce              | message
4bytes  | uint8        | ascii string | uint64 (bigendian) | serialized instructions

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	if !ledger.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	msg, err := tx.message()
	if err != nil {
		return nil, err
	}

	output := make([]byte, 0, 4+1+len(chainID)+8+len(msg))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], tx.Nonce)
	output = append(output, nonce[:]...)
	output = append(output, msg...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// message serializes the instructions as
//   [count:2] { [program:32] [accounts:2] { [address:32] [flags:1] } [data_len:4] [data] }
// all integers are big endian. Flags bit 0 is signer, bit 1 is writable.
func (tx *Tx) message() ([]byte, error) {
	if len(tx.Instructions) > 0xffff {
		return nil, errors.Wrap(errors.ErrInput, "too many instructions")
	}
	var u16 [2]byte
	var u32 [4]byte
	binary.BigEndian.PutUint16(u16[:], uint16(len(tx.Instructions)))
	out := append([]byte{}, u16[:]...)
	for i, ix := range tx.Instructions {
		if err := ix.Validate(); err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		if len(ix.Accounts) > 0xffff {
			return nil, errors.Wrapf(errors.ErrInput, "instruction %d: too many accounts", i)
		}
		out = append(out, ix.ProgramID...)
		binary.BigEndian.PutUint16(u16[:], uint16(len(ix.Accounts)))
		out = append(out, u16[:]...)
		for _, m := range ix.Accounts {
			var flags byte
			if m.IsSigner {
				flags |= 1
			}
			if m.IsWritable {
				flags |= 2
			}
			out = append(out, m.Address...)
			out = append(out, flags)
		}
		binary.BigEndian.PutUint32(u32[:], uint32(len(ix.Data)))
		out = append(out, u32[:]...)
		out = append(out, ix.Data...)
	}
	return out, nil
}

// Sign adds a signature of given signer.
func (tx *Tx) Sign(chainID string, signer crypto.Signer) error {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	sig, err := signer.Sign(bz)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	tx.Signatures = append(tx.Signatures, Signature{
		PubKey:    signer.PublicKey().Address(),
		Signature: sig,
	})
	return nil
}

// VerifySignatures checks all signatures of the transaction and returns the
// set of signer addresses.
func (tx *Tx) VerifySignatures(chainID string) (map[string]bool, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	signers := make(map[string]bool, len(tx.Signatures))
	for i, s := range tx.Signatures {
		pub, err := crypto.PublicKeyFromAddress(s.PubKey)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidSignature, "signature %d: %s", i, err)
		}
		if !pub.Verify(bz, s.Signature) {
			return nil, errors.Wrapf(errors.ErrInvalidSignature, "signature %d by %s", i, s.PubKey)
		}
		signers[string(s.PubKey)] = true
	}
	return signers, nil
}

// Marshal serializes the transaction for the wire.
func (tx *Tx) Marshal() ([]byte, error) {
	return json.Marshal(tx)
}

// Unmarshal is the reverse of Marshal.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := json.Unmarshal(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
