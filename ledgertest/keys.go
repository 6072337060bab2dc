package ledgertest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

// NewKey returns a random ed25519 private key.
func NewKey() crypto.PrivateKeyEd25519 {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns a random address. There is no private key known for it.
func NewAddress() ledger.Address {
	b := make([]byte, ledger.AddressLength)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// SequenceAddress returns a deterministic address, unique for every n.
func SequenceAddress(n byte) ledger.Address {
	b := make([]byte, ledger.AddressLength)
	b[0] = 0xaa
	b[ledger.AddressLength-1] = n
	return b
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// ledger.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) ledger.Address {
	t.Helper()

	addr, err := ledger.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
