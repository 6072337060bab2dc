package crypto

import (
	"github.com/iov-one/ledger"
)

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message, sig []byte) bool
	// Address returns the ledger address controlled by this key.
	Address() ledger.Address
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PubKey
}
