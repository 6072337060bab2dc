package crypto

import (
	"encoding/json"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKeyEd25519 is an ed25519 public key. The ledger address of a key is
// the key itself.
type PublicKeyEd25519 []byte

var _ PubKey = PublicKeyEd25519(nil)

// PublicKeyFromAddress returns the public key behind given address. It fails
// for addresses that are not valid curve points, such as derived addresses.
func PublicKeyFromAddress(addr ledger.Address) (PublicKeyEd25519, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if !ledger.IsOnCurve(addr) {
		return nil, errors.Wrapf(errors.ErrInput, "%s is not a public key", addr)
	}
	return PublicKeyEd25519(addr), nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKeyEd25519) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Address returns the key as a ledger address. Nil is returned for an
// invalid key.
func (p PublicKeyEd25519) Address() ledger.Address {
	if len(p) != ed25519.PublicKeySize {
		return nil
	}
	return ledger.Address(p)
}

// PrivateKeyEd25519 is an ed25519 private key.
type PrivateKeyEd25519 []byte

var _ Signer = PrivateKeyEd25519(nil)

// Sign returns a matching signature for this private key
func (p PrivateKeyEd25519) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKeyEd25519) PublicKey() PubKey {
	if len(p) != ed25519.PrivateKeySize {
		return PublicKeyEd25519(nil)
	}
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKeyEd25519(pub)
}

// Address is a shortcut for PublicKey().Address().
func (p PrivateKeyEd25519) Address() ledger.Address {
	return p.PublicKey().Address()
}

// Seed returns the 32 bytes seed this key was derived from.
func (p PrivateKeyEd25519) Seed() []byte {
	return ed25519.PrivateKey(p).Seed()
}

type keyFile struct {
	Seed    []byte         `json:"seed"`
	Address ledger.Address `json:"address"`
}

// MarshalJSON stores the seed together with the address to make key files
// human inspectable.
func (p PrivateKeyEd25519) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyFile{Seed: p.Seed(), Address: p.Address()})
}

// UnmarshalJSON restores a key stored with MarshalJSON. The address is
// verified against the one derived from the seed.
func (p *PrivateKeyEd25519) UnmarshalJSON(raw []byte) error {
	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(kf.Seed) != ed25519.SeedSize {
		return errors.Wrap(errors.ErrInput, "seed size")
	}
	key := PrivKeyEd25519FromSeed(kf.Seed)
	if len(kf.Address) != 0 && !key.Address().Equals(kf.Address) {
		return errors.Wrap(errors.ErrInput, "address does not match the seed")
	}
	*p = key
	return nil
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKeyEd25519 {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKeyEd25519(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKeyEd25519 {
	return PrivateKeyEd25519(ed25519.NewKeyFromSeed(seed))
}
