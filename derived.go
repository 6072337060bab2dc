package ledger

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds used to derive an address,
	// bump included.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// derivedMarker is appended to every derivation so that a derived address
// can never collide with a hash computed for another purpose.
var derivedMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress computes the address derived from given seeds and the
// program identity. Derived addresses are never valid curve points, which
// means no private key exists for them: only the program can authorize
// operations on their behalf, by presenting the same seeds to the runtime.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrMaxSeedLengthExceeded, "%d seeds", len(seeds))
	}
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrMaxSeedLengthExceeded, "seed of %d bytes", len(s))
		}
		h.Write(s)
	}
	h.Write(program)
	h.Write(derivedMarker)
	addr := Address(h.Sum(nil))

	if IsOnCurve(addr) {
		return nil, errors.Wrap(errors.ErrInvalidSeeds, "address on curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the first bump, starting from 255 down to
// 0, that combined with given seeds produces a valid derived address. The
// result is deterministic for the same seeds and program.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case !errors.ErrInvalidSeeds.Is(err):
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidSeeds, "no viable bump")
}

// IsOnCurve returns true if given bytes decode to a point of the ed25519
// curve, which means that a private key may exist for that address.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	var enc [32]byte
	copy(enc[:], b)
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(&enc)
}
