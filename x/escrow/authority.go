package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Authority provides the address that controls custody accounts. No private
// key exists for it, the runtime accepts it as a signer only when the escrow
// program presents the seeds it was derived from.
type Authority interface {
	// Derive returns the authority address of given program together with
	// the bump seed that moves it off the curve.
	Derive(program ledger.Address) (ledger.Address, uint8, error)

	// SignerSeeds returns the seeds, including the bump, that must be
	// passed to ledger.Invoker.InvokeSigned to sign as the authority.
	SignerSeeds(program ledger.Address) ([][]byte, error)
}

// NewSeedAuthority returns an authority derived from a single constant seed.
func NewSeedAuthority(seed string) Authority {
	return seedAuthority{seed: []byte(seed)}
}

type seedAuthority struct {
	seed []byte
}

func (a seedAuthority) Derive(program ledger.Address) (ledger.Address, uint8, error) {
	addr, bump, err := ledger.FindProgramAddress([][]byte{a.seed}, program)
	if err != nil {
		return nil, 0, errors.Wrap(err, "escrow authority")
	}
	return addr, bump, nil
}

func (a seedAuthority) SignerSeeds(program ledger.Address) ([][]byte, error) {
	_, bump, err := a.Derive(program)
	if err != nil {
		return nil, err
	}
	return [][]byte{a.seed, {bump}}, nil
}
