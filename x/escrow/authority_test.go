package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/ledger"
)

func TestSeedAuthority(t *testing.T) {
	auth := NewSeedAuthority(DefaultSeed)

	addr, bump, err := auth.Derive(ProgramID)
	require.NoError(t, err)
	assert.False(t, ledger.IsOnCurve(addr), "derived authority must not be a public key")

	again, againBump, err := auth.Derive(ProgramID)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	want, wantBump, err := ledger.FindProgramAddress([][]byte{[]byte("escrow")}, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, addr)
	assert.Equal(t, wantBump, bump)

	seeds, err := auth.SignerSeeds(ProgramID)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("escrow"), {bump}}, seeds)

	signed, err := ledger.CreateProgramAddress(seeds, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, addr, signed)

	other, _, err := NewSeedAuthority("another").Derive(ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)
}
