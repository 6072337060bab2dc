package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/ledger/errors"
)

// setupHome creates a home directory holding a genesis file as created by
// tendermint init.
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "ledger-init")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	genesis := `{"genesis_time": "2019-03-01T10:00:00Z", "chain_id": "test-chain-a1b2c3", "validators": []}`
	require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(genesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func readAppState(t *testing.T, home string) string {
	t.Helper()
	raw, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, `"test-chain-a1b2c3"`, string(doc["chain_id"]))
	return string(doc[AppStateKey])
}

func TestInitCmd(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	var gotArgs []string
	gen := func(args []string) (json.RawMessage, error) {
		gotArgs = args
		return json.RawMessage(`{"rent":{}}`), nil
	}

	require.NoError(t, InitCmd(gen, log.NewNopLogger(), home, []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, gotArgs)
	assert.JSONEq(t, `{"rent":{}}`, readAppState(t, home))

	err := InitCmd(gen, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)

	gen = func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"accounts":[]}`), nil
	}
	require.NoError(t, InitCmd(gen, log.NewNopLogger(), home, []string{"-f"}))
	assert.JSONEq(t, `{"accounts":[]}`, readAppState(t, home))
}

func TestInitCmdWithoutGenesis(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()
	require.NoError(t, os.Remove(GenesisPath(home)))

	gen := func(args []string) (json.RawMessage, error) { return json.RawMessage(`{}`), nil }
	err := InitCmd(gen, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

func TestParseStartFlags(t *testing.T) {
	got, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, startArgs{bind: "tcp://localhost:46658"}, got)

	got, err = parseFlags([]string{"-bind", "tcp://0.0.0.0:1234", "-debug", "-metrics", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, startArgs{bind: "tcp://0.0.0.0:1234", metrics: ":9100", debug: true}, got)

	_, err = parseFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}
