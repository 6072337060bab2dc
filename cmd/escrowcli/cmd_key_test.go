package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestKeygen(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	path := filepath.Join(dir, "test.key")

	addr := keygen(t, path)

	out := run(t, cmdKeyaddr, nil, "-key", path)
	assert.Equal(t, addr.String(), strings.TrimSpace(string(out)))

	out = run(t, cmdKeyaddr, nil, "-key", path, "-bech32", "esc")
	want, err := addr.Bech32("esc")
	assert.Nil(t, err)
	assert.Equal(t, want, strings.TrimSpace(string(out)))

	key, err := loadKey(path)
	assert.Nil(t, err)
	assert.Equal(t, addr, key.Address())

	// Existing key must never be overwritten.
	var output bytes.Buffer
	if err := cmdKeygen(nil, &output, []string{"-key", path}); err == nil {
		t.Fatal("existing key file overwritten")
	}
	again, err := loadKey(path)
	assert.Nil(t, err)
	assert.Equal(t, key, again)
}

func TestLoadKeyFailure(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	cases := map[string]string{
		"no path":      "",
		"missing file": filepath.Join(dir, "missing.key"),
	}
	for testName, path := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := loadKey(path); err == nil {
				t.Fatal("want error")
			}
		})
	}
}
