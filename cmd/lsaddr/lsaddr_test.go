package main

import (
	"bytes"
	"strings"
	"testing"

	escrowd "github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/x/escrow"
)

func TestPrintAddresses(t *testing.T) {
	mintA, err := escrowd.MintAddress("A")
	assert.Nil(t, err)
	authority, _, err := escrow.NewSeedAuthority(escrow.DefaultSeed).Derive(escrow.ProgramID)
	assert.Nil(t, err)

	cases := map[string]struct {
		kind     string
		seeds    []string
		header   bool
		wantAddr []string
	}{
		"dev mint": {
			kind:     "mint",
			seeds:    []string{"A"},
			wantAddr: []string{mintA.String()},
		},
		"default authority with header": {
			kind:     "authority",
			seeds:    []string{escrow.DefaultSeed},
			header:   true,
			wantAddr: []string{"address", authority.String()},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			assert.Nil(t, printAddresses(&out, derivers[tc.kind], tc.header, tc.seeds))
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Equal(t, len(tc.wantAddr), len(lines))
			for i, l := range lines {
				assert.Equal(t, tc.wantAddr[i], strings.Fields(l)[1])
			}
		})
	}
}
