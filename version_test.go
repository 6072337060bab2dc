package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/ledger"
)

func TestVersion(t *testing.T) {
	defer func(commit string) { ledger.GitCommit = commit }(ledger.GitCommit)

	ledger.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", ledger.Version())

	ledger.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", ledger.Version())
}
