package app

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store/iavl"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	assert.Nil(t, err)

	// Collectors cannot be registered twice.
	_, err = NewMetrics(reg)
	if err == nil {
		t.Fatal("duplicated registration must fail")
	}

	router := NewRouter()
	router.Register(programA, &ledgertest.Program{Fn: move(1)})
	router.Register(programB, &ledgertest.Program{Err: errors.ErrInvalidInstructionData})
	c := newTestChain(t, iavl.MockCommitStore(), router)
	c.WithMetrics(m)

	assert.Nil(t, c.exec(t, call(programA, writable(vault), writable(wallet))))
	assert.Nil(t, c.exec(t, call(programA, writable(vault), writable(wallet))))
	assert.IsErr(t, errors.ErrInvalidInstructionData, c.exec(t,
		call(programA, writable(vault), writable(wallet)),
		call(programB),
	))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.txs.WithLabelValues(resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues(resultFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.instructions.WithLabelValues(programA.String(), resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.instructions.WithLabelValues(programB.String(), resultFailure)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.observeTx(nil, 1)
	m.observeInstruction(ledger.SystemProgramID, errors.ErrInput)
}
