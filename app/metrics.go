package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iov-one/ledger"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics counts executed transactions and instructions. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	txs          *prometheus.CounterVec
	instructions *prometheus.CounterVec
	txDuration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ledger",
				Name:      "tx_total",
				Help:      "Number of executed transactions by result.",
			},
			[]string{"result"},
		),
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ledger",
				Name:      "instruction_total",
				Help:      "Number of top level instructions by program and result.",
			},
			[]string{"program", "result"},
		),
		txDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ledger",
				Name:      "tx_duration_seconds",
				Help:      "Time spent executing a transaction.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}
	for _, c := range []prometheus.Collector{m.txs, m.instructions, m.txDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeTx(err error, seconds float64) {
	if m == nil {
		return
	}
	m.txs.WithLabelValues(result(err)).Inc()
	m.txDuration.Observe(seconds)
}

func (m *Metrics) observeInstruction(program ledger.Address, err error) {
	if m == nil {
		return
	}
	m.instructions.WithLabelValues(program.String(), result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
