package apiserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// proverTimeSecs observes the full /v0/prove handler latency.
var proverTimeSecs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "prover_time_secs",
	Help: "Prover time in seconds",
})

// groth16TimeSecs observes each Lane.Prove call: witness construction plus
// the Groth16 prover.
var groth16TimeSecs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "prover_groth16_time_secs",
	Help:    "Time to run Groth16 in seconds",
	Buckets: []float64{1.0, 2.0, 3.0, 4.0, 5.0, 10.0, 20.0},
})

// witnessGenerationTimeSecs is registered for the WITNESS_GEN stage but is
// never observed: witness construction runs inside Lane.Prove and is
// counted in groth16TimeSecs.
var witnessGenerationTimeSecs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "prover_witness_generation_time_secs",
	Help:    "Witness generation time in seconds",
	Buckets: []float64{0.25, 0.5, 0.75, 1.0, 2.0},
})

// requestQueueTimeSecs observes the gap between ACCEPTED and the point the
// orchestrator starts doing real work.
var requestQueueTimeSecs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "prover_request_queue_time_secs",
	Help: "Time in seconds between the point when a request is received and the point when the prover starts processing the request",
	Buckets: []float64{
		0.5, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0, 10.0,
		20.0, 30.0, 40.0, 50.0, 60.0,
	},
})

// jwkDroppedWrongExponentTotal counts JWK entries discarded at fetch time
// for carrying an exponent other than AQAB — a supplemented counter the
// original service has no equivalent metric for.
var jwkDroppedWrongExponentTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jwk_dropped_wrong_exponent_total",
	Help: "Number of JWK entries discarded at fetch time for an unsupported RSA exponent",
})

// droppedCounterAdapter satisfies jwkcache.DroppedCounter against the
// Prometheus counter above.
type droppedCounterAdapter struct{}

func (droppedCounterAdapter) Inc() { jwkDroppedWrongExponentTotal.Inc() }

// JwkDroppedCounter is the Prometheus-backed jwkcache.DroppedCounter, for
// callers building a Cache outside this package.
var JwkDroppedCounter droppedCounterAdapter
