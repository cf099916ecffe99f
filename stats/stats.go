// Package stats is a small counters object the sampler and verifier
// update as they run, logged through logrus and exposed as
// prometheus metrics for a caller who wants to scrape them instead of
// just reading the final log line.
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Sampler tracks the epoch loop's running counters: epochs, flips,
// forced (unsat) positions, samples, and oracle calls.
type Sampler struct {
	start time.Time

	Epochs       int64
	Flips        int64
	Unsat        int64
	Samples      int64
	OracleCalls  int64
	SolverTime   time.Duration

	epochsGauge prometheus.Gauge
	flipsGauge  prometheus.Gauge
	unsatGauge  prometheus.Gauge
	samplesCtr  prometheus.Counter
	callsCtr    prometheus.Counter
}

// NewSampler registers the sampler's metrics on reg. reg may be nil,
// in which case the prometheus side is skipped and only the counters
// and log output are maintained.
func NewSampler(reg prometheus.Registerer) *Sampler {
	s := &Sampler{start: time.Now()}
	if reg == nil {
		return s
	}
	s.epochsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quicksampler_epochs", Help: "epochs completed by the sampler core",
	})
	s.flipsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quicksampler_flips", Help: "accepted single-bit mutations",
	})
	s.unsatGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quicksampler_unsat_positions", Help: "forced (unsat) IND positions found so far, summed over all epochs",
	})
	s.samplesCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quicksampler_samples_total", Help: "sample records written",
	})
	s.callsCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quicksampler_oracle_calls_total", Help: "MaxSAT oracle check() calls",
	})
	reg.MustRegister(s.epochsGauge, s.flipsGauge, s.unsatGauge, s.samplesCtr, s.callsCtr)
	return s
}

func (s *Sampler) Epoch() {
	s.Epochs++
	if s.epochsGauge != nil {
		s.epochsGauge.Set(float64(s.Epochs))
	}
}

func (s *Sampler) Flip() {
	s.Flips++
	if s.flipsGauge != nil {
		s.flipsGauge.Set(float64(s.Flips))
	}
}

func (s *Sampler) ForcedPosition() {
	s.Unsat++
	if s.unsatGauge != nil {
		s.unsatGauge.Set(float64(s.Unsat))
	}
}

func (s *Sampler) Sample() {
	s.Samples++
	if s.samplesCtr != nil {
		s.samplesCtr.Inc()
	}
}

func (s *Sampler) OracleCall(d time.Duration) {
	s.OracleCalls++
	s.SolverTime += d
	if s.callsCtr != nil {
		s.callsCtr.Inc()
	}
}

// Elapsed returns the wall-clock time since the sampler started.
func (s *Sampler) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Log emits a single structured line summarising the run so far.
func (s *Sampler) Log(log *logrus.Entry) {
	log.WithFields(logrus.Fields{
		"epochs":       s.Epochs,
		"flips":        s.Flips,
		"unsat":        s.Unsat,
		"samples":      s.Samples,
		"oracle_calls": s.OracleCalls,
		"solver_time":  s.SolverTime,
		"elapsed":      s.Elapsed(),
	}).Info("sampler stats")
}

// Verifier tracks the verifier's own counters: samples processed,
// verified (as opposed to skipped by subsampling), and their verdicts.
type Verifier struct {
	start time.Time

	Processed int64
	Verified  int64
	Valid     int64
	Invalid   int64
	Unknown   int64

	verifiedCtr prometheus.Counter
	validCtr    prometheus.Counter
	invalidCtr  prometheus.Counter
}

// NewVerifier registers the verifier's metrics on reg, which may be
// nil to skip prometheus entirely.
func NewVerifier(reg prometheus.Registerer) *Verifier {
	v := &Verifier{start: time.Now()}
	if reg == nil {
		return v
	}
	v.verifiedCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quickcheck_verified_total", Help: "samples actually re-checked by the SAT oracle",
	})
	v.validCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quickcheck_valid_total", Help: "samples confirmed satisfiable",
	})
	v.invalidCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quickcheck_invalid_total", Help: "samples confirmed unsatisfiable",
	})
	reg.MustRegister(v.verifiedCtr, v.validCtr, v.invalidCtr)
	return v
}

func (v *Verifier) Process() { v.Processed++ }

func (v *Verifier) Verify(valid bool, unknown bool) {
	v.Verified++
	if v.verifiedCtr != nil {
		v.verifiedCtr.Inc()
	}
	switch {
	case unknown:
		v.Unknown++
	case valid:
		v.Valid++
		if v.validCtr != nil {
			v.validCtr.Inc()
		}
	default:
		v.Invalid++
		if v.invalidCtr != nil {
			v.invalidCtr.Inc()
		}
	}
}

func (v *Verifier) Elapsed() time.Duration {
	return time.Since(v.start)
}

func (v *Verifier) Log(log *logrus.Entry) {
	log.WithFields(logrus.Fields{
		"processed": v.Processed,
		"verified":  v.Verified,
		"valid":     v.Valid,
		"invalid":   v.Invalid,
		"unknown":   v.Unknown,
		"elapsed":   v.Elapsed(),
	}).Info("verifier stats")
}
