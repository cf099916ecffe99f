// Package sampler is the epoch-driven sampling core: it turns a
// MaxSAT oracle and an independent-variable projection into a stream
// of (degree, bit-string) sample records.
package sampler

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/oracle"
	"github.com/RafaelTupynamba/quicksampler/stats"
)

// Option configures a Sampler at construction time.
type Option func(*Sampler)

// WithMaxSamples caps the number of sample records written. n <= 0
// means unlimited.
func WithMaxSamples(n int) Option {
	return func(s *Sampler) { s.maxSamples = n }
}

// WithMaxTime caps wall-clock run time. d <= 0 means unlimited.
func WithMaxTime(d time.Duration) Option {
	return func(s *Sampler) { s.maxTime = d }
}

// WithRand overrides the pseudo-random source used for coin flips.
// Tests that need determinism should supply a seeded *rand.Rand;
// production callers normally leave this to the default, which seeds
// from wall clock.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) { s.rng = rng }
}

// WithStats attaches a stats.Sampler the run updates as it goes.
func WithStats(st *stats.Sampler) Option {
	return func(s *Sampler) { s.stats = st }
}

// WithLogger attaches a logrus entry used for per-epoch diagnostics
// and the end-of-run stats line.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Sampler) { s.log = log }
}

// WithVerboseModel enables logging the full seed model (not just its
// IND projection) at debug level for every epoch.
func WithVerboseModel(v bool) Option {
	return func(s *Sampler) { s.verboseModel = v }
}

// WithContext makes Run stop cleanly (as if a budget were exceeded)
// once ctx is done, checked at the same points as the sample-count
// and wall-time budgets. This is how a caller wires Ctrl-C / SIGTERM
// into a clean stop-and-flush instead of losing the epoch's progress.
func WithContext(ctx context.Context) Option {
	return func(s *Sampler) { s.ctx = ctx }
}

// Sampler runs the epoch loop against a MaxSatOracle and writes
// sample records to an output stream.
type Sampler struct {
	ind cnf.Ind
	o   oracle.MaxSatOracle
	out io.Writer
	ctx context.Context

	rng        *rand.Rand
	maxSamples int
	maxTime    time.Duration
	start      time.Time

	stats        *stats.Sampler
	log          *logrus.Entry
	verboseModel bool

	epoch   int
	written int
	unsat   bool
}

// Unsat reports whether Run stopped because the seed MaxSAT call
// found the hard formula itself unsatisfiable, as opposed to a budget
// running out.
func (s *Sampler) Unsat() bool { return s.unsat }

// New builds a Sampler over the independent variables ind, driving o
// and writing sample records to out.
func New(ind cnf.Ind, o oracle.MaxSatOracle, out io.Writer, opts ...Option) *Sampler {
	s := &Sampler{
		ind:   ind,
		o:     o,
		out:   out,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		start: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Epochs returns the number of epochs completed so far.
func (s *Sampler) Epochs() int { return s.epoch }

// Written returns the number of sample records written so far.
func (s *Sampler) Written() int { return s.written }

func (s *Sampler) budgetExceeded() bool {
	if s.maxSamples > 0 && s.written >= s.maxSamples {
		return true
	}
	if s.maxTime > 0 && time.Since(s.start) >= s.maxTime {
		return true
	}
	if s.ctx != nil && s.ctx.Err() != nil {
		return true
	}
	return false
}

func (s *Sampler) bumpEpoch() {
	s.epoch++
	if s.stats != nil {
		s.stats.Epoch()
	}
}

func (s *Sampler) check() int {
	start := time.Now()
	res := s.o.Check()
	if s.stats != nil {
		s.stats.OracleCall(time.Since(start))
	}
	return res
}

func (s *Sampler) emit(degree int, bits string) error {
	if _, err := io.WriteString(s.out, recordLine(degree, bits)); err != nil {
		return errors.Wrap(err, "write sample record")
	}
	s.written++
	if s.stats != nil {
		s.stats.Sample()
	}
	return nil
}

// Run drives the epoch loop until a stopping condition holds (elapsed
// time, sample count, or the seed call reporting UNSAT), then returns.
// A nil return means a clean stop; a non-nil error means a write
// failure aborted the run mid-epoch.
func (s *Sampler) Run() error {
	for !s.budgetExceeded() {
		stop, err := s.runEpoch()
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	if s.unsat && s.log != nil {
		s.log.Info("no solution")
	}
	if s.log != nil && s.stats != nil {
		s.stats.Log(s.log)
	}
	return nil
}

// runEpoch runs exactly one epoch: seed generation, the degree-0
// emission, the commit phase, and the mutation phase. It reports
// stop=true when the seed call was UNSAT (the whole run must end).
func (s *Sampler) runEpoch() (stop bool, err error) {
	seedScope := oracle.Enter(s.o)
	for _, v := range s.ind {
		if s.rng.Intn(2) == 0 {
			s.o.AssertSoft(v.Pos())
		} else {
			s.o.AssertSoft(v.Neg())
		}
	}
	res := s.check()
	if res != oracle.Sat {
		seedScope.Close()
		s.unsat = true
		return true, nil
	}
	m := s.o.Model()
	sigma := projection(m, s.ind)
	seedScope.Close()

	if s.verboseModel && s.log != nil {
		s.log.WithField("epoch", s.epoch).WithField("seed", sigma).WithField("model", m).Debug("seed model")
	}

	if err := s.emit(0, sigma); err != nil {
		return true, err
	}

	emitted := map[string]bool{sigma: true}
	initial := map[string]bool{}
	accepted := map[string]int{}
	unsatPositions := map[int]bool{}

	commitScope := oracle.Enter(s.o)
	for i, v := range s.ind {
		if sigma[i] == '1' {
			s.o.AssertSoft(v.Pos())
		} else {
			s.o.AssertSoft(v.Neg())
		}
	}

	for i, v := range s.ind {
		if unsatPositions[i] {
			continue
		}
		if s.budgetExceeded() {
			break
		}

		mutScope := oracle.Enter(s.o)
		if sigma[i] == '1' {
			s.o.AssertHard(cnf.Clause{v.Neg()})
		} else {
			s.o.AssertHard(cnf.Clause{v.Pos()})
		}

		res := s.check()
		if res != oracle.Sat {
			unsatPositions[i] = true
			if s.stats != nil {
				s.stats.ForcedPosition()
			}
			mutScope.Close()
			continue
		}

		mp := s.o.Model()
		tau := projection(mp, s.ind)
		if !emitted[tau] {
			emitted[tau] = true
			initial[tau] = true
			if werr := s.emit(1, tau); werr != nil {
				mutScope.Close()
				commitScope.Close()
				return true, werr
			}
			if s.stats != nil {
				s.stats.Flip()
			}

			type candidate struct {
				bits   string
				degree int
			}
			var fresh []candidate
			for mu, deg := range accepted {
				if deg >= 6 {
					continue
				}
				d := combine(sigma, tau, mu)
				if emitted[d] {
					continue
				}
				dup := false
				for _, fc := range fresh {
					if fc.bits == d {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				fresh = append(fresh, candidate{bits: d, degree: deg + 1})
			}
			accepted[tau] = 1

			for _, fc := range fresh {
				emitted[fc.bits] = true
				accepted[fc.bits] = fc.degree
				if werr := s.emit(fc.degree, fc.bits); werr != nil {
					mutScope.Close()
					commitScope.Close()
					return true, werr
				}
			}
		}
		mutScope.Close()
	}
	commitScope.Close()

	s.bumpEpoch()
	return false, nil
}

// projection reads off the IND-indexed bit string from a model.
func projection(m oracle.Model, ind cnf.Ind) string {
	buf := make([]byte, len(ind))
	for i, v := range ind {
		if m.Value(v.Pos()) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
