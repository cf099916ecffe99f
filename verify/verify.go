package verify

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/oracle"
	"github.com/RafaelTupynamba/quicksampler/sampler"
	"github.com/RafaelTupynamba/quicksampler/stats"
)

// ErrInvalidSampleCharacter is returned when a sample line's bit
// portion contains a character other than '0' or '1'.
var ErrInvalidSampleCharacter = errors.New("invalid sample character")

// calibrationWindow is the number of leading samples timed to
// estimate per-sample cost; warmupDiscard is the leading slice of
// that window excluded from the timing average, since the very first
// calls pay one-time setup cost that would skew the estimate.
const (
	calibrationWindow = 10
	warmupDiscard     = 5
	bucketFloor       = 20
)

// Options configures a verification pass.
type Options struct {
	// NVars bounds the variable universe passed to each fresh SAT
	// oracle; it must cover every variable in f plus every IND
	// variable, even ones absent from any clause.
	NVars int
	// Timeout is the user time budget T used to derive the base
	// acceptance probability. Zero means "verify everything".
	Timeout time.Duration
	Rand    *rand.Rand
	Log     *logrus.Entry
	Stats   *stats.Verifier
}

// Run verifies the sample records read from in against f/ind, writes
// the distinct valid ones to validOut in ".samples.valid" form, and
// returns the aggregate Report.
func Run(f *cnf.Formula, ind cnf.Ind, in io.Reader, validOut io.Writer, opts Options) (*Report, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	nVars := opts.NVars
	if nVars < f.NVars {
		nVars = f.NVars
	}

	records, err := readRecords(in)
	if err != nil {
		return nil, err
	}

	rep := newReport()
	table := map[string]*entry{}

	var fileTotal [MaxDegree + 1]int
	for _, rec := range records {
		fileTotal[clipDegree(rec.Degree)]++
	}
	n := len(records)

	// Calibration: time the first ten samples. These calls are
	// throwaway, they size the per-sample cost, nothing else, so they
	// touch neither the dedup table nor the report; the real tally
	// comes from the full second pass below, which re-reads every
	// record from line 1, including these.
	k := calibrationWindow
	if k > n {
		k = n
	}
	var timedTotal time.Duration
	timedCount := 0
	for i, rec := range records[:k] {
		start := time.Now()
		if err := calibrateOne(f, nVars, ind, rec); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		if i >= warmupDiscard {
			timedTotal += elapsed
			timedCount++
		}
	}

	var step time.Duration
	if timedCount > 0 {
		step = timedTotal / time.Duration(timedCount)
	}

	p, pn := acceptanceProbabilities(step, n, fileTotal, opts.Timeout)

	// Full pass, line 1 onward, over every record including the
	// calibration window: each one independently faces the same
	// base/per-bucket Bernoulli acceptance test, which is the sole
	// source of Valid/Invalid/Unknown and of the dedup table.
	for _, rec := range records {
		accept := opts.Rand.Float64() < p || opts.Rand.Float64() < pn[clipDegree(rec.Degree)]
		if !accept {
			continue
		}
		if err := processOne(table, f, nVars, ind, rep, rec, opts.Stats); err != nil {
			return nil, err
		}
	}

	rep.Total = fileTotal

	for _, e := range table {
		if e.verdict == verdictUnknown {
			continue
		}
		rep.bumpHistogram(e.verdict == verdictValid, e.count)
	}
	rep.finalizeYield()

	if err := writeValid(validOut, ind, table); err != nil {
		return nil, errors.Wrap(err, "write .samples.valid")
	}

	if opts.Log != nil && opts.Stats != nil {
		opts.Stats.Log(opts.Log)
	}
	return rep, nil
}

// acceptanceProbabilities derives the base acceptance probability p
// (min(1, T/(step·N))) and, per degree bucket, the floor probability
// pn that boosts an under-sampled bucket up to bucketFloor expected
// verifications. pn[d] is zero unless bucket d needs the boost: the
// main pass accepts a record if either draw succeeds, so defaulting
// pn to p instead of zero would make every record face two
// independent p draws and roughly double the effective acceptance
// rate, which would blow through the time budget T is meant to
// enforce.
func acceptanceProbabilities(step time.Duration, n int, fileTotal [MaxDegree + 1]int, timeout time.Duration) (p float64, pn [MaxDegree + 1]float64) {
	p = 1.0
	if step > 0 && timeout > 0 {
		denom := step.Seconds() * float64(n)
		if denom > 0 {
			p = timeout.Seconds() / denom
		}
		if p > 1 {
			p = 1
		}
	}

	for d := 0; d <= MaxDegree; d++ {
		if fileTotal[d] == 0 {
			continue
		}
		floor := bucketFloor
		if floor > fileTotal[d] {
			floor = fileTotal[d]
		}
		if p*float64(fileTotal[d]) < float64(floor) {
			pn[d] = float64(floor) / float64(fileTotal[d])
		}
	}
	return p, pn
}

func clipDegree(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxDegree {
		return MaxDegree
	}
	return n
}

func validateBits(ind cnf.Ind, bits string) error {
	if len(bits) != ind.Len() {
		return errors.Errorf("sample record has %d bits, want %d", len(bits), ind.Len())
	}
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return errors.Wrapf(ErrInvalidSampleCharacter, "character %q at position %d of %q", bits[i], i, bits)
		}
	}
	return nil
}

// calibrateOne exercises the same oracle path as processOne, purely to
// measure its cost; it never touches the dedup table or the report.
func calibrateOne(f *cnf.Formula, nVars int, ind cnf.Ind, rec sampler.Record) error {
	if err := validateBits(ind, rec.Bits); err != nil {
		return err
	}
	verifyOne(f, nVars, ind, rec.Bits)
	return nil
}

func processOne(table map[string]*entry, f *cnf.Formula, nVars int, ind cnf.Ind, rep *Report, rec sampler.Record, st *stats.Verifier) error {
	if err := validateBits(ind, rec.Bits); err != nil {
		return err
	}
	if st != nil {
		st.Process()
	}
	e, ok := table[rec.Bits]
	if !ok {
		v := verifyOne(f, nVars, ind, rec.Bits)
		e = &entry{verdict: v}
		table[rec.Bits] = e
		if st != nil {
			st.Verify(v == verdictValid, v == verdictUnknown)
		}
	}
	e.count++
	rep.record(rec.Degree, e.verdict)
	return nil
}

func verifyOne(f *cnf.Formula, nVars int, ind cnf.Ind, bits string) verdict {
	o := oracle.NewSatOracle(f, nVars)
	for i, v := range ind {
		lit := v.Pos()
		if bits[i] == '0' {
			lit = v.Neg()
		}
		o.Assert(cnf.Clause{lit})
	}
	switch o.Check() {
	case oracle.Sat:
		return verdictValid
	case oracle.Unsat:
		return verdictInvalid
	default:
		return verdictUnknown
	}
}

func readRecords(r io.Reader) ([]sampler.Record, error) {
	var out []sampler.Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := sampler.ParseRecord(line)
		if err != nil {
			return nil, errors.Wrap(err, "read sample file")
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read sample file")
	}
	return out, nil
}
