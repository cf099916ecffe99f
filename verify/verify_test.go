package verify

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/z"
)

// S5: three records, two satisfiable and one deliberately
// contradictory, base probability 1.0 (timeout 0 means "verify
// everything"). Expect valid=2, invalid=1 and two lines in the valid
// output.
func TestRunSanityTwoValidOneInvalid(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1), z.Dimacs2Lit(2)})
	ind := cnf.Ind{1, 2}

	in := strings.NewReader("0: 10\n0: 01\n1: 00\n")
	var valid strings.Builder

	rep, err := Run(f, ind, in, &valid, Options{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)

	totalValid := 0
	totalInvalid := 0
	for n := 0; n <= MaxDegree; n++ {
		totalValid += rep.Valid[n]
		totalInvalid += rep.Invalid[n]
	}
	assert.Equal(t, 2, totalValid)
	assert.Equal(t, 1, totalInvalid)

	lines := strings.Split(strings.TrimRight(valid.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
}

// Same scenario as TestRunSanityTwoValidOneInvalid, but diffing the
// whole Report struct at once (buckets, total, yield and reuse
// histogram together) rather than field by field.
func TestRunReportStructuralDiff(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1), z.Dimacs2Lit(2)})
	ind := cnf.Ind{1, 2}

	in := strings.NewReader("0: 10\n0: 01\n1: 00\n")
	var valid strings.Builder

	rep, err := Run(f, ind, in, &valid, Options{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)

	want := &Report{
		Valid:   [MaxDegree + 1]int{0: 2},
		Invalid: [MaxDegree + 1]int{1: 1},
		Total:   [MaxDegree + 1]int{0: 2, 1: 1},
		Yield:   2.0 / 3.0,
		ReuseHistogram: map[bool][]int{
			true:  {0, 2},
			false: {0, 1},
		},
	}

	if diff := cmp.Diff(want, rep); diff != "" {
		t.Fatalf("Report mismatch (-want +got):\n%s", diff)
	}
}

// With a partial time budget, a well-sampled bucket must face only
// the base draw: pn for that bucket stays 0, not p, so the effective
// acceptance rate is p rather than ~1-(1-p)^2.
func TestAcceptanceProbabilitiesDoesNotDoubleCountWellSampledBucket(t *testing.T) {
	fileTotal := [MaxDegree + 1]int{0: 1000}
	p, pn := acceptanceProbabilities(time.Millisecond, 1000, fileTotal, 500*time.Millisecond)

	assert.InDelta(t, 0.5, p, 1e-9)
	assert.Equal(t, 0.0, pn[0], "bucket 0 is far above the floor, its boost probability must stay at zero")
}

// An under-sampled bucket still gets boosted up to bucketFloor
// expected verifications via pn, on top of the base draw.
func TestAcceptanceProbabilitiesBoostsUnderSampledBucket(t *testing.T) {
	fileTotal := [MaxDegree + 1]int{3: 25}
	p, pn := acceptanceProbabilities(time.Millisecond, 1000, fileTotal, 500*time.Millisecond)

	assert.InDelta(t, 0.5, p, 1e-9)
	assert.InDelta(t, float64(bucketFloor)/25, pn[3], 1e-9)
}

func TestRunRejectsInvalidSampleCharacter(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1)})
	ind := cnf.Ind{1}

	in := strings.NewReader("0: 1\n0: x\n")
	var valid strings.Builder

	_, err := Run(f, ind, in, &valid, Options{Rand: rand.New(rand.NewSource(2))})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSampleCharacter)
}

func TestRunDeduplicatesRepeatedSamplesAndTracksReuse(t *testing.T) {
	f := &cnf.Formula{}
	ind := cnf.Ind{1}

	in := strings.NewReader("0: 1\n0: 1\n0: 1\n1: 0\n")
	var valid strings.Builder

	rep, err := Run(f, ind, in, &valid, Options{Rand: rand.New(rand.NewSource(3))})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Total[0])
	assert.Equal(t, 1, rep.Total[1])

	hist := rep.ReuseHistogram[true]
	require.True(t, len(hist) > 3)
	assert.Equal(t, 1, hist[3], "one distinct valid sample seen exactly three times")
}

func TestRunYieldIsZeroWhenFileEmpty(t *testing.T) {
	f := &cnf.Formula{}
	ind := cnf.Ind{1}

	var valid strings.Builder
	rep, err := Run(f, ind, strings.NewReader(""), &valid, Options{Rand: rand.New(rand.NewSource(4))})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.Yield)
	assert.Empty(t, valid.String())
}

func TestRunFullYieldWhenEverythingValid(t *testing.T) {
	f := &cnf.Formula{}
	ind := cnf.Ind{1, 2}

	in := strings.NewReader("0: 11\n1: 10\n1: 01\n")
	var valid strings.Builder
	rep, err := Run(f, ind, in, &valid, Options{Rand: rand.New(rand.NewSource(5))})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rep.Yield, 1e-9)
}
