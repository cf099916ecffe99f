// Package verify replays sampler output through a plain SAT oracle to
// separate valid candidates from invalid ones.
package verify

import (
	"fmt"
	"io"
	"sort"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/z"
)

// MaxDegree is the highest mutation degree the sampler core ever
// produces; degree buckets run 0..MaxDegree inclusive.
const MaxDegree = 6

// entry is the per-distinct-sample-string bookkeeping: a cached
// verdict plus a reuse count.
type entry struct {
	verdict verdict
	count   int
}

type verdict int

const (
	verdictValid verdict = iota
	verdictInvalid
	verdictUnknown
)

// Report is the aggregate result of a verification pass.
type Report struct {
	Valid   [MaxDegree + 1]int
	Invalid [MaxDegree + 1]int
	Unknown [MaxDegree + 1]int

	// Total[n] is the whole-file bucket size: how many records of
	// degree n appear in the .samples file, independent of how many of
	// them were actually subsampled and re-verified. This is the
	// weight the yield formula below uses, not a count of verified
	// records (Valid[n]+Invalid[n]+Unknown[n] is that count).
	Total [MaxDegree + 1]int

	// Yield is Σ total_n·(valid_n/(valid_n+invalid_n)) / Σ total_n.
	Yield float64

	// ReuseHistogram[valid][k] counts the distinct sample strings with
	// verdict `valid` that were encountered exactly k times.
	ReuseHistogram map[bool][]int
}

func newReport() *Report {
	return &Report{ReuseHistogram: map[bool][]int{true: {}, false: {}}}
}

func (r *Report) record(degree int, v verdict) {
	degree = clipDegree(degree)
	switch v {
	case verdictValid:
		r.Valid[degree]++
	case verdictInvalid:
		r.Invalid[degree]++
	case verdictUnknown:
		r.Unknown[degree]++
	}
}

func (r *Report) finalizeYield() {
	var num, den float64
	for n := 0; n <= MaxDegree; n++ {
		den += float64(r.Total[n])
		denom := r.Valid[n] + r.Invalid[n]
		if denom == 0 {
			continue
		}
		ratio := float64(r.Valid[n]) / float64(denom)
		num += float64(r.Total[n]) * ratio
	}
	if den == 0 {
		r.Yield = 0
		return
	}
	r.Yield = num / den
}

func (r *Report) bumpHistogram(isValid bool, count int) {
	hist := r.ReuseHistogram[isValid]
	for len(hist) <= count {
		hist = append(hist, 0)
	}
	hist[count]++
	r.ReuseHistogram[isValid] = hist
}

// writeValid renders the distinct valid sample strings as
// ".samples.valid" records: signed DIMACS literals over ind followed
// by "0:<count>".
func writeValid(w io.Writer, ind cnf.Ind, table map[string]*entry) error {
	bits := make([]string, 0, len(table))
	for s, e := range table {
		if e.verdict == verdictValid {
			bits = append(bits, s)
		}
	}
	sort.Strings(bits)

	for _, s := range bits {
		e := table[s]
		for i, v := range ind {
			lit := v.Pos()
			if s[i] == '0' {
				lit = v.Neg()
			}
			if _, err := fmt.Fprintf(w, "%s ", litString(lit)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "0:%d\n", e.count); err != nil {
			return err
		}
	}
	return nil
}

func litString(l z.Lit) string {
	return l.String()
}
