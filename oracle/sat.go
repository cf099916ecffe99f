package oracle

import (
	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/internal/engine"
	"github.com/RafaelTupynamba/quicksampler/z"
)

// satAdapter is the concrete SatOracle used by the verifier. Each
// instance reads the formula's clauses in place, without modifying
// them, and keeps the clauses asserted on it in its own list; it never
// reparses DIMACS.
type satAdapter struct {
	f      *cnf.Formula
	nVars  int
	extra  []cnf.Clause
	lastR  int
	lastM  litModel
}

// NewSatOracle materialises a fresh SAT oracle from f. nVars should
// cover every variable the caller intends to assert on, even ones not
// occurring in any clause of f (e.g. an independent variable with no
// constraints).
func NewSatOracle(f *cnf.Formula, nVars int) SatOracle {
	if nVars < f.NVars {
		nVars = f.NVars
	}
	return &satAdapter{f: f, nVars: nVars}
}

func (s *satAdapter) Assert(c cnf.Clause) {
	s.extra = append(s.extra, c)
	for _, m := range c {
		if v := int(m.Var()); v > s.nVars {
			s.nVars = v
		}
	}
}

func (s *satAdapter) Check() int {
	clauses := make([][]z.Lit, 0, len(s.f.Clauses)+len(s.extra))
	for _, c := range s.f.Clauses {
		clauses = append(clauses, []z.Lit(c))
	}
	for _, c := range s.extra {
		clauses = append(clauses, []z.Lit(c))
	}
	res, model := engine.Solve(s.nVars, clauses, nil)
	s.lastR = res
	if res == Sat {
		s.lastM = litModel(model)
	} else {
		s.lastM = nil
	}
	return res
}

func (s *satAdapter) Model() Model {
	if s.lastR != Sat {
		return nil
	}
	return s.lastM
}
