// Package cnf holds the CNF data model (clauses, formulas, the
// independent-variable set) and the DIMACS reader/writer.
package cnf

import "github.com/RafaelTupynamba/quicksampler/z"

// Clause is a finite set of literals interpreted disjunctively. An
// empty clause is valid and represents false.
type Clause []z.Lit

// Formula is a finite ordered sequence of clauses interpreted
// conjunctively.
type Formula struct {
	Clauses []Clause
	NVars   int
}

// AddClause appends c to the formula, extending NVars as needed.
func (f *Formula) AddClause(c Clause) {
	f.Clauses = append(f.Clauses, c)
	for _, m := range c {
		if v := int(m.Var()); v > f.NVars {
			f.NVars = v
		}
	}
}

// Clone returns a deep copy of f, which can then be extended without
// affecting f.
func (f *Formula) Clone() *Formula {
	g := &Formula{
		Clauses: make([]Clause, len(f.Clauses)),
		NVars:   f.NVars,
	}
	for i, c := range f.Clauses {
		cc := make(Clause, len(c))
		copy(cc, c)
		g.Clauses[i] = cc
	}
	return g
}

// Ind is the ordered, duplicate-free sequence of independent
// variables. Order is significant: sample strings index positions by
// it. Ind is immutable after parsing.
type Ind []z.Var

// Len returns the number of independent variables.
func (ind Ind) Len() int {
	return len(ind)
}
