package oracle

import (
	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/internal/engine"
	"github.com/RafaelTupynamba/quicksampler/z"
)

// scopeFrame holds the hard clauses and soft (weight-1) unit
// assumptions asserted since the matching Push.
type scopeFrame struct {
	hard []cnf.Clause
	soft []z.Lit
}

// maxSatAdapter is the concrete MaxSatOracle. Rather than keeping an
// incremental optimizer across calls, Check rebuilds a sorting-network
// cardinality constraint over the currently active soft assumptions
// and runs a linear search for the smallest number of violations,
// returning an optimal model with ties broken arbitrarily.
type maxSatAdapter struct {
	f      *cnf.Formula
	nVars  int
	frames []scopeFrame
	lastR  int
	lastM  litModel
}

// NewMaxSatOracle materialises a MaxSatOracle over f. nVars should
// cover every variable ever asserted on, including independent
// variables absent from every clause.
func NewMaxSatOracle(f *cnf.Formula, nVars int) MaxSatOracle {
	if nVars < f.NVars {
		nVars = f.NVars
	}
	return &maxSatAdapter{f: f, nVars: nVars}
}

func (o *maxSatAdapter) Push() {
	o.frames = append(o.frames, scopeFrame{})
}

func (o *maxSatAdapter) Pop() {
	o.frames = o.frames[:len(o.frames)-1]
}

func (o *maxSatAdapter) bump(m z.Lit) {
	if v := int(m.Var()); v > o.nVars {
		o.nVars = v
	}
}

func (o *maxSatAdapter) AssertHard(c cnf.Clause) {
	cur := &o.frames[len(o.frames)-1]
	cur.hard = append(cur.hard, c)
	for _, m := range c {
		o.bump(m)
	}
}

func (o *maxSatAdapter) AssertSoft(m z.Lit) {
	cur := &o.frames[len(o.frames)-1]
	cur.soft = append(cur.soft, m)
	o.bump(m)
}

// varAlloc is the engine.Builder the cardinality sorting network
// allocates its auxiliary variables and clauses through.
type varAlloc struct {
	next    int
	clauses [][]z.Lit
}

func (a *varAlloc) NewVar() z.Var {
	a.next++
	return z.Var(a.next)
}

func (a *varAlloc) AddClause(c []z.Lit) {
	a.clauses = append(a.clauses, c)
}

func (o *maxSatAdapter) hardClauses() [][]z.Lit {
	clauses := make([][]z.Lit, 0, len(o.f.Clauses)+len(o.frames))
	for _, c := range o.f.Clauses {
		clauses = append(clauses, []z.Lit(c))
	}
	for _, fr := range o.frames {
		for _, c := range fr.hard {
			clauses = append(clauses, []z.Lit(c))
		}
	}
	return clauses
}

func (o *maxSatAdapter) softLits() []z.Lit {
	var softs []z.Lit
	for _, fr := range o.frames {
		softs = append(softs, fr.soft...)
	}
	return softs
}

// Check finds a model minimising the number of violated soft
// assumptions (weight 1 each), or reports Unsat if the hard clauses
// alone have no model.
func (o *maxSatAdapter) Check() int {
	hard := o.hardClauses()
	softs := o.softLits()

	if len(softs) == 0 {
		res, model := engine.Solve(o.nVars, hard, nil)
		o.lastR = res
		if res == Sat {
			o.lastM = litModel(model)
		} else {
			o.lastM = nil
		}
		return res
	}

	violated := make([]z.Lit, len(softs))
	for i, m := range softs {
		violated[i] = m.Not()
	}
	alloc := &varAlloc{next: o.nVars}
	cs := engine.NewCardSort(violated, alloc)

	all := make([][]z.Lit, 0, len(hard)+len(alloc.clauses))
	all = append(all, hard...)
	all = append(all, alloc.clauses...)

	for b := 0; b <= len(violated); b++ {
		res, model := engine.Solve(alloc.next, all, []z.Lit{cs.Leq(b)})
		if res == Sat {
			o.lastR = Sat
			o.lastM = litModel(model)
			return Sat
		}
	}
	o.lastR = Unsat
	o.lastM = nil
	return Unsat
}

func (o *maxSatAdapter) Model() Model {
	if o.lastR != Sat {
		return nil
	}
	return o.lastM
}
