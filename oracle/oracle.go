// Package oracle adapts internal/engine into two small solving
// contracts, a SatOracle and a MaxSatOracle. Both are treated by the
// sampler and verifier as abstract services; this package supplies
// one concrete, in-process implementation of each.
package oracle

import (
	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/z"
)

// Model encapsulates something from which a model can be extracted.
type Model interface {
	Value(m z.Lit) bool
}

// litModel is a Model backed by a plain per-variable truth array, as
// returned by internal/engine.Solve.
type litModel []bool

func (m litModel) Value(l z.Lit) bool {
	v := m[l.Var()]
	if l.IsPos() {
		return v
	}
	return !v
}

const (
	Unsat   = -1
	Unknown = 0
	Sat     = 1
)

// SatOracle is a plain SAT oracle: assert clauses, check, and read
// back a model.
type SatOracle interface {
	Assert(c cnf.Clause)
	Check() int
	Model() Model
}

// MaxSatOracle accepts a hard formula plus unit soft assumptions of
// weight 1 and returns an optimal model (minimising the weight of
// violated soft assumptions) or UNSAT, with a push/pop scope stack
// discipline.
type MaxSatOracle interface {
	Push()
	Pop()
	AssertHard(c cnf.Clause)
	AssertSoft(m z.Lit)
	Check() int
	Model() Model
}

// pushPopper is the minimal capability Scope needs to guard.
type pushPopper interface {
	Push()
	Pop()
}

// Scope is a push/pop guard: every scope acquired via Enter is
// released by a single call to Close, on every exit path, including
// panics if the caller defers Close immediately after Enter.
type Scope struct {
	o pushPopper
}

// Enter pushes a new scope on o and returns a guard that pops it.
func Enter(o pushPopper) *Scope {
	o.Push()
	return &Scope{o: o}
}

// Close pops the scope. Close must be called exactly once per Scope,
// normally via defer right after Enter.
func (s *Scope) Close() {
	s.o.Pop()
}
