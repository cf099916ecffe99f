package engine

import "github.com/RafaelTupynamba/quicksampler/z"

// Builder is the minimal capability CardSort needs: allocate a fresh
// variable and add a clause terminated implicitly (no z.LitNull
// sentinel, callers pass whole clauses).
type Builder interface {
	NewVar() z.Var
	AddClause(c []z.Lit)
}

// CardSort builds a cardinality constraint over ms via an odd-even
// merge sorting network. The network is built once; Leq(b) then
// yields, for any b, a literal that is true iff at most b of ms are
// true, without adding further clauses.
type CardSort struct {
	n   int
	b   Builder
	ms  []z.Lit
	one z.Lit
}

// NewCardSort builds a CardSort over ms, padding to the next power of
// two with a literal fixed true.
func NewCardSort(ms []z.Lit, b Builder) *CardSort {
	p := uint(0)
	for 1<<p < len(ms) {
		p++
	}
	ns := make([]z.Lit, 1<<p)
	copy(ns, ms)

	c := &CardSort{ms: ns, b: b, n: len(ms)}
	c.one = b.NewVar().Pos()
	b.AddClause([]z.Lit{c.one})
	for i := len(ms); i < len(ns); i++ {
		ns[i] = c.one
	}
	c.sort(0, len(ns))
	return c
}

// Leq returns a literal true iff the number of true literals among ms
// does not exceed b.
func (c *CardSort) Leq(b int) z.Lit {
	if b >= c.n {
		return c.one
	}
	if b < 0 {
		return c.one.Not()
	}
	return c.ms[(c.n-1)-b].Not()
}

func (c *CardSort) sort(l, h int) {
	if h-l <= 1 {
		return
	}
	m := l + (h-l)/2
	c.sort(l, m)
	c.sort(m, h)
	c.merge(l, h, 1)
}

func (c *CardSort) merge(l, h, s int) {
	if h <= l+s {
		return
	}
	ss := 2 * s
	if ss >= h-l {
		lo, hi := c.compareSwap(l, l+s)
		c.ms[l], c.ms[l+s] = lo, hi
		return
	}
	c.merge(l, h, ss)
	c.merge(l+s, h, ss)
	lim := h - s
	for i := l + s; i < lim; i += ss {
		lo, hi := c.compareSwap(i, i+s)
		c.ms[i], c.ms[i+s] = lo, hi
	}
}

// compareSwap returns (low, high) literals equivalent to sorting the
// pair (ms[i], ms[j]) by truth value: low <=> mi AND mj, high <=> mi
// OR mj, each pinned down by its full biconditional (six clauses
// total), exactly as in logic/card.go.
func (c *CardSort) compareSwap(i, j int) (z.Lit, z.Lit) {
	mi, mj := c.ms[i], c.ms[j]
	lo, hi := c.b.NewVar().Pos(), c.b.NewVar().Pos()

	// lo <=> mi AND mj
	c.b.AddClause([]z.Lit{lo.Not(), mi})
	c.b.AddClause([]z.Lit{lo.Not(), mj})
	c.b.AddClause([]z.Lit{mi.Not(), mj.Not(), lo})

	// hi <=> mi OR mj
	c.b.AddClause([]z.Lit{mi.Not(), hi})
	c.b.AddClause([]z.Lit{mj.Not(), hi})
	c.b.AddClause([]z.Lit{hi.Not(), mi, mj})
	return lo, hi
}
