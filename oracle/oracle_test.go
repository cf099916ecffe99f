package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/z"
)

func TestSatOracleBasic(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1), z.Dimacs2Lit(2)})
	f.AddClause(cnf.Clause{z.Dimacs2Lit(-1), z.Dimacs2Lit(-2)})

	o := NewSatOracle(f, 2)
	assert.Equal(t, Sat, o.Check())
	m := o.Model()
	require.NotNil(t, m)
	v1, v2 := m.Value(z.Dimacs2Lit(1)), m.Value(z.Dimacs2Lit(2))
	assert.True(t, v1 != v2, "exactly one of the two variables should be true")
}

func TestSatOracleUnsat(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1)})
	o := NewSatOracle(f, 1)
	o.Assert(cnf.Clause{z.Dimacs2Lit(-1)})
	assert.Equal(t, Unsat, o.Check())
}

func TestMaxSatOracleUnconstrained(t *testing.T) {
	f := &cnf.Formula{}
	o := NewMaxSatOracle(f, 3)
	sc := Enter(o)
	o.AssertSoft(z.Dimacs2Lit(1))
	o.AssertSoft(z.Dimacs2Lit(2))
	o.AssertSoft(z.Dimacs2Lit(-3))
	assert.Equal(t, Sat, o.Check())
	m := o.Model()
	require.NotNil(t, m)
	assert.True(t, m.Value(z.Dimacs2Lit(1)))
	assert.True(t, m.Value(z.Dimacs2Lit(2)))
	assert.True(t, m.Value(z.Dimacs2Lit(-3)))
	sc.Close()
}

func TestMaxSatOracleMinimisesViolations(t *testing.T) {
	f := &cnf.Formula{}
	// forces var 1 false no matter what is preferred.
	f.AddClause(cnf.Clause{z.Dimacs2Lit(-1)})

	o := NewMaxSatOracle(f, 2)
	sc := Enter(o)
	o.AssertSoft(z.Dimacs2Lit(1))  // cannot be satisfied
	o.AssertSoft(z.Dimacs2Lit(2))  // can be satisfied
	assert.Equal(t, Sat, o.Check())
	m := o.Model()
	require.NotNil(t, m)
	assert.False(t, m.Value(z.Dimacs2Lit(1)))
	assert.True(t, m.Value(z.Dimacs2Lit(2)))
	sc.Close()
}

func TestMaxSatOracleUnsatHard(t *testing.T) {
	f := &cnf.Formula{}
	f.AddClause(cnf.Clause{z.Dimacs2Lit(1)})
	f.AddClause(cnf.Clause{z.Dimacs2Lit(-1)})

	o := NewMaxSatOracle(f, 1)
	sc := Enter(o)
	o.AssertSoft(z.Dimacs2Lit(1))
	assert.Equal(t, Unsat, o.Check())
	sc.Close()
}

func TestScopeDiscipline(t *testing.T) {
	f := &cnf.Formula{}
	o := NewMaxSatOracle(f, 1)
	sc := Enter(o)
	o.AssertHard(cnf.Clause{z.Dimacs2Lit(1)})
	sc.Close()

	// after Close, the hard unit from the closed scope no longer
	// applies: asserting its negation in a fresh scope must be sat.
	sc2 := Enter(o)
	o.AssertHard(cnf.Clause{z.Dimacs2Lit(-1)})
	assert.Equal(t, Sat, o.Check())
	sc2.Close()
}
