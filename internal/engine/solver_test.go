package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RafaelTupynamba/quicksampler/z"
)

func TestSolveTrivialSat(t *testing.T) {
	clauses := [][]z.Lit{
		{z.Dimacs2Lit(1), z.Dimacs2Lit(2)},
	}
	res, model := Solve(2, clauses, nil)
	assert.Equal(t, Sat, res)
	assert.True(t, model[1] || model[2])
}

func TestSolveTrivialUnsat(t *testing.T) {
	clauses := [][]z.Lit{
		{z.Dimacs2Lit(1)},
		{z.Dimacs2Lit(-1)},
	}
	res, _ := Solve(1, clauses, nil)
	assert.Equal(t, Unsat, res)
}

func TestSolveAssumptionsConflict(t *testing.T) {
	clauses := [][]z.Lit{
		{z.Dimacs2Lit(1)},
	}
	res, _ := Solve(1, clauses, []z.Lit{z.Dimacs2Lit(-1)})
	assert.Equal(t, Unsat, res)
}

func TestSolveNoVariables(t *testing.T) {
	res, model := Solve(0, nil, nil)
	assert.Equal(t, Sat, res)
	assert.Len(t, model, 1)
}

func TestSolveExactlyOneOf(t *testing.T) {
	clauses := [][]z.Lit{
		{z.Dimacs2Lit(1), z.Dimacs2Lit(2)},
		{z.Dimacs2Lit(-1), z.Dimacs2Lit(-2)},
	}
	res, model := Solve(2, clauses, nil)
	assert.Equal(t, Sat, res)
	assert.True(t, model[1] != model[2])
}

func TestSolveEmptyClauseIsUnsat(t *testing.T) {
	clauses := [][]z.Lit{{}}
	res, _ := Solve(0, clauses, nil)
	assert.Equal(t, Unsat, res)
}
