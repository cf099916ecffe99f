// Package z provides the variable and literal encoding shared by the
// cnf, engine, oracle, sampler and verify packages.
package z

import "fmt"

// Var is a 1-based Boolean variable identifier.
type Var uint32

// VarNull is the zero value of Var and never denotes a real variable.
const VarNull Var = 0

// Pos returns the positive literal of v.
func (v Var) Pos() Lit {
	return Lit(v << 1)
}

// Neg returns the negative literal of v.
func (v Var) Neg() Lit {
	return Lit(v<<1) ^ 1
}

func (v Var) String() string {
	return fmt.Sprintf("v%d", uint32(v))
}
