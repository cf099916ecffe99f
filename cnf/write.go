package cnf

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDimacs renders f, followed by one unit clause per literal in
// extra, as a DIMACS CNF stream. Useful for persisting a formula
// together with a fixed assignment, and for round-trip tests.
func WriteDimacs(w io.Writer, f *Formula, extra Clause) error {
	bw := bufio.NewWriter(w)
	nClauses := len(f.Clauses) + len(extra)
	if _, e := fmt.Fprintf(bw, "p cnf %d %d\n", f.NVars, nClauses); e != nil {
		return e
	}
	for _, c := range f.Clauses {
		if e := writeClause(bw, c); e != nil {
			return e
		}
	}
	for _, m := range extra {
		if e := writeClause(bw, Clause{m}); e != nil {
			return e
		}
	}
	return bw.Flush()
}

func writeClause(w *bufio.Writer, c Clause) error {
	for _, m := range c {
		if _, e := fmt.Fprintf(w, "%d ", m.Dimacs()); e != nil {
			return e
		}
	}
	_, e := fmt.Fprintln(w, "0")
	return e
}
