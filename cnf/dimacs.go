package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/RafaelTupynamba/quicksampler/z"
)

// ParseError reports a malformed DIMACS integer: the offending
// character and the line it occurred on.
type ParseError struct {
	Line  int
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dimacs: line %d: malformed integer %q", e.Line, e.Token)
}

// ReadDimacs parses a DIMACS-style text stream and returns the
// resulting formula and independent-variable set. When no "c ind"
// declaration appears, Ind defaults to every variable occurring in any
// clause, in first-seen order.
func ReadDimacs(r io.Reader) (*Formula, Ind, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	f := &Formula{}
	indSeen := map[z.Var]bool{}
	var ind Ind
	hasInd := false

	allSeen := map[z.Var]bool{}
	var allOrder []z.Var

	var building Clause
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "c ind"):
			rest := strings.TrimSpace(trimmed[len("c ind"):])
			vals, e := parseInts(rest, lineNo)
			if e != nil {
				return nil, nil, e
			}
			for _, v := range vals {
				if v == 0 {
					continue
				}
				vv := z.Var(v)
				if !indSeen[vv] {
					indSeen[vv] = true
					ind = append(ind, vv)
					hasInd = true
				}
			}
		case strings.HasPrefix(trimmed, "c"):
			// other comment, ignored.
		case strings.HasPrefix(trimmed, "p"):
			// problem header, ignored.
		default:
			vals, e := parseInts(trimmed, lineNo)
			if e != nil {
				return nil, nil, e
			}
			for _, v := range vals {
				if v == 0 {
					f.AddClause(building)
					building = nil
					continue
				}
				m := z.Dimacs2Lit(v)
				building = append(building, m)
				vv := m.Var()
				if !allSeen[vv] {
					allSeen[vv] = true
					allOrder = append(allOrder, vv)
				}
			}
		}
	}
	if e := sc.Err(); e != nil {
		return nil, nil, errors.Wrap(e, "dimacs: scanning input")
	}
	if len(building) > 0 {
		f.AddClause(building)
	}

	if !hasInd {
		ind = make(Ind, len(allOrder))
		copy(ind, allOrder)
	}
	return f, ind, nil
}

// parseInts splits s on whitespace and parses every field as a signed
// integer, reporting the offending token and line on failure.
func parseInts(s string, lineNo int) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, tok := range fields {
		v, e := strconv.Atoi(tok)
		if e != nil {
			return nil, &ParseError{Line: lineNo, Token: tok}
		}
		out = append(out, v)
	}
	return out, nil
}
