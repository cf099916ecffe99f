package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is one sample line: a mutation degree and its IND-indexed
// bit string, per the ".samples" format.
type Record struct {
	Degree int
	Bits   string
}

func recordLine(degree int, bits string) string {
	return fmt.Sprintf("%d: %s\n", degree, bits)
}

// ParseRecord parses one ".samples" line of the form "<n>: <bits>",
// with any trailing newline already stripped by the caller's scanner.
func ParseRecord(line string) (Record, error) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return Record{}, errors.Errorf("malformed sample record: %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[:idx]))
	if err != nil {
		return Record{}, errors.Wrapf(err, "malformed degree in sample record: %q", line)
	}
	bits := strings.TrimSpace(line[idx+1:])
	return Record{Degree: n, Bits: bits}, nil
}
