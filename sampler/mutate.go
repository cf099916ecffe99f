package sampler

// combine implements the XOR majority combiner: d_j = a_j XOR
// ((a_j XOR b_j) AND (a_j XOR c_j)). d agrees with a everywhere except
// positions where both b and c disagree with a, in which case it
// flips. a, b, c must have equal length; combine does not check this,
// callers only ever pass same-length sample strings.
func combine(a, b, c string) string {
	buf := make([]byte, len(a))
	for j := 0; j < len(a); j++ {
		aj := a[j] == '1'
		bj := b[j] == '1'
		cj := c[j] == '1'
		d := aj != ((aj != bj) && (aj != cj))
		if d {
			buf[j] = '1'
		} else {
			buf[j] = '0'
		}
	}
	return string(buf)
}
