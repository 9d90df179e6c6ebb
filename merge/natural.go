package merge

// NaturalLess reports whether a sorts before b in natural order: runs of
// digits compare by numeric value ("item2" < "item10"), other bytes compare
// bytewise. When two numbers are equal the one with fewer leading zeros
// comes first; remaining ties fall back to plain string comparison.
func NaturalLess(a, b string) bool {
	if c := naturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	zeros := 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na, za := trimZeros(a[si:i])
			nb, zb := trimZeros(b[sj:j])
			if len(na) != len(nb) {
				return cmpInt(len(na), len(nb))
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			if zeros == 0 && za != zb {
				zeros = cmpInt(za, zb)
			}
			continue
		}
		if ca != cb {
			return cmpInt(int(ca), int(cb))
		}
		i++
		j++
	}
	if rest := cmpInt(len(a)-i, len(b)-j); rest != 0 {
		return rest
	}
	return zeros
}

func trimZeros(s string) (string, int) {
	n := 0
	for n < len(s)-1 && s[n] == '0' {
		n++
	}
	return s[n:], n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
