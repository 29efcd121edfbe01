package rpm

import "strings"

// compareEVR implements the standard RPM EVR comparator (spec §4.2
// compare()). This is a direct adaptation of the rpmvercmp algorithm, ported
// from the teacher's internal/rpmver package, which itself ports the
// upstream rpm project's rpmio/rpmvercmp.cc.
//
//	 1: a is newer than b
//	 0: a and b are the same version
//	-1: b is newer than a
func compareEVR(aEpoch uint64, aVersion, aRelease string, bEpoch uint64, bVersion, bRelease string) int {
	if aEpoch != bEpoch {
		if aEpoch > bEpoch {
			return 1
		}
		return -1
	}
	if c := rpmvercmp(aVersion, bVersion); c != 0 {
		return c
	}
	return rpmvercmp(aRelease, bRelease)
}

func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}

	for {
		a = strings.TrimLeftFunc(a, rpmSeparatorTrim)
		b = strings.TrimLeftFunc(b, rpmSeparatorTrim)

		switch {
		case strings.HasPrefix(a, "~") && strings.HasPrefix(b, "~"):
			a = a[1:]
			b = b[1:]
		case strings.HasPrefix(a, "~"):
			return -1
		case strings.HasPrefix(b, "~"):
			return 1
		}

		switch {
		case strings.HasPrefix(a, "^") && strings.HasPrefix(b, "^"):
			a = a[1:]
			b = b[1:]
		case a == "" && strings.HasPrefix(b, "^"):
			return -1
		case strings.HasPrefix(a, "^") && b == "":
			return 1
		case strings.HasPrefix(a, "^"):
			return -1
		case strings.HasPrefix(b, "^"):
			return 1
		}

		if a == "" || b == "" {
			break
		}

		r, _ := utf8DecodeRuneInString(a)
		isnum := isDigit(r)
		var aSeg, bSeg string
		if isnum {
			aSeg, a = splitFunc(a, isDigit)
			bSeg, b = splitFunc(b, isDigit)
		} else {
			aSeg, a = splitFunc(a, isAlpha)
			bSeg, b = splitFunc(b, isAlpha)
		}

		switch {
		case aSeg == "":
			return -1
		case bSeg == "" && !isnum:
			return -1
		case bSeg == "" && isnum:
			return 1
		}

		if isnum {
			aSeg = strings.TrimLeft(aSeg, "0")
			bSeg = strings.TrimLeft(bSeg, "0")
			switch {
			case len(aSeg) > len(bSeg):
				return 1
			case len(aSeg) < len(bSeg):
				return -1
			}
		}

		if c := strings.Compare(aSeg, bSeg); c != 0 {
			return c
		}
	}

	switch {
	case a == "" && b == "":
		return 0
	case a != "":
		return 1
	default:
		return -1
	}
}

func rpmSeparatorTrim(r rune) bool {
	return !isAlnum(r) && r != '~' && r != '^'
}

func splitFunc(s string, f func(rune) bool) (string, string) {
	i := strings.IndexFunc(s, func(r rune) bool { return !f(r) })
	if i == -1 {
		return s, ""
	}
	return s[:i], s[i:]
}

func utf8DecodeRuneInString(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func isAlpha(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }
