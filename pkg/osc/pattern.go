package osc

import "strings"

// Match reports whether the OSC 1.0 address pattern consumes the whole
// address. The grammar:
//
//	?        any single character except /
//	*        zero or more characters except /
//	[...]    one character from a set; a-z ranges; leading ! inverts;
//	         - at either extreme is literal
//	{a,b}    one of the alternative substrings
//	//       zero or more whole path segments (descendant-or-self)
//
// Three or more consecutive slashes are treated as //. A trailing //
// matches nothing.
func Match(pattern, address string) bool {
	return match(normalize(pattern), address)
}

// normalize collapses runs of three or more slashes down to two.
func normalize(pattern string) string {
	for strings.Contains(pattern, "///") {
		pattern = strings.ReplaceAll(pattern, "///", "//")
	}
	return pattern
}

func match(p, a string) bool {
	if strings.HasPrefix(p, "//") {
		sub := p[1:]
		if sub == "/" {
			// trailing // is invalid
			return false
		}
		for i := 0; i < len(a); i++ {
			if a[i] == '/' && match(sub, a[i:]) {
				return true
			}
		}
		return false
	}

	if p == "" {
		return a == ""
	}

	switch p[0] {
	case '?':
		if a == "" || a[0] == '/' {
			return false
		}
		return match(p[1:], a[1:])
	case '*':
		for i := 0; ; i++ {
			if match(p[1:], a[i:]) {
				return true
			}
			if i >= len(a) || a[i] == '/' {
				return false
			}
		}
	case '[':
		set, rest, ok := splitSet(p)
		if !ok || a == "" || a[0] == '/' {
			return false
		}
		if !set.contains(a[0]) {
			return false
		}
		return match(rest, a[1:])
	case '{':
		end := strings.IndexByte(p, '}')
		if end < 0 {
			return false
		}
		rest := p[end+1:]
		for _, alt := range strings.Split(p[1:end], ",") {
			if strings.HasPrefix(a, alt) && match(rest, a[len(alt):]) {
				return true
			}
		}
		return false
	default:
		if a == "" || p[0] != a[0] {
			return false
		}
		return match(p[1:], a[1:])
	}
}

type charSet struct {
	spec   string
	negate bool
}

// splitSet parses a [...] set at the start of p, returning the set and
// the remaining pattern. ok is false for an unterminated set.
func splitSet(p string) (charSet, string, bool) {
	end := strings.IndexByte(p, ']')
	if end < 0 {
		return charSet{}, "", false
	}
	spec := p[1:end]
	negate := false
	if strings.HasPrefix(spec, "!") {
		negate = true
		spec = spec[1:]
	}
	return charSet{spec: spec, negate: negate}, p[end+1:], true
}

func (s charSet) contains(c byte) bool {
	in := false
	for i := 0; i < len(s.spec); i++ {
		// a dash at either extreme is a literal dash
		if s.spec[i] == '-' && i > 0 && i+1 < len(s.spec) {
			if s.spec[i-1] <= c && c <= s.spec[i+1] {
				in = true
			}
			i++
			continue
		}
		if s.spec[i] == c {
			in = true
		}
	}
	if s.negate {
		return !in
	}
	return in
}
