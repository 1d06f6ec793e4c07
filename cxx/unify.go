package cxx

import "strings"

// token is a lexical unit of a type spelling: an identifier or number, the
// scope operator, or a single punctuation character.
type token struct {
	text       string
	start, end int
}

func (t token) word() bool { return isIdentChar(t.text[0]) }

func tokenize(s string) []token {
	var out []token

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentChar(c):
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}

			out = append(out, token{s[i:j], i, j})
			i = j
		case c == ':' && i+1 < len(s) && s[i+1] == ':':
			out = append(out, token{"::", i, i + 2})
			i += 2
		default:
			out = append(out, token{s[i : i+1], i, i + 1})
			i++
		}
	}

	return out
}

func joinTokens(toks []token) string {
	var b strings.Builder

	for i, t := range toks {
		if i > 0 && t.word() && toks[i-1].word() {
			b.WriteByte(' ')
		}

		b.WriteString(t.text)
	}

	return b.String()
}

// normalize removes insignificant whitespace from a spelling.
func normalize(s string) string { return joinTokens(tokenize(s)) }

// balanced reports whether toks form a complete argument: brackets match and
// no comma appears outside of them.
func balanced(toks []token) bool {
	depth := 0

	for _, t := range toks {
		switch t.text {
		case "<", "(", "[":
			depth++
		case ">", ")", "]":
			if depth--; depth < 0 {
				return false
			}
		case ",":
			if depth == 0 {
				return false
			}
		}
	}

	return depth == 0
}

// unifier matches a pattern spelling containing variables against a
// concrete spelling. A variable binds a balanced run of tokens; repeated
// occurrences must bind the same normalized text.
type unifier struct {
	vars   map[string]int
	bound  []string
	values []string

	src  string
	p, q []token
	slot []int
}

func newUnifier(vars []string) *unifier {
	u := &unifier{
		vars:   make(map[string]int, len(vars)),
		bound:  make([]string, len(vars)),
		values: make([]string, len(vars)),
	}

	for i, v := range vars {
		u.vars[v] = i
	}

	return u
}

// unify reports whether pattern matches s, and how specific the pattern is:
// the number of literal tokens plus the number of repeated variables.
func (u *unifier) unify(pattern, s string) (score int, ok bool) {
	u.src = s
	u.p, u.q = tokenize(pattern), tokenize(s)
	u.slot = make([]int, len(u.p))

	seen := make(map[int]bool)

	for i, t := range u.p {
		u.slot[i] = -1

		// names following the scope operator are members, not parameters
		if !t.word() || (i > 0 && u.p[i-1].text == "::") {
			score++

			continue
		}

		v, isVar := u.vars[t.text]
		switch {
		case !isVar:
			score++
		case seen[v]:
			u.slot[i] = v
			score++
		default:
			u.slot[i] = v
			seen[v] = true
		}
	}

	if !u.match(0, 0) {
		return 0, false
	}

	return score, true
}

func (u *unifier) match(pi, qi int) bool {
	if pi == len(u.p) {
		return qi == len(u.q)
	}

	v := u.slot[pi]
	if v < 0 {
		return qi < len(u.q) && u.q[qi].text == u.p[pi].text && u.match(pi+1, qi+1)
	}

	for end := qi + 1; end <= len(u.q); end++ {
		run := u.q[qi:end]
		if !balanced(run) {
			continue
		}

		text := joinTokens(run)

		if u.bound[v] != "" {
			if text == u.bound[v] && u.match(pi+1, end) {
				return true
			}

			continue
		}

		u.bound[v] = text
		u.values[v] = u.src[run[0].start:run[len(run)-1].end]

		if u.match(pi+1, end) {
			return true
		}

		u.bound[v], u.values[v] = "", ""
	}

	return false
}

// complete reports whether every variable was bound.
func (u *unifier) complete() bool {
	for _, b := range u.bound {
		if b == "" {
			return false
		}
	}

	return true
}
