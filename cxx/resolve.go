package cxx

import (
	"log/slog"
	"strings"
)

// Resolve rewrites every type name in spelling to the name it refers to
// from s, qualified from the global scope.
//
// Identifiers are classified by what follows them: a name followed by "::"
// qualifies the next one, and the accumulated name is looked up when a
// template name (followed by "<") or a plain type name is reached. Lookup
// runs from s and then from the root. Found names replace the whole
// accumulated span; names that are not found, reserved words and members of
// dependent types (T::type, A<T>::type) are left as written.
func (s *Scope) Resolve(spelling string) string {
	r := resolver{scope: s, text: spelling}

	return r.run()
}

type resolver struct {
	scope *Scope
	text  string

	start  int      // offset of the accumulated name, -1 if none
	parts  []string // accumulated qualifiers
	global bool     // accumulated name started with "::"
}

func (r *resolver) reset() {
	r.start, r.parts, r.global = -1, r.parts[:0], false
}

func (r *resolver) run() string {
	r.start = -1

	for i := 0; i < len(r.text); {
		c := r.text[i]
		if !isIdentChar(c) {
			i++

			continue
		}

		j := i + 1
		for j < len(r.text) && isIdentChar(r.text[j]) {
			j++
		}

		word := r.text[i:j]

		if !isIdentStart(c) || IsKeyword(word) {
			r.reset()
			i = j

			continue
		}

		if !r.continues(i) {
			r.reset()

			if !r.begin(i) {
				i = j

				continue
			}
		}

		r.parts = append(r.parts, word)

		if next := r.after(j); strings.HasPrefix(next, "::") {
			i = j

			continue
		}

		i = r.replace(j)
	}

	return r.text
}

// continues reports whether the identifier at i extends the accumulated
// name, i.e. only "::" separates them.
func (r *resolver) continues(i int) bool {
	if r.start < 0 || len(r.parts) == 0 {
		return false
	}

	before := strings.TrimRight(r.text[:i], " \t")

	return strings.HasSuffix(before, "::")
}

// begin starts a new name at i. It reports false for members of dependent
// types, which cannot be looked up.
func (r *resolver) begin(i int) bool {
	before := strings.TrimRight(r.text[:i], " \t")
	if !strings.HasSuffix(before, "::") {
		r.start = i

		return true
	}

	lead := strings.TrimRight(before[:len(before)-2], " \t")
	if lead != "" {
		if c := lead[len(lead)-1]; isIdentChar(c) || c == '>' {
			return false
		}
	}

	r.start = len(before) - 2
	r.global = true

	return true
}

// after returns the text following offset j with leading blanks removed.
func (r *resolver) after(j int) string {
	return strings.TrimLeft(r.text[j:], " \t")
}

// replace looks up the accumulated name ending at end and substitutes it in
// place. It returns the offset scanning resumes from.
func (r *resolver) replace(end int) int {
	defer r.reset()

	name := strings.Join(r.parts, "::")

	var (
		n  Node
		ok bool
	)

	if r.global {
		n, ok = r.scope.RootScope().lookupBelow(name, isType)
	} else if n, ok = r.scope.lookup(name, isType); !ok {
		n, ok = r.scope.RootScope().lookup(name, isType)
	}

	if !ok {
		r.scope.tree.log.Trace(ErrLookupFailure.msg,
			slog.String("name", name),
			slog.String("scope", r.scope.String()),
		)

		return end
	}

	qn := n.QualifiedName()
	r.text = r.text[:r.start] + qn + r.text[end:]

	return r.start + len(qn)
}

// isType reports whether n can appear in a type spelling.
func isType(n Node) bool {
	switch n.(type) {
	case *Class, *TypeAlias, *ClassTemplate:
		return true
	default:
		return false
	}
}
