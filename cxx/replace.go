package cxx

import (
	"regexp"
	"strings"
)

// identifier matches a name that is not part of a longer identifier and is
// not a member named after "::".
var identifier = regexp.MustCompile(`(^|[^:A-Za-z0-9_])([A-Za-z_][A-Za-z0-9_]*)`)

// ReplaceNames substitutes values[i] for every whole-token occurrence of
// names[i] in spelling. All names are replaced in one pass, so a value is
// never itself rewritten. When an occurrence is followed by "<", the
// template arguments of its value are dropped first:
//
//	ReplaceNames("C<T>", []string{"C", "T"}, []string{"D<int>", "float"})
//
// yields "D<float>".
func ReplaceNames(spelling string, names, values []string) string {
	sub := make(map[string]string, len(names))

	for i, n := range names {
		if i < len(values) && !IsKeyword(n) {
			sub[n] = strings.TrimSpace(values[i])
		}
	}

	if len(sub) == 0 {
		return spelling
	}

	var (
		b    strings.Builder
		last int
	)

	for _, m := range identifier.FindAllStringSubmatchIndex(spelling, -1) {
		start, end := m[4], m[5]

		v, ok := sub[spelling[start:end]]
		if !ok || v == spelling[start:end] {
			continue
		}

		if end < len(spelling) && spelling[end] == '<' {
			v = RemoveTemplateArguments(v)
		}

		b.WriteString(spelling[last:start])
		b.WriteString(v)
		last = end
	}

	b.WriteString(spelling[last:])

	return b.String()
}

// RemoveTemplateArguments drops the template argument list of the last
// component of a qualified name:
//
//	RemoveTemplateArguments("A<std::string>::B<int, char>") == "A<std::string>::B"
func RemoveTemplateArguments(name string) string {
	depth, last := 0, 0

	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ':':
			if depth == 0 && i+1 < len(name) && name[i+1] == ':' {
				last = i + 2
				i++
			}
		}
	}

	if j := strings.IndexByte(name[last:], '<'); j >= 0 {
		return name[:last+j]
	}

	return name
}
