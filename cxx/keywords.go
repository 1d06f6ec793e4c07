package cxx

// keywords are the reserved words of C++ (including the alternative
// operator tokens and TS keywords). Identifiers in this set are never
// resolved or substituted.
var keywords = map[string]struct{}{
	"alignas": {}, "alignof": {}, "and": {}, "and_eq": {}, "asm": {},
	"atomic_cancel": {}, "atomic_commit": {}, "atomic_noexcept": {},
	"auto": {}, "bitand": {}, "bitor": {}, "bool": {}, "break": {},
	"case": {}, "catch": {}, "char": {}, "char8_t": {}, "char16_t": {},
	"char32_t": {}, "class": {}, "compl": {}, "concept": {}, "const": {},
	"consteval": {}, "constexpr": {}, "constinit": {}, "const_cast": {},
	"continue": {}, "co_await": {}, "co_return": {}, "co_yield": {},
	"decltype": {}, "default": {}, "delete": {}, "do": {}, "double": {},
	"dynamic_cast": {}, "else": {}, "enum": {}, "explicit": {},
	"export": {}, "extern": {}, "false": {}, "float": {}, "for": {},
	"friend": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "mutable": {}, "namespace": {}, "new": {}, "noexcept": {},
	"not": {}, "not_eq": {}, "nullptr": {}, "operator": {}, "or": {},
	"or_eq": {}, "private": {}, "protected": {}, "public": {},
	"reflexpr": {}, "register": {}, "reinterpret_cast": {}, "requires": {},
	"return": {}, "short": {}, "signed": {}, "sizeof": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "struct": {}, "switch": {},
	"synchronized": {}, "template": {}, "this": {}, "thread_local": {},
	"throw": {}, "true": {}, "try": {}, "typedef": {}, "typeid": {},
	"typename": {}, "union": {}, "unsigned": {}, "using": {},
	"virtual": {}, "void": {}, "volatile": {}, "wchar_t": {}, "while": {},
	"xor": {}, "xor_eq": {},
}

// IsKeyword reports whether s is a reserved C++ word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isIdentStart(c byte) bool {
	return isIdentChar(c) && (c < '0' || c > '9')
}
