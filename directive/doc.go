// Package directive reads the export directives embedded in C++ comments.
//
// A directive is a line comment of the form
//
//	// pxx :: expression, expression, ...
//
// where each expression is one of
//
//	export              mark the declaration for export
//	export("py_name")   export under a different name
//	hide                exclude the declaration
//	instance(["int", "3"])
//	instance("Sum3i", ["int", "3"])
//
// Expressions are parsed with the expr-lang parser; only string and array
// literals are accepted as arguments. Directives fold into a
// [cxx.ExportSettings] value from top to bottom, so a later hide undoes an
// earlier export.
package directive
