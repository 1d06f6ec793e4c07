// Package frontend reads C++ source with the tree-sitter C++ grammar and
// registers its declarations in a [cxx.Tree].
//
// The walker understands namespaces, classes and structs with their access
// sections, free functions, methods and constructors, data members, type
// aliases and typedefs, class and function templates with their partial
// and explicit specializations, and explicit instantiations. Comments
// directly above a declaration are read for export directives.
//
// Preprocessing is not performed: macros are left unexpanded and include
// directives are not followed. Both branches of conditional sections are
// read.
package frontend
