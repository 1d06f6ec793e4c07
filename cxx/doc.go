// Package cxx models the declarations of a C++ translation unit: a tree of
// scopes owning named declarations, lookup of qualified and unqualified
// names, rewriting of type spellings into names valid at global scope, and
// instantiation of class and function templates from requested arguments.
//
// All scopes and declarations of a translation unit live in one [Tree].
// Relations between them (parent scope, owning scope, originating template)
// are indices into the tree, so nodes never hold pointers to each other.
//
// Registration and instantiation are separate phases. A frontend adds every
// declaration with [Scope.Add], then calls [Tree.Instantiate] once the whole
// unit is known, so that every specialization exists before any instance is
// generated. Type spellings are resolved lazily with [Scope.Resolve].
//
// A Tree is not safe for concurrent use.
package cxx
