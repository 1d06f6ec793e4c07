// Package bind turns the exported declarations of a [cxx.Tree] into
// binding descriptors and renders them as pybind11 module source.
//
// [Describe] walks the tree once, after instantiation, and resolves every
// type spelling to global scope. The resulting [Module] can be encoded as
// JSON or YAML for external generators, or passed to a [Writer] together
// with [Settings] read from a TOML file.
package bind
