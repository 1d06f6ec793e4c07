package cxx

import (
	"slices"
	"strings"
)

// InstanceRequest asks for a template to be instantiated with Args. Name is
// the exported name of the instance; empty means the template's own name.
type InstanceRequest struct {
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Args []string `json:"args"           yaml:"args"`
}

// Spelling returns base<a1,...,aN> with every argument trimmed.
func (r InstanceRequest) Spelling(base string) string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = strings.TrimSpace(a)
	}

	return base + "<" + strings.Join(args, ",") + ">"
}

// ExportSettings is the export intent accumulated for one declaration.
type ExportSettings struct {
	Exported   bool              `json:"exported"              yaml:"exported"`
	ExportName string            `json:"export_name,omitempty" yaml:"export_name,omitempty"`
	Instances  []InstanceRequest `json:"instances,omitempty"   yaml:"instances,omitempty"`
}

// Inherit returns the settings a child declaration starts from: a copy of
// s without the export name, which only renames the declaration it was
// written on.
func (s ExportSettings) Inherit() ExportSettings {
	c := s.clone()
	c.ExportName = ""

	return c
}

// Export returns s marked as exported.
func (s ExportSettings) Export() ExportSettings {
	s.Exported = true

	return s
}

// Hide returns s marked as not exported.
func (s ExportSettings) Hide() ExportSettings {
	s.Exported = false

	return s
}

// Rename returns s with the given export name.
func (s ExportSettings) Rename(name string) ExportSettings {
	s.ExportName = name

	return s
}

// Instance returns s with one more instance request appended.
func (s ExportSettings) Instance(name string, args ...string) ExportSettings {
	s.Instances = append(slices.Clip(s.Instances), InstanceRequest{
		Name: name,
		Args: slices.Clone(args),
	})

	return s
}

func (s ExportSettings) clone() ExportSettings {
	c := s
	if s.Instances == nil {
		return c
	}

	c.Instances = make([]InstanceRequest, len(s.Instances))

	for i, r := range s.Instances {
		c.Instances[i] = InstanceRequest{Name: r.Name, Args: slices.Clone(r.Args)}
	}

	return c
}

// absorb folds the settings of a redeclaration into s.
func (s ExportSettings) absorb(o ExportSettings) ExportSettings {
	s.Exported = s.Exported || o.Exported

	if s.ExportName == "" {
		s.ExportName = o.ExportName
	}

	s = s.clone()
	s.Instances = append(s.Instances, o.clone().Instances...)

	return s
}
