package annotation

import "sort"

// AttributeMethods is the canonical, sorted view of an annotation type's
// attributes (§4.1). Order is lexicographic by name so iteration is
// deterministic; lookup by name or index is O(1) via a precomputed map,
// mirroring the fieldMap/methodMap indexing the teacher's graph.Type uses
// for its Fields/Methods.
type AttributeMethods struct {
	attrs   []Attribute
	indexOf map[string]int
}

// NONE is the canonical empty AttributeMethods, shared for annotation types
// with no attributes (or none known, e.g. a null type).
var NONE = &AttributeMethods{indexOf: map[string]int{}}

// NewAttributeMethods builds an AttributeMethods from a provider-ordered
// attribute list, sorting it by name.
func NewAttributeMethods(attrs []Attribute) *AttributeMethods {
	if len(attrs) == 0 {
		return NONE
	}
	sorted := make([]Attribute, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	idx := make(map[string]int, len(sorted))
	for i, a := range sorted {
		idx[a.Name] = i
	}
	return &AttributeMethods{attrs: sorted, indexOf: idx}
}

// Size returns the number of attributes.
func (m *AttributeMethods) Size() int { return len(m.attrs) }

// Get returns the attribute at index, or the zero Attribute if out of range.
func (m *AttributeMethods) Get(index int) Attribute {
	if index < 0 || index >= len(m.attrs) {
		return Attribute{}
	}
	return m.attrs[index]
}

// GetByName returns the attribute named name and true, or false if absent.
func (m *AttributeMethods) GetByName(name string) (Attribute, bool) {
	if i, ok := m.indexOf[name]; ok {
		return m.attrs[i], true
	}
	return Attribute{}, false
}

// IndexOf returns the index of the attribute named name, or -1.
func (m *AttributeMethods) IndexOf(name string) int {
	if i, ok := m.indexOf[name]; ok {
		return i
	}
	return -1
}

// IsOnlyValueAttribute reports whether exactly one attribute exists and it
// is named "value".
func (m *AttributeMethods) IsOnlyValueAttribute() bool {
	return len(m.attrs) == 1 && m.attrs[0].Name == "value"
}

// HasDefaultValueMethod reports whether any attribute declares a default.
func (m *AttributeMethods) HasDefaultValueMethod() bool {
	for _, a := range m.attrs {
		if a.HasDefault {
			return true
		}
	}
	return false
}

// CanThrowTypeNotPresentException reports whether the attribute at index is
// class-typed or class-array-typed (§4.1), used to guard eager evaluation
// during merging.
func (m *AttributeMethods) CanThrowTypeNotPresentException(index int) bool {
	return m.Get(index).CanThrowTypeNotPresent()
}

// All returns the attributes in canonical (sorted) order. The returned slice
// must not be mutated by the caller.
func (m *AttributeMethods) All() []Attribute { return m.attrs }
