// Package registry implements AnnotationRegistries / AnnotationIndex (spec
// §4.7): an optional pre-query skip layer answering "can annotation X
// possibly be present on source S?" without introspection.
package registry

import "github.com/viant/anno/annotation"

// Registry answers, for one source element and annotation type name,
// whether it can positively confirm the annotation cannot be present
// anywhere in the closure that would be scanned for it. Returning
// skip=false means "unknown" or "might be present" — either way the
// resolver must fall back to introspection.
type Registry interface {
	CanSkip(source annotation.Element, annotationName string) (skip bool, err error)
}

// Registries is an ordered list of Registry consulted by
// RequiresIntrospection (§4.7).
type Registries struct {
	list []Registry
}

// NewRegistries builds a Registries from zero or more Registry
// implementations, consulted in the given order.
func NewRegistries(registries ...Registry) *Registries {
	return &Registries{list: registries}
}

// Register appends a Registry, consulted after all previously registered
// ones.
func (r *Registries) Register(reg Registry) { r.list = append(r.list, reg) }

// RequiresIntrospection returns true unless every registered registry
// answers "this source cannot contain that annotation" (§4.7). Registries
// are consulted in insertion order; the first unknown/positive answer
// short-circuits to true. With no registry registered, the default is true.
func (r *Registries) RequiresIntrospection(source annotation.Element, annotationName string) (bool, error) {
	if len(r.list) == 0 {
		return true, nil
	}
	for _, reg := range r.list {
		skip, err := reg.CanSkip(source, annotationName)
		if err != nil {
			return true, err
		}
		if !skip {
			return true, nil
		}
	}
	return false, nil
}
