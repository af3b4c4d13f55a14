package merged

import "github.com/viant/anno/annotation"

// MapOption toggles AsMap's serialization behavior (§4.6 asMap options).
type MapOption int

const (
	// AnnotationToMap recursively maps nested annotation values instead of
	// leaving them as *annotation.Instance / *Annotation values.
	AnnotationToMap MapOption = 1 << iota
	// ClassToString replaces class-kind attribute values with their
	// fully-qualified name string, avoiding premature class loading.
	ClassToString
)

func (o MapOption) has(flag MapOption) bool { return o&flag != 0 }

// AsMap serializes every attribute of a into a generic map keyed by
// attribute name, resolving aliases the same way the typed getters do.
// options controls how nested annotations and class-kind values are
// represented.
func (a *Annotation) AsMap(options MapOption) (map[string]any, error) {
	if a.isMissing {
		return map[string]any{}, nil
	}
	out := make(map[string]any, a.node.Attributes.Size())
	for _, attr := range a.node.Attributes.All() {
		r, err := a.resolve(attr.Name)
		if err != nil {
			return nil, err
		}
		v, err := a.mapValue(r.Value, attr.Kind, options)
		if err != nil {
			return nil, err
		}
		out[attr.Name] = v
	}
	return out, nil
}

func (a *Annotation) mapValue(v any, kind annotation.Kind, options MapOption) (any, error) {
	switch {
	case kind == annotation.KindClass && options.has(ClassToString):
		if s, ok := v.(string); ok {
			return s, nil
		}
		return v, nil
	case kind == annotation.KindAnnotation && options.has(AnnotationToMap):
		inst, ok := v.(*annotation.Instance)
		if !ok {
			return v, nil
		}
		nested, err := a.nestedAnnotation(inst)
		if err != nil {
			return nil, err
		}
		return nested.AsMap(options)
	case kind == annotation.KindAnnotationArray && options.has(AnnotationToMap):
		insts, ok := v.([]*annotation.Instance)
		if !ok {
			return v, nil
		}
		out := make([]map[string]any, 0, len(insts))
		for _, inst := range insts {
			nested, err := a.nestedAnnotation(inst)
			if err != nil {
				return nil, err
			}
			m, err := nested.AsMap(options)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return v, nil
	}
}

func (a *Annotation) nestedAnnotation(inst *annotation.Instance) (*Annotation, error) {
	mappings, err := a.owner.resolver.Mappings(inst.TypeName)
	if err != nil {
		return nil, err
	}
	return &Annotation{owner: a.owner, typeName: inst.TypeName, node: mappings.Root, rootInstance: inst, source: a.source}, nil
}
