package mapping

import (
	"reflect"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
)

// Resolved is the outcome of resolving one attribute through the alias and
// mirror tables (§4.6).
type Resolved struct {
	Value      any
	Found      bool // true if some mapping in the equivalence class carried a non-default value
	HasDefault bool
	Default    any
}

// RawValue resolves attribute name as seen through mapping m, given
// rootInstance — the concrete, per-occurrence instance backing the root of
// m's tree. This implements §4.6 steps 1-5: locate the attribute, consult
// the precomputed equivalence classes to find every attribute that must
// carry the same effective value, detect mirror/convention conflicts, and
// fall back to the shared default.
func (m *Mapping) RawValue(rootInstance *annotation.Instance, name string) (Resolved, error) {
	idx := m.Attributes.IndexOf(name)
	if idx < 0 {
		return Resolved{}, errkind.Newf(errkind.UnknownAttribute, m.AnnotationType, name)
	}
	attr := m.Attributes.Get(idx)

	explicitValue, explicitFound, conflict := m.classValue(rootInstance, true, m.explicitClass[idx])
	if conflict != nil {
		return Resolved{}, conflict
	}
	conventionValue, conventionFound, convConflict := m.classValue(rootInstance, false, m.conventionClass[idx])
	if convConflict != nil {
		return Resolved{}, convConflict
	}

	if explicitFound && conventionFound && !valuesEqual(explicitValue, conventionValue) {
		return Resolved{}, errkind.Conflict(errkind.ConventionConflict, m.AnnotationType, name, name)
	}

	switch {
	case explicitFound:
		return Resolved{Value: explicitValue, Found: true, HasDefault: attr.HasDefault, Default: attr.Default}, nil
	case conventionFound:
		return Resolved{Value: conventionValue, Found: true, HasDefault: attr.HasDefault, Default: attr.Default}, nil
	case attr.HasDefault:
		return Resolved{Value: attr.Default, Found: false, HasDefault: true, Default: attr.Default}, nil
	default:
		return Resolved{}, errkind.Newf(errkind.MissingRequiredAttribute, m.AnnotationType, name)
	}
}

// classValue scans every (mapping, attribute) member of the given
// equivalence class id and returns the single non-default value carried by
// any of them, or conflict != nil if two members disagree (§4.6 step 4,
// mirror-conflict / the cross-mapping generalization of it).
func (m *Mapping) classValue(rootInstance *annotation.Instance, explicit bool, classID int) (value any, found bool, conflict error) {
	t := m.tree
	uf := t.convention
	if explicit {
		uf = t.explicit
	}
	var firstAttr, secondAttr string
	for _, candidate := range t.list {
		for j := 0; j < candidate.Attributes.Size(); j++ {
			if uf.find(globalID(candidate.index, j)) != classID {
				continue
			}
			attr := candidate.Attributes.Get(j)
			v, present := candidate.declaredValue(rootInstance, j)
			if !present {
				continue
			}
			if attr.HasDefault && valuesEqual(v, attr.Default) {
				continue
			}
			if !found {
				value, found = v, true
				firstAttr = candidate.AnnotationType + "." + attr.Name
				continue
			}
			if !valuesEqual(value, v) {
				secondAttr = candidate.AnnotationType + "." + attr.Name
				return nil, false, errkind.Conflict(errkind.MirrorConflict, m.AnnotationType, firstAttr, secondAttr)
			}
		}
	}
	return value, found, nil
}

// declaredValue returns the concrete value attribute index j was declared
// with on this mapping: the per-occurrence rootInstance for the tree's root
// mapping, or the static MetaInstance for any meta-annotation mapping.
func (m *Mapping) declaredValue(rootInstance *annotation.Instance, j int) (any, bool) {
	name := m.Attributes.Get(j).Name
	if m.Depth == 0 {
		return rootInstance.Value(name)
	}
	return m.MetaInstance.Value(name)
}

func valuesEqual(a, b any) bool { return reflect.DeepEqual(a, b) }
