package merged

import (
	"fmt"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
	"github.com/viant/anno/annotation/mapping"
	"github.com/viant/anno/annotation/synth"
)

// Annotation is a handle to a merged annotation of one type (MergedAnnotation
// in spec §3/§4.6): the source element, aggregate index, depth, a
// back-reference to its mapping, and the raw attribute values of the
// declaring annotation on the chain. Never mutable.
type Annotation struct {
	owner          *MergedAnnotations
	isMissing      bool
	typeName       string
	node           *mapping.Mapping
	rootInstance   *annotation.Instance
	source         annotation.Element
	depth          int
	aggregateIndex int
}

// IsPresent reports whether this handle names an actual match (as opposed
// to Missing).
func (a *Annotation) IsPresent() bool { return a != nil && !a.isMissing }

// TypeName returns the annotation type this handle represents.
func (a *Annotation) TypeName() string { return a.typeName }

// Depth returns the distance from the root annotation type (0 = root).
func (a *Annotation) Depth() int { return a.depth }

// AggregateIndex returns the scanner aggregate this match was found in.
func (a *Annotation) AggregateIndex() int { return a.aggregateIndex }

// Source returns the scanned element (class, interface, method, or
// constructor layer) this match was declared on.
func (a *Annotation) Source() annotation.Element { return a.source }

func (a *Annotation) resolve(name string) (mapping.Resolved, error) {
	if a.isMissing {
		return mapping.Resolved{}, errkind.Newf(errkind.MissingRequiredAttribute, a.typeName, name)
	}
	return a.node.RawValue(a.rootInstance, name)
}

// GetDefaultValue returns the attribute's declared default and whether it
// has one, without performing alias resolution.
func (a *Annotation) GetDefaultValue(name string) (any, bool) {
	if a.isMissing {
		return nil, false
	}
	idx := a.node.Attributes.IndexOf(name)
	if idx < 0 {
		return nil, false
	}
	attr := a.node.Attributes.Get(idx)
	return attr.Default, attr.HasDefault
}

// HasDefaultValue reports whether name declares a default.
func (a *Annotation) HasDefaultValue(name string) bool {
	_, ok := a.GetDefaultValue(name)
	return ok
}

// HasNonDefaultValue reports whether name resolves to an explicitly
// supplied, non-default value anywhere in its alias/mirror class.
func (a *Annotation) HasNonDefaultValue(name string) bool {
	r, err := a.resolve(name)
	return err == nil && r.Found
}

// GetString returns the resolved value of a string attribute.
func (a *Annotation) GetString(name string) (string, error) { return asString(a.resolve(name)) }

// GetStringSlice returns the resolved value of a string[] attribute.
func (a *Annotation) GetStringSlice(name string) ([]string, error) {
	r, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	v, ok := r.Value.([]string)
	if !ok {
		return nil, mismatch(a.typeName, name, "[]string", r.Value)
	}
	return v, nil
}

// GetBool returns the resolved value of a bool attribute.
func (a *Annotation) GetBool(name string) (bool, error) {
	r, err := a.resolve(name)
	if err != nil {
		return false, err
	}
	v, ok := r.Value.(bool)
	if !ok {
		return false, mismatch(a.typeName, name, "bool", r.Value)
	}
	return v, nil
}

// GetInt returns the resolved value of an int attribute.
func (a *Annotation) GetInt(name string) (int, error) {
	r, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	v, ok := r.Value.(int)
	if !ok {
		return 0, mismatch(a.typeName, name, "int", r.Value)
	}
	return v, nil
}

// GetInt64 returns the resolved value of an int64 attribute.
func (a *Annotation) GetInt64(name string) (int64, error) {
	r, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	v, ok := r.Value.(int64)
	if !ok {
		return 0, mismatch(a.typeName, name, "int64", r.Value)
	}
	return v, nil
}

// GetFloat64 returns the resolved value of a float64 attribute.
func (a *Annotation) GetFloat64(name string) (float64, error) {
	r, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	v, ok := r.Value.(float64)
	if !ok {
		return 0, mismatch(a.typeName, name, "float64", r.Value)
	}
	return v, nil
}

// GetClassName returns the resolved value of a class-typed attribute as its
// qualified name (the core never loads the class itself, §1 non-goals).
func (a *Annotation) GetClassName(name string) (string, error) { return asString(a.resolve(name)) }

// GetEnum returns the resolved value of an enum-typed attribute as its
// constant name.
func (a *Annotation) GetEnum(name string) (string, error) { return asString(a.resolve(name)) }

// GetAnnotation returns a nested annotation attribute as its own merged
// Annotation, so alias resolution continues to apply within the nested
// value. The nested value's own AnnotationTypeMappings is fetched from the
// same process-wide cache used for the top-level query.
func (a *Annotation) GetAnnotation(name string) (*Annotation, error) {
	r, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	nested, ok := r.Value.(*annotation.Instance)
	if !ok {
		return nil, mismatch(a.typeName, name, "annotation", r.Value)
	}
	nestedMappings, err := a.owner.resolver.Mappings(nested.TypeName)
	if err != nil {
		return nil, err
	}
	return &Annotation{
		owner:        a.owner,
		typeName:     nested.TypeName,
		node:         nestedMappings.Root,
		rootInstance: nested,
		source:       a.source,
		depth:        0,
	}, nil
}

// GetAnnotationSlice returns a nested annotation-array attribute as its own
// merged Annotations, one per element, in declared order.
func (a *Annotation) GetAnnotationSlice(name string) ([]*Annotation, error) {
	r, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	nested, ok := r.Value.([]*annotation.Instance)
	if !ok {
		return nil, mismatch(a.typeName, name, "[]annotation", r.Value)
	}
	out := make([]*Annotation, 0, len(nested))
	for _, n := range nested {
		mappings, err := a.owner.resolver.Mappings(n.TypeName)
		if err != nil {
			return nil, err
		}
		out = append(out, &Annotation{owner: a.owner, typeName: n.TypeName, node: mappings.Root, rootInstance: n, source: a.source})
	}
	return out, nil
}

// AttributeNames returns every attribute this annotation type declares, used
// by the synth package to build a full snapshot.
func (a *Annotation) AttributeNames() []string {
	if a.isMissing {
		return nil
	}
	all := a.node.Attributes.All()
	names := make([]string, len(all))
	for i, attr := range all {
		names[i] = attr.Name
	}
	return names
}

// ResolvedValue is the synth.Source hook: the fully alias-resolved value of
// name, for building a Synthesized snapshot.
func (a *Annotation) ResolvedValue(name string) (any, error) {
	r, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return r.Value, nil
}

// Synthesize hands this merged view to the synthesis boundary (§4.8),
// returning a snapshot indistinguishable from a natively obtained instance.
func (a *Annotation) Synthesize() (*synth.Synthesized, error) {
	if a.isMissing {
		return nil, errkind.Newf(errkind.UnknownAttribute, a.typeName, "")
	}
	return synth.Synthesize(a)
}

func asString(r mapping.Resolved, err error) (string, error) {
	if err != nil {
		return "", err
	}
	v, ok := r.Value.(string)
	if !ok {
		return "", errkind.Newf(errkind.AttributeTypeMismatch, "", "")
	}
	return v, nil
}

func mismatch(typeName, attr, want string, got any) error {
	return errkind.Conflict(errkind.AttributeTypeMismatch, typeName, attr, fmt.Sprintf("wanted %s, got %T", want, got))
}
