// Package repeatable implements RepeatableContainers (spec §4.3): policy for
// unwrapping a "container" annotation into its repeated children.
package repeatable

import (
	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
)

// Containers encodes how container annotations map to their repeated child
// type. The zero value behaves like none().
type Containers struct {
	pairs    map[string]string // container type name -> repeatable type name
	standard bool              // derive container/repeatable pairs from the provider's @Repeatable marker
	provider annotation.IntrospectionProvider
}

// None returns a policy with repeatable-container unwrapping disabled.
func None() Containers { return Containers{} }

// StandardRepeatables derives container/repeatable pairs from the
// provider's own `@Repeatable` meta-annotation mechanism: the provider is
// asked, for a candidate container type, whether it wraps a repeatable type.
// provider must implement RepeatableSource (declared below); if it
// does not, Of-style pairs registered via And are still honored but no
// implicit standard-repeatable detection occurs.
func StandardRepeatables(provider annotation.IntrospectionProvider) Containers {
	return Containers{standard: true, provider: provider}
}

// Of registers an explicit container/repeatable pair, for callers whose
// repeatable annotations predate (or don't use) the provider's own
// `@Repeatable` mechanism.
//
// Required invariants (§4.3): the container type must declare a single
// attribute named "value" whose type is a one-dimensional array of the
// repeatable type; if container is empty, repeatable must itself carry a
// language-level @Repeatable pointer whose target matches, checked via
// RepeatableSource when the provider implements it.
func Of(provider annotation.IntrospectionProvider, container, repeatableType string) (Containers, error) {
	if repeatableType == "" {
		return Containers{}, errkind.Newf(errkind.NullArgument, "", "repeatable")
	}
	if container == "" {
		rs, ok := provider.(RepeatableSource)
		if !ok {
			return Containers{}, errkind.Newf(errkind.ContainerMisconfigured, repeatableType, "")
		}
		target, ok, err := rs.RepeatableContainerOf(repeatableType)
		if err != nil {
			return Containers{}, errkind.Wrap(repeatableType, err)
		}
		if !ok {
			return Containers{}, errkind.Newf(errkind.ContainerMisconfigured, repeatableType, "")
		}
		container = target
	}
	attrs, err := provider.Attributes(container)
	if err != nil {
		return Containers{}, errkind.Wrap(container, err)
	}
	am := annotation.NewAttributeMethods(attrs)
	if !am.IsOnlyValueAttribute() {
		return Containers{}, errkind.Newf(errkind.ContainerMisconfigured, container, "value")
	}
	valueAttr, _ := am.GetByName("value")
	if valueAttr.Kind != annotation.KindAnnotationArray || valueAttr.NestedType != repeatableType {
		return Containers{}, errkind.Newf(errkind.ContainerMisconfigured, container, "value")
	}
	return Containers{pairs: map[string]string{container: repeatableType}}, nil
}

// And composes this policy with another; both are consulted, this one
// first.
func (c Containers) And(other Containers) Containers {
	merged := Containers{standard: c.standard || other.standard}
	if c.provider != nil {
		merged.provider = c.provider
	} else {
		merged.provider = other.provider
	}
	merged.pairs = map[string]string{}
	for k, v := range c.pairs {
		merged.pairs[k] = v
	}
	for k, v := range other.pairs {
		if _, exists := merged.pairs[k]; !exists {
			merged.pairs[k] = v
		}
	}
	return merged
}

// RepeatableOf returns the repeated child type for a container type name,
// and whether containerType is in fact a registered (or standard) container.
func (c Containers) RepeatableOf(containerType string) (string, bool) {
	if c.pairs != nil {
		if r, ok := c.pairs[containerType]; ok {
			return r, true
		}
	}
	if c.standard && c.provider != nil {
		if rs, ok := c.provider.(RepeatableSource); ok {
			if repeatableType, ok, err := rs.RepeatableOfContainer(containerType); err == nil && ok {
				return repeatableType, true
			}
		}
	}
	return "", false
}

// RepeatableSource is implemented by providers that can answer standard
// `@Repeatable` questions without an explicit Of(...) registration.
type RepeatableSource interface {
	// RepeatableOfContainer returns the repeatable type a container type
	// wraps (reading the container's value attribute / own metadata).
	RepeatableOfContainer(containerType string) (repeatableType string, ok bool, err error)
	// RepeatableContainerOf returns the container type a repeatable type
	// declares via its own `@Repeatable(ContainerType.class)` pointer.
	RepeatableContainerOf(repeatableType string) (containerType string, ok bool, err error)
}
