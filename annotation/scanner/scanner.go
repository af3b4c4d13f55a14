// Package scanner implements AnnotationsScanner (spec §4.5): given a source
// element and a SearchStrategy, yields declared-annotation aggregates in a
// deterministic order across the class/interface/superclass graph.
package scanner

import (
	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
)

// Strategy selects how far, and which way, the scanner walks the type
// hierarchy from the source element (§4.5 table).
type Strategy int

const (
	// Direct considers only the source element itself.
	Direct Strategy = iota
	// InheritedAnnotations adds superclass-declared annotations that carry
	// the language's own inheritance marker; methods are never inherited.
	InheritedAnnotations
	// SuperClass walks the superclass chain (interfaces skipped for
	// classes); for methods, walks override targets in superclasses.
	SuperClass
	// Exhaustive walks the full class/interface closure, breadth-first.
	Exhaustive
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "DIRECT"
	case InheritedAnnotations:
		return "INHERITED_ANNOTATIONS"
	case SuperClass:
		return "SUPER_CLASS"
	case Exhaustive:
		return "EXHAUSTIVE"
	default:
		return "UNKNOWN"
	}
}

// Aggregate is one reflective layer's declared annotations, paired with the
// zero-based aggregate index ascending as the search widens (§4.5).
type Aggregate struct {
	Index       int
	Element     annotation.Element
	Annotations []*annotation.Instance
}

// Scan enumerates aggregates for source under strategy, using provider for
// every hierarchy/introspection question.
func Scan(provider annotation.IntrospectionProvider, strategy Strategy, source annotation.Element) ([]Aggregate, error) {
	if source == nil {
		return nil, errkind.Newf(errkind.NullArgument, "", "source")
	}
	if provider.IsMethod(source) {
		return scanMethod(provider, strategy, source)
	}
	return scanClass(provider, strategy, source)
}

func declared(provider annotation.IntrospectionProvider, element annotation.Element, index int) (Aggregate, error) {
	anns, err := provider.DeclaredAnnotations(element)
	if err != nil {
		name, _ := provider.TypeName(element)
		return Aggregate{}, errkind.Wrap(name, err)
	}
	return Aggregate{Index: index, Element: element, Annotations: anns}, nil
}

func scanClass(provider annotation.IntrospectionProvider, strategy Strategy, source annotation.Element) ([]Aggregate, error) {
	first, err := declared(provider, source, 0)
	if err != nil {
		return nil, err
	}
	aggregates := []Aggregate{first}

	switch strategy {
	case Direct:
		return aggregates, nil

	case InheritedAnnotations:
		typeName, err := provider.TypeName(source)
		if err != nil {
			return nil, errkind.Wrap("", err)
		}
		visited := map[string]bool{typeName: true}
		current := typeName
		for {
			superName, ok, err := provider.Superclass(current)
			if err != nil {
				return nil, errkind.Wrap(current, err)
			}
			if !ok || visited[superName] {
				break
			}
			visited[superName] = true
			agg, err := inheritedOnly(provider, superName, len(aggregates))
			if err != nil {
				return nil, err
			}
			if len(agg.Annotations) > 0 {
				aggregates = append(aggregates, agg)
			}
			current = superName
		}
		return aggregates, nil

	case SuperClass:
		typeName, err := provider.TypeName(source)
		if err != nil {
			return nil, errkind.Wrap("", err)
		}
		visited := map[string]bool{typeName: true}
		current := typeName
		for {
			superName, ok, err := provider.Superclass(current)
			if err != nil {
				return nil, errkind.Wrap(current, err)
			}
			if !ok || visited[superName] {
				break
			}
			visited[superName] = true
			agg, err := declared(provider, superName, len(aggregates))
			if err != nil {
				return nil, err
			}
			aggregates = append(aggregates, agg)
			current = superName
		}
		return aggregates, nil

	case Exhaustive:
		typeName, err := provider.TypeName(source)
		if err != nil {
			return nil, errkind.Wrap("", err)
		}
		order, err := closureOrder(provider, typeName)
		if err != nil {
			return nil, err
		}
		aggregates = aggregates[:0]
		for i, t := range order {
			agg, err := declared(provider, t, i)
			if err != nil {
				return nil, err
			}
			aggregates = append(aggregates, agg)
		}
		return aggregates, nil
	}
	return aggregates, nil
}

// inheritedOnly returns superName's declared annotations filtered to those
// marked inheritable by the language (IsInherited).
func inheritedOnly(provider annotation.IntrospectionProvider, superName string, index int) (Aggregate, error) {
	anns, err := provider.DeclaredAnnotations(superName)
	if err != nil {
		return Aggregate{}, errkind.Wrap(superName, err)
	}
	var kept []*annotation.Instance
	for _, a := range anns {
		ok, err := provider.IsInherited(a.TypeName)
		if err != nil {
			return Aggregate{}, errkind.Wrap(a.TypeName, err)
		}
		if ok {
			kept = append(kept, a)
		}
	}
	return Aggregate{Index: index, Element: superName, Annotations: kept}, nil
}

// closureOrder computes EXHAUSTIVE's breadth-first class/interface closure:
// the type itself, then its interfaces, then its superclass and that
// superclass's interfaces, and so on — each type visited at most once.
func closureOrder(provider annotation.IntrospectionProvider, root string) ([]string, error) {
	visited := map[string]bool{root: true}
	order := []string{root}
	queue := []string{root}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		ifaces, err := provider.Interfaces(t)
		if err != nil {
			return nil, errkind.Wrap(t, err)
		}
		for _, i := range ifaces {
			if visited[i] {
				continue
			}
			visited[i] = true
			order = append(order, i)
			queue = append(queue, i)
		}
		super, ok, err := provider.Superclass(t)
		if err != nil {
			return nil, errkind.Wrap(t, err)
		}
		if ok && !visited[super] {
			visited[super] = true
			order = append(order, super)
			queue = append(queue, super)
		}
	}
	return order, nil
}

func scanMethod(provider annotation.IntrospectionProvider, strategy Strategy, source annotation.Element) ([]Aggregate, error) {
	first, err := declared(provider, source, 0)
	if err != nil {
		return nil, err
	}
	aggregates := []Aggregate{first}

	switch strategy {
	case Direct, InheritedAnnotations:
		// Methods are never inherited in the language sense (§4.5 table).
		return aggregates, nil

	case SuperClass:
		owner, err := provider.TypeName(source)
		if err != nil {
			return nil, errkind.Wrap("", err)
		}
		visitedType := map[string]bool{owner: true}
		current := owner
		for {
			superName, ok, err := provider.Superclass(current)
			if err != nil {
				return nil, errkind.Wrap(current, err)
			}
			if !ok || visitedType[superName] {
				break
			}
			visitedType[superName] = true
			if agg, found, err := matchingMethodAggregate(provider, superName, source, len(aggregates)); err != nil {
				return nil, err
			} else if found {
				aggregates = append(aggregates, agg)
			}
			current = superName
		}
		return aggregates, nil

	case Exhaustive:
		owner, err := provider.TypeName(source)
		if err != nil {
			return nil, errkind.Wrap("", err)
		}
		order, err := closureOrder(provider, owner)
		if err != nil {
			return nil, err
		}
		aggregates = aggregates[:0]
		idx := 0
		for _, t := range order {
			if t == owner {
				first.Index = idx
				aggregates = append(aggregates, first)
				idx++
				continue
			}
			agg, found, err := matchingMethodAggregate(provider, t, source, idx)
			if err != nil {
				return nil, err
			}
			if found {
				aggregates = append(aggregates, agg)
				idx++
			}
		}
		return aggregates, nil
	}
	return aggregates, nil
}

// matchingMethodAggregate finds, on typeName, the method(s) matching
// original (an override target, or the bridge/bridged pair), de-duplicates
// bridge pairs, and returns the combined declared-annotations aggregate.
func matchingMethodAggregate(provider annotation.IntrospectionProvider, typeName string, original annotation.Element, index int) (Aggregate, bool, error) {
	methods, err := provider.DeclaringMethodsMatching(typeName, original)
	if err != nil {
		return Aggregate{}, false, errkind.Wrap(typeName, err)
	}
	methods = dedupeBridges(provider, methods)
	if len(methods) == 0 {
		return Aggregate{}, false, nil
	}
	var all []*annotation.Instance
	for _, m := range methods {
		anns, err := provider.DeclaredAnnotations(m)
		if err != nil {
			return Aggregate{}, false, errkind.Wrap(typeName, err)
		}
		all = append(all, anns...)
	}
	return Aggregate{Index: index, Element: methods[0], Annotations: all}, true, nil
}

// dedupeBridges treats a bridge method as an alias of its bridged target:
// queries land on both, but annotations declared on either are considered
// once (§4.5).
func dedupeBridges(provider annotation.IntrospectionProvider, methods []annotation.Element) []annotation.Element {
	seenTarget := map[annotation.Element]bool{}
	var result []annotation.Element
	for _, m := range methods {
		key := m
		if provider.IsBridge(m) {
			if target, ok := provider.BridgedTarget(m); ok {
				key = target
			}
		}
		if seenTarget[key] {
			continue
		}
		seenTarget[key] = true
		result = append(result, m)
	}
	return result
}
