// Package merged implements MergedAnnotation / MergedAnnotations (spec
// §4.6): the user-facing view. Given a source and a filter, it streams
// merged annotations in a strict order, resolving aliases through the
// mappings built by package mapping.
package merged

import (
	"sort"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/mapping"
	"github.com/viant/anno/annotation/scanner"
)

// candidate is one reachable declared-annotation-through-a-mapping match.
type candidate struct {
	aggregateIndex int
	depth          int
	declOrder      int
	directly       bool
	element        annotation.Element
	mappings       *mapping.Mappings
	node           *mapping.Mapping
	rootInstance   *annotation.Instance
}

// less implements the ordering key of §4.6 get/stream: lowest
// (aggregate_index, depth), ties broken by declaration order, and a
// directly-present match always beats a meta-present match at the same
// aggregate index.
func (c candidate) less(o candidate) bool {
	if c.aggregateIndex != o.aggregateIndex {
		return c.aggregateIndex < o.aggregateIndex
	}
	if c.directly != o.directly {
		return c.directly
	}
	if c.depth != o.depth {
		return c.depth < o.depth
	}
	return c.declOrder < o.declOrder
}

// MergedAnnotations is the handle returned by From: a streamable view over
// every annotation reachable from one source element under one filter and
// repeatable-containers policy.
type MergedAnnotations struct {
	resolver *mapping.Resolver
	source   annotation.Element

	byType map[string][]candidate
}

// From scans source with sc and indexes every reachable annotation through
// resolver's filter/repeatable-containers/cache configuration, ready for
// IsPresent/Get/Stream queries. Share one Resolver (and so one underlying
// Cache) across calls for the same provider to get its caching benefit.
func From(resolver *mapping.Resolver, sc *scanner.Scanner, source annotation.Element) (*MergedAnnotations, error) {
	aggregates, err := sc.Scan(source)
	if err != nil {
		return nil, err
	}
	f := resolver.Filter()
	containers := resolver.Containers()
	m := &MergedAnnotations{resolver: resolver, source: source, byType: map[string][]candidate{}}

	for _, agg := range aggregates {
		declOrder := 0
		for _, inst := range agg.Annotations {
			if f.Matches(inst.TypeName) {
				continue
			}
			if err := m.indexInstance(agg, inst, declOrder); err != nil {
				return nil, err
			}
			declOrder++
			if repeatableType, ok := containers.RepeatableOf(inst.TypeName); ok {
				if children, ok := inst.Value("value"); ok {
					if childInstances, ok := children.([]*annotation.Instance); ok {
						for _, child := range childInstances {
							childInst := annotation.NewInstance(repeatableType, valuesOf(child))
							if err := m.indexInstance(agg, childInst, declOrder); err != nil {
								return nil, err
							}
							declOrder++
						}
					}
				}
			}
		}
	}
	return m, nil
}

func valuesOf(i *annotation.Instance) map[string]any {
	out := map[string]any{}
	for _, n := range i.Names() {
		if v, ok := i.Value(n); ok {
			out[n] = v
		}
	}
	return out
}

func (m *MergedAnnotations) indexInstance(agg scanner.Aggregate, inst *annotation.Instance, declOrder int) error {
	mappings, err := m.resolver.Mappings(inst.TypeName)
	if err != nil {
		return err
	}
	for _, node := range mappings.List() {
		c := candidate{
			aggregateIndex: agg.Index,
			depth:          node.Depth,
			declOrder:      declOrder,
			directly:       node.Depth == 0,
			element:        agg.Element,
			mappings:       mappings,
			node:           node,
			rootInstance:   inst,
		}
		m.byType[node.AnnotationType] = append(m.byType[node.AnnotationType], c)
	}
	return nil
}

// IsPresent reports whether any reachable mapping for some declared
// annotation on the scan rollup matches typeName.
func (m *MergedAnnotations) IsPresent(typeName string) bool {
	return len(m.byType[typeName]) > 0
}

// IsDirectlyPresent reports whether typeName is present at depth 0 of some
// scanned instance (i.e. actually declared, not reached via meta-annotation).
func (m *MergedAnnotations) IsDirectlyPresent(typeName string) bool {
	for _, c := range m.byType[typeName] {
		if c.directly {
			return true
		}
	}
	return false
}

// Get returns the single best MergedAnnotation matching typeName — lowest
// (aggregate_index, depth) key, ties broken by declaration order, directly
// present preferred at equal aggregate index — or a missing handle if none
// match.
func (m *MergedAnnotations) Get(typeName string) *Annotation {
	return m.GetMatching(typeName, nil)
}

// Predicate filters candidate matches before ranking; used by GetMatching.
type Predicate func(depth int, directlyPresent bool) bool

// GetMatching is Get with an additional predicate over depth/directness.
func (m *MergedAnnotations) GetMatching(typeName string, pred Predicate) *Annotation {
	cands := m.byType[typeName]
	best := -1
	for i, c := range cands {
		if pred != nil && !pred(c.depth, c.directly) {
			continue
		}
		if best == -1 || cands[i].less(cands[best]) {
			best = i
		}
	}
	if best == -1 {
		return missing(typeName)
	}
	return fromCandidate(m, cands[best])
}

// Stream returns every match for typeName, in the same ordering key as Get.
func (m *MergedAnnotations) Stream(typeName string) []*Annotation {
	cands := append([]candidate(nil), m.byType[typeName]...)
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].less(cands[j]) })
	out := make([]*Annotation, 0, len(cands))
	for _, c := range cands {
		out = append(out, fromCandidate(m, c))
	}
	return out
}

// StreamAll returns every reachable merged annotation of any type, ordered
// by the same key within each type but with no cross-type ordering
// guarantee beyond that.
func (m *MergedAnnotations) StreamAll() []*Annotation {
	var out []*Annotation
	for typeName := range m.byType {
		out = append(out, m.Stream(typeName)...)
	}
	return out
}

func missing(typeName string) *Annotation {
	return &Annotation{typeName: typeName, isMissing: true}
}

func fromCandidate(owner *MergedAnnotations, c candidate) *Annotation {
	return &Annotation{
		owner:          owner,
		typeName:       c.node.AnnotationType,
		node:           c.node,
		rootInstance:   c.rootInstance,
		source:         c.element,
		depth:          c.depth,
		aggregateIndex: c.aggregateIndex,
	}
}
