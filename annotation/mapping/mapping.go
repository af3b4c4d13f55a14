// Package mapping implements AnnotationTypeMapping / AnnotationTypeMappings
// (spec §4.4), the heart of the resolver: for one root annotation type, the
// tree of every reachable meta-annotation with precomputed alias and mirror
// tables.
package mapping

import (
	"fmt"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
	"github.com/viant/anno/annotation/filter"
	"github.com/viant/anno/annotation/repeatable"
)

const maxAttrsPerMapping = 1 << 16

// Mapping is one node of an AnnotationTypeMappings tree: one annotation type
// reached via a specific meta-annotation path (§3).
type Mapping struct {
	tree *Mappings

	index          int // position in tree.list (BFS order)
	AnnotationType string
	Depth          int
	Parent         *Mapping
	Attributes     *annotation.AttributeMethods

	// MetaInstance is the concrete instance this meta-annotation was
	// declared with on its annotating type. Nil for the root mapping,
	// whose concrete values instead come from the per-occurrence Instance
	// a MergedAnnotation supplies at query time.
	MetaInstance *annotation.Instance

	mirrorSets     [][]int
	mirrorSetOf    []int // local attr index -> mirror set id, -1 if none
	explicitClass  []int // local attr index -> global explicit-class id
	conventionClass []int // local attr index -> global convention-class id (its own id if it has no convention edge)
}

// Mappings is the closed list of mappings reachable from one root type R
// under a given AnnotationFilter (§4.4).
type Mappings struct {
	Root *Mapping
	list []*Mapping

	byType map[string][]*Mapping

	explicit   *unionFind
	convention *unionFind
}

// List returns every mapping in BFS order (list[0] is the root).
func (t *Mappings) List() []*Mapping { return t.list }

// ForType returns the mappings in this tree whose AnnotationType equals
// name, in BFS order. Usually zero or one; more than one only for
// legitimately repeated meta-annotations.
func (t *Mappings) ForType(name string) []*Mapping {
	return t.byType[name]
}

func globalID(mappingIndex, attrIndex int) int {
	return mappingIndex*maxAttrsPerMapping + attrIndex
}

// Build computes the AnnotationTypeMappings for rootType by breadth-first
// traversal of its meta-annotation graph (§4.4). provider supplies attribute
// descriptors and meta-annotation instances; f prunes infrastructure
// annotations; containers is consulted so a meta-annotation type that is
// itself a registered repeatable container is never subject to the cycle
// suppression below, since a container legitimately recurs on every branch
// that declares it.
//
// A meta-annotation type is only skipped when it already appears on
// current's own ancestor chain (including current itself): that is the one
// case §4.4 calls a cycle. The same type reached again via a sibling branch
// is a legitimate diamond and gets its own Mapping, so resolveMetaAliases
// below sees every occurrence attribute aliases may target.
//
// All misconfiguration in this function is a construction-time error per
// §7: it is returned here (and the caller, the mapping cache, caches the
// error against rootType so a second request doesn't re-introspect).
func Build(provider annotation.IntrospectionProvider, f filter.Filter, containers repeatable.Containers, rootType string) (*Mappings, error) {
	t := &Mappings{
		byType:     map[string][]*Mapping{},
		explicit:   newUnionFind(),
		convention: newUnionFind(),
	}

	root := &Mapping{tree: t, index: 0, AnnotationType: rootType, Depth: 0}
	if err := loadAttributes(provider, root); err != nil {
		return nil, err
	}
	t.list = append(t.list, root)
	t.Root = root
	t.byType[rootType] = append(t.byType[rootType], root)

	for i := 0; i < len(t.list); i++ {
		current := t.list[i]
		metas, err := provider.MetaAnnotations(current.AnnotationType)
		if err != nil {
			return nil, errkind.Wrap(current.AnnotationType, err)
		}
		for _, meta := range metas {
			metaType := meta.TypeName
			if f.Matches(metaType) {
				continue
			}
			if _, isContainer := containers.RepeatableOf(metaType); !isContainer && inAncestorChain(current, metaType) {
				continue
			}
			child := &Mapping{
				tree:           t,
				index:          len(t.list),
				AnnotationType: metaType,
				Depth:          current.Depth + 1,
				Parent:         current,
				MetaInstance:   meta,
			}
			if err := loadAttributes(provider, child); err != nil {
				return nil, err
			}
			t.list = append(t.list, child)
			t.byType[metaType] = append(t.byType[metaType], child)
		}
	}

	for _, m := range t.list {
		if err := m.buildMirrorSets(); err != nil {
			return nil, err
		}
	}
	for _, m := range t.list {
		if err := m.resolveMetaAliases(t); err != nil {
			return nil, err
		}
	}
	// Local mirror unions must land in the same explicit union-find as
	// cross-mapping overrides so transitive chains resolve in one hop
	// (§4.4 "transitive implicit aliases").
	for _, m := range t.list {
		for _, set := range m.mirrorSets {
			for i := 1; i < len(set); i++ {
				t.explicit.union(globalID(m.index, set[0]), globalID(m.index, set[i]))
			}
		}
	}
	buildConventionEdges(t)

	for _, m := range t.list {
		m.explicitClass = make([]int, m.Attributes.Size())
		m.conventionClass = make([]int, m.Attributes.Size())
		for i := range m.explicitClass {
			m.explicitClass[i] = t.explicit.find(globalID(m.index, i))
			m.conventionClass[i] = t.convention.find(globalID(m.index, i))
		}
	}

	return t, nil
}

// inAncestorChain reports whether metaType already occurs on m's path back
// to the root, m itself included. Reaching it again would reintroduce an
// annotation already on the current chain rather than add a new node.
func inAncestorChain(m *Mapping, metaType string) bool {
	for a := m; a != nil; a = a.Parent {
		if a.AnnotationType == metaType {
			return true
		}
	}
	return false
}

func loadAttributes(provider annotation.IntrospectionProvider, m *Mapping) error {
	attrs, err := provider.Attributes(m.AnnotationType)
	if err != nil {
		return errkind.Wrap(m.AnnotationType, err)
	}
	m.Attributes = annotation.NewAttributeMethods(attrs)
	return nil
}

// buildMirrorSets groups attributes of m that alias each other with
// TargetAnnotation == Self (§4.4 "Mirror sets").
func (m *Mapping) buildMirrorSets() error {
	n := m.Attributes.Size()
	local := newUnionFind()
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		a := m.Attributes.Get(i)
		for _, al := range a.Aliases {
			if al.TargetAnnotation != annotation.Self {
				continue
			}
			if err := validateAliasDeclaration(m.AnnotationType, a, al); err != nil {
				return err
			}
			targetName := al.TargetAttribute
			if targetName == "" {
				targetName = a.Name
			}
			if targetName == a.Name {
				return errkind.Newf(errkind.AliasPointsToItself, m.AnnotationType, a.Name)
			}
			j := m.Attributes.IndexOf(targetName)
			if j < 0 {
				return errkind.Newf(errkind.SelfReferentialMissingTarget, m.AnnotationType, a.Name)
			}
			b := m.Attributes.Get(j)
			if !hasSelfAliasTo(b, a.Name) {
				return errkind.Newf(errkind.MissingMirroredAlias, m.AnnotationType, a.Name)
			}
			if a.Kind != b.Kind {
				return errkind.Newf(errkind.IncompatibleTypes, m.AnnotationType, a.Name)
			}
			if err := checkDefaultConsistency(m.AnnotationType, a, b); err != nil {
				return err
			}
			local.union(i, j)
			seen[i], seen[j] = true, true
		}
	}
	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		if !seen[i] {
			continue
		}
		r := local.find(i)
		groups[r] = append(groups[r], i)
	}
	m.mirrorSetOf = make([]int, n)
	for i := range m.mirrorSetOf {
		m.mirrorSetOf[i] = -1
	}
	setID := 0
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		m.mirrorSets = append(m.mirrorSets, members)
		for _, idx := range members {
			m.mirrorSetOf[idx] = setID
		}
		setID++
	}
	return nil
}

func hasSelfAliasTo(attr annotation.Attribute, name string) bool {
	for _, al := range attr.Aliases {
		if al.TargetAnnotation != annotation.Self {
			continue
		}
		target := al.TargetAttribute
		if target == "" {
			target = attr.Name
		}
		if target == name {
			return true
		}
	}
	return false
}

// validateAliasDeclaration raises ambiguous-alias-declaration (§4.4, §6) when
// a declaration's legacy value form and its attribute form both name a
// target and disagree, e.g. `@AliasFor(value = X, attribute = Y)` with X != Y.
func validateAliasDeclaration(typeName string, a annotation.Attribute, al annotation.AliasDeclaration) error {
	if al.RawValue != "" && al.RawAttribute != "" && al.RawValue != al.RawAttribute {
		return errkind.Newf(errkind.AmbiguousAliasDeclaration, typeName, a.Name)
	}
	return nil
}

func checkDefaultConsistency(typeName string, a, b annotation.Attribute) error {
	if a.HasDefault != b.HasDefault {
		return errkind.Newf(errkind.InconsistentDefaults, typeName, a.Name)
	}
	if a.HasDefault && b.HasDefault && fmt.Sprint(a.Default) != fmt.Sprint(b.Default) {
		return errkind.Newf(errkind.InconsistentDefaults, typeName, a.Name)
	}
	return nil
}

// resolveMetaAliases wires §4.4's "Alias to meta-annotation": attributes
// declaring @AliasFor(annotation = M, attribute = X) are unioned with M's
// attribute X in the tree-wide explicit union-find.
func (m *Mapping) resolveMetaAliases(t *Mappings) error {
	for i := 0; i < m.Attributes.Size(); i++ {
		a := m.Attributes.Get(i)
		for _, al := range a.Aliases {
			if al.TargetAnnotation == annotation.Self {
				continue
			}
			if err := validateAliasDeclaration(m.AnnotationType, a, al); err != nil {
				return err
			}
			targetName := al.TargetAttribute
			if targetName == "" {
				targetName = a.Name
			}
			candidates := t.byType[al.TargetAnnotation]
			if len(candidates) == 0 {
				return errkind.Newf(errkind.MetaAnnotationNotPresent, m.AnnotationType, a.Name)
			}
			for _, target := range candidates {
				j := target.Attributes.IndexOf(targetName)
				if j < 0 {
					return errkind.Newf(errkind.NonexistentAttribute, al.TargetAnnotation, targetName)
				}
				b := target.Attributes.Get(j)
				if a.Kind != b.Kind {
					return errkind.Newf(errkind.IncompatibleTypes, m.AnnotationType, a.Name)
				}
				if err := checkDefaultConsistency(m.AnnotationType, a, b); err != nil {
					return err
				}
				t.explicit.union(globalID(m.index, i), globalID(target.index, j))
			}
		}
	}
	return nil
}

// buildConventionEdges wires §4.4's "Convention-based overrides": an
// attribute whose name matches an attribute of some other mapping, and
// which carries no explicit alias of its own, is implicitly unioned at
// weaker priority than explicit edges.
func buildConventionEdges(t *Mappings) {
	hasExplicit := map[int]bool{}
	for _, m := range t.list {
		for i := 0; i < m.Attributes.Size(); i++ {
			a := m.Attributes.Get(i)
			for _, al := range a.Aliases {
				hasExplicit[globalID(m.index, i)] = true
				_ = al
			}
		}
	}
	for _, m := range t.list {
		for i := 0; i < m.Attributes.Size(); i++ {
			if hasExplicit[globalID(m.index, i)] {
				continue
			}
			name := m.Attributes.Get(i).Name
			for _, other := range t.list {
				if other == m {
					continue
				}
				j := other.Attributes.IndexOf(name)
				if j < 0 {
					continue
				}
				if hasExplicit[globalID(other.index, j)] {
					continue
				}
				t.convention.union(globalID(m.index, i), globalID(other.index, j))
			}
		}
	}
}
