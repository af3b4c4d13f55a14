package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/scanner"
)

// methodElem represents a method-level source element in tests; class-level
// elements are plain type-name strings (annotation.Element is any).
type methodElem struct {
	owner, name string
	variant     int // distinguishes a bridge method from its bridged target
}

type hierarchyProvider struct {
	superclass map[string]string
	interfaces map[string][]string
	declared   map[string][]*annotation.Instance
	inherited  map[string]bool
	methods    map[string][]methodElem // owner type -> its declared methods
	bridges    map[methodElem]methodElem
}

func (p *hierarchyProvider) DeclaredAnnotations(e annotation.Element) ([]*annotation.Instance, error) {
	switch v := e.(type) {
	case string:
		return p.declared[v], nil
	case methodElem:
		return p.declared[v.owner+"#"+v.name], nil
	}
	return nil, nil
}
func (p *hierarchyProvider) MetaAnnotations(string) ([]*annotation.Instance, error) { return nil, nil }
func (p *hierarchyProvider) Attributes(string) ([]annotation.Attribute, error)      { return nil, nil }
func (p *hierarchyProvider) Superclass(t string) (string, bool, error) {
	s, ok := p.superclass[t]
	return s, ok, nil
}
func (p *hierarchyProvider) Interfaces(t string) ([]string, error) { return p.interfaces[t], nil }
func (p *hierarchyProvider) TypeName(e annotation.Element) (string, error) {
	switch v := e.(type) {
	case string:
		return v, nil
	case methodElem:
		return v.owner, nil
	}
	return "", nil
}
func (p *hierarchyProvider) IsMethod(e annotation.Element) bool {
	_, ok := e.(methodElem)
	return ok
}
func (p *hierarchyProvider) DeclaringMethodsMatching(typeName string, original annotation.Element) ([]annotation.Element, error) {
	orig, ok := original.(methodElem)
	if !ok {
		return nil, nil
	}
	var out []annotation.Element
	for _, m := range p.methods[typeName] {
		if m.name == orig.name {
			out = append(out, m)
		}
	}
	return out, nil
}
func (p *hierarchyProvider) IsBridge(e annotation.Element) bool {
	m, ok := e.(methodElem)
	if !ok {
		return false
	}
	_, isBridge := p.bridges[m]
	return isBridge
}
func (p *hierarchyProvider) BridgedTarget(e annotation.Element) (annotation.Element, bool) {
	m, ok := e.(methodElem)
	if !ok {
		return nil, false
	}
	target, found := p.bridges[m]
	return target, found
}
func (p *hierarchyProvider) IsInherited(t string) (bool, error) { return p.inherited[t], nil }

func instAt(typeName string) *annotation.Instance {
	return annotation.NewInstance(typeName, nil)
}

func newClassHierarchy() *hierarchyProvider {
	return &hierarchyProvider{
		superclass: map[string]string{"pkg.Leaf": "pkg.Mid", "pkg.Mid": "pkg.Base"},
		interfaces: map[string][]string{"pkg.Leaf": {"pkg.IfaceA"}, "pkg.Mid": {"pkg.IfaceB"}},
		declared: map[string][]*annotation.Instance{
			"pkg.Leaf":   {instAt("pkg.LeafAnn")},
			"pkg.Mid":    {instAt("pkg.MidAnn"), instAt("pkg.MidAnnNotInherited")},
			"pkg.Base":   {instAt("pkg.BaseAnn")},
			"pkg.IfaceA": {instAt("pkg.IfaceAnn")},
			"pkg.IfaceB": nil,
		},
		inherited: map[string]bool{"pkg.MidAnn": true, "pkg.BaseAnn": true},
	}
}

func typeNames(aggs []scanner.Aggregate) []string {
	var out []string
	for _, a := range aggs {
		out = append(out, a.Element.(string))
	}
	return out
}

func TestScan_Direct(t *testing.T) {
	p := newClassHierarchy()
	aggs, err := scanner.Scan(p, scanner.Direct, "pkg.Leaf")
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 0, aggs[0].Index)
	assert.Equal(t, "pkg.Leaf", aggs[0].Element)
	assert.Len(t, aggs[0].Annotations, 1)
}

func TestScan_InheritedAnnotations(t *testing.T) {
	p := newClassHierarchy()
	aggs, err := scanner.Scan(p, scanner.InheritedAnnotations, "pkg.Leaf")
	require.NoError(t, err)

	require.Len(t, aggs, 3)
	assert.Equal(t, []string{"pkg.Leaf", "pkg.Mid", "pkg.Base"}, typeNames(aggs))
	assert.Len(t, aggs[1].Annotations, 1)
	assert.Equal(t, "pkg.MidAnn", aggs[1].Annotations[0].TypeName)
	assert.Len(t, aggs[2].Annotations, 1)
	assert.Equal(t, "pkg.BaseAnn", aggs[2].Annotations[0].TypeName)
}

func TestScan_SuperClass(t *testing.T) {
	p := newClassHierarchy()
	aggs, err := scanner.Scan(p, scanner.SuperClass, "pkg.Leaf")
	require.NoError(t, err)

	require.Len(t, aggs, 3)
	assert.Equal(t, []string{"pkg.Leaf", "pkg.Mid", "pkg.Base"}, typeNames(aggs))
	assert.Len(t, aggs[1].Annotations, 2)
}

func TestScan_Exhaustive(t *testing.T) {
	p := newClassHierarchy()
	aggs, err := scanner.Scan(p, scanner.Exhaustive, "pkg.Leaf")
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg.Leaf", "pkg.IfaceA", "pkg.Mid", "pkg.IfaceB", "pkg.Base"}, typeNames(aggs))
	for i, a := range aggs {
		assert.Equal(t, i, a.Index)
	}
}

func TestScan_Method_Direct(t *testing.T) {
	p := newClassHierarchy()
	p.declared["pkg.Leaf#Handle"] = []*annotation.Instance{instAt("pkg.HandleAnn")}
	source := methodElem{owner: "pkg.Leaf", name: "Handle"}

	aggs, err := scanner.Scan(p, scanner.Direct, source)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, source, aggs[0].Element)
}

func TestScan_Method_SuperClass_WalksOverrides(t *testing.T) {
	p := newClassHierarchy()
	p.declared["pkg.Leaf#Handle"] = []*annotation.Instance{instAt("pkg.HandleAnn")}
	p.declared["pkg.Mid#Handle"] = []*annotation.Instance{instAt("pkg.MidHandleAnn")}
	p.methods = map[string][]methodElem{
		"pkg.Mid": {{owner: "pkg.Mid", name: "Handle"}},
		// pkg.Base declares no matching override.
	}
	source := methodElem{owner: "pkg.Leaf", name: "Handle"}

	aggs, err := scanner.Scan(p, scanner.SuperClass, source)
	require.NoError(t, err)

	require.Len(t, aggs, 2)
	assert.Equal(t, source, aggs[0].Element)
	assert.Equal(t, methodElem{owner: "pkg.Mid", name: "Handle"}, aggs[1].Element)
	assert.Equal(t, "pkg.MidHandleAnn", aggs[1].Annotations[0].TypeName)
}

func TestScan_Method_DedupesBridgePairs(t *testing.T) {
	p := newClassHierarchy()
	p.declared["pkg.Leaf#Handle"] = []*annotation.Instance{instAt("pkg.HandleAnn")}
	// Both the bridge method and its bridged target are named "Handle" on
	// pkg.Mid (as Go reflection would surface a bridge pair), and both carry
	// the same type-qualified key since dedup happens by BridgedTarget, not name.
	bridge := methodElem{owner: "pkg.Mid", name: "Handle", variant: 1}
	target := methodElem{owner: "pkg.Mid", name: "Handle", variant: 2}
	p.methods = map[string][]methodElem{"pkg.Mid": {bridge, target}}
	p.bridges = map[methodElem]methodElem{bridge: target}
	p.declared["pkg.Mid#Handle"] = []*annotation.Instance{instAt("pkg.MidHandleAnn")}
	source := methodElem{owner: "pkg.Leaf", name: "Handle"}

	aggs, err := scanner.Scan(p, scanner.SuperClass, source)
	require.NoError(t, err)

	require.Len(t, aggs, 2)
	assert.Len(t, aggs[1].Annotations, 1)
}

func TestScan_NilSource(t *testing.T) {
	p := newClassHierarchy()
	_, err := scanner.Scan(p, scanner.Direct, nil)
	assert.Error(t, err)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "DIRECT", scanner.Direct.String())
	assert.Equal(t, "INHERITED_ANNOTATIONS", scanner.InheritedAnnotations.String())
	assert.Equal(t, "SUPER_CLASS", scanner.SuperClass.String())
	assert.Equal(t, "EXHAUSTIVE", scanner.Exhaustive.String())
	assert.Equal(t, "UNKNOWN", scanner.Strategy(99).String())
}
