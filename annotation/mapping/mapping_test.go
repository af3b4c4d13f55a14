package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
	"github.com/viant/anno/annotation/filter"
	"github.com/viant/anno/annotation/mapping"
	"github.com/viant/anno/annotation/repeatable"
)

// fakeProvider is a minimal, purely in-memory IntrospectionProvider for
// mapping-tree construction tests: class hierarchy and method matching are
// never exercised by these tests, only Attributes/MetaAnnotations.
type fakeProvider struct {
	attrs map[string][]annotation.Attribute
	metas map[string][]*annotation.Instance
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{attrs: map[string][]annotation.Attribute{}, metas: map[string][]*annotation.Instance{}}
}

func (p *fakeProvider) DeclaredAnnotations(annotation.Element) ([]*annotation.Instance, error) {
	return nil, nil
}
func (p *fakeProvider) MetaAnnotations(annotationType string) ([]*annotation.Instance, error) {
	return p.metas[annotationType], nil
}
func (p *fakeProvider) Attributes(annotationType string) ([]annotation.Attribute, error) {
	return p.attrs[annotationType], nil
}
func (p *fakeProvider) Superclass(string) (string, bool, error) { return "", false, nil }
func (p *fakeProvider) Interfaces(string) ([]string, error)     { return nil, nil }
func (p *fakeProvider) TypeName(annotation.Element) (string, error) {
	return "", nil
}
func (p *fakeProvider) IsMethod(annotation.Element) bool { return false }
func (p *fakeProvider) DeclaringMethodsMatching(string, annotation.Element) ([]annotation.Element, error) {
	return nil, nil
}
func (p *fakeProvider) IsBridge(annotation.Element) bool { return false }
func (p *fakeProvider) BridgedTarget(annotation.Element) (annotation.Element, bool) {
	return nil, false
}
func (p *fakeProvider) IsInherited(string) (bool, error) { return false, nil }

func TestBuild_SimpleAlias_Mirror(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Valid"] = []annotation.Attribute{
		{Name: "message", Kind: annotation.KindString, HasDefault: true, Default: "",
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "value"}}},
		{Name: "value", Kind: annotation.KindString, HasDefault: true, Default: "",
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "message"}}},
	}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Valid")
	require.NoError(t, err)
	require.Len(t, tree.List(), 1)

	root := tree.Root
	inst := annotation.NewInstance("pkg.Valid", map[string]any{"value": "boom"})

	resolved, err := root.RawValue(inst, "message")
	require.NoError(t, err)
	assert.Equal(t, "boom", resolved.Value)
	assert.True(t, resolved.Found)
}

func TestBuild_AliasToMeta(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.API"] = []annotation.Attribute{
		{Name: "path", Kind: annotation.KindString, HasDefault: true, Default: ""},
	}
	p.attrs["pkg.Route"] = []annotation.Attribute{
		{Name: "path", Kind: annotation.KindString, HasDefault: true, Default: "",
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: "pkg.API", TargetAttribute: "path"}}},
	}
	p.metas["pkg.Route"] = []*annotation.Instance{annotation.NewInstance("pkg.API", map[string]any{"path": "/users"})}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Route")
	require.NoError(t, err)
	require.Len(t, tree.List(), 2)

	root := tree.Root
	inst := annotation.NewInstance("pkg.Route", map[string]any{"path": ""})

	resolved, err := root.RawValue(inst, "path")
	require.NoError(t, err)
	assert.Equal(t, "/users", resolved.Value)
}

func TestBuild_ImplicitConventionOverride(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.API"] = []annotation.Attribute{
		{Name: "timeout", Kind: annotation.KindInt, HasDefault: true, Default: 0},
	}
	p.attrs["pkg.Route"] = []annotation.Attribute{
		{Name: "timeout", Kind: annotation.KindInt, HasDefault: true, Default: 0},
	}
	p.metas["pkg.Route"] = []*annotation.Instance{annotation.NewInstance("pkg.API", map[string]any{"timeout": 30})}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Route")
	require.NoError(t, err)

	root := tree.Root
	inst := annotation.NewInstance("pkg.Route", map[string]any{"timeout": 0})

	resolved, err := root.RawValue(inst, "timeout")
	require.NoError(t, err)
	assert.Equal(t, 30, resolved.Value)
}

func TestBuild_MirrorConflict(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Valid"] = []annotation.Attribute{
		{Name: "message", Kind: annotation.KindString, HasDefault: true, Default: "",
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "value"}}},
		{Name: "value", Kind: annotation.KindString, HasDefault: true, Default: "",
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "message"}}},
	}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Valid")
	require.NoError(t, err)

	root := tree.Root
	inst := annotation.NewInstance("pkg.Valid", map[string]any{"message": "a", "value": "b"})

	_, err = root.RawValue(inst, "message")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.MirrorConflict, e.Kind)
}

func TestBuild_MirrorMissingReciprocal(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Valid"] = []annotation.Attribute{
		{Name: "message", Kind: annotation.KindString},
		{Name: "value", Kind: annotation.KindString,
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "message"}}},
	}

	_, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Valid")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.MissingMirroredAlias, e.Kind)
}

func TestBuild_IncompatibleMirrorKinds(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Valid"] = []annotation.Attribute{
		{Name: "message", Kind: annotation.KindInt,
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "value"}}},
		{Name: "value", Kind: annotation.KindString,
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "message"}}},
	}

	_, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Valid")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.IncompatibleTypes, e.Kind)
}

func TestBuild_AliasToAbsentMetaAnnotation(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Route"] = []annotation.Attribute{
		{Name: "path", Kind: annotation.KindString,
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: "pkg.API", TargetAttribute: "path"}}},
	}
	p.attrs["pkg.API"] = []annotation.Attribute{{Name: "path", Kind: annotation.KindString}}
	// No MetaAnnotations["pkg.Route"] declared, so pkg.API is never reached.

	_, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Route")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.MetaAnnotationNotPresent, e.Kind)
}

func TestBuild_FilterPrunesMetaAnnotations(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Route"] = []annotation.Attribute{{Name: "path", Kind: annotation.KindString}}
	p.attrs["java.lang.Override"] = []annotation.Attribute{}
	p.metas["pkg.Route"] = []*annotation.Instance{annotation.NewInstance("java.lang.Override", nil)}

	tree, err := mapping.Build(p, filter.JAVA, repeatable.None(), "pkg.Route")
	require.NoError(t, err)
	assert.Len(t, tree.List(), 1)
	assert.Empty(t, tree.ForType("java.lang.Override"))
}

func TestBuild_RawValue_MissingRequiredAttribute(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Route"] = []annotation.Attribute{{Name: "path", Kind: annotation.KindString}}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Route")
	require.NoError(t, err)

	inst := annotation.NewInstance("pkg.Route", map[string]any{})
	_, err = tree.Root.RawValue(inst, "path")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.MissingRequiredAttribute, e.Kind)
}

func TestBuild_RawValue_UnknownAttribute(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Route"] = []annotation.Attribute{{Name: "path", Kind: annotation.KindString}}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Route")
	require.NoError(t, err)

	inst := annotation.NewInstance("pkg.Route", map[string]any{"path": "/x"})
	_, err = tree.Root.RawValue(inst, "missing")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.UnknownAttribute, e.Kind)
}

func TestBuild_DiamondMetaAnnotationProducesDistinctMappings(t *testing.T) {
	p := newFakeProvider()
	for _, name := range []string{"pkg.R", "pkg.X1", "pkg.X2", "pkg.C"} {
		p.attrs[name] = []annotation.Attribute{}
	}
	p.metas["pkg.R"] = []*annotation.Instance{
		annotation.NewInstance("pkg.X1", nil),
		annotation.NewInstance("pkg.X2", nil),
	}
	p.metas["pkg.X1"] = []*annotation.Instance{annotation.NewInstance("pkg.C", nil)}
	p.metas["pkg.X2"] = []*annotation.Instance{annotation.NewInstance("pkg.C", nil)}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.R")
	require.NoError(t, err)

	cs := tree.ForType("pkg.C")
	require.Len(t, cs, 2)
	parents := map[string]bool{}
	for _, c := range cs {
		parents[c.Parent.AnnotationType] = true
	}
	assert.True(t, parents["pkg.X1"])
	assert.True(t, parents["pkg.X2"])
}

func TestBuild_SuppressesReintroducedAncestor(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.R"] = []annotation.Attribute{}
	p.attrs["pkg.X"] = []annotation.Attribute{}
	p.metas["pkg.R"] = []*annotation.Instance{annotation.NewInstance("pkg.X", nil)}
	p.metas["pkg.X"] = []*annotation.Instance{annotation.NewInstance("pkg.R", nil)}

	tree, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.R")
	require.NoError(t, err)
	assert.Len(t, tree.List(), 2)
	assert.Len(t, tree.ForType("pkg.R"), 1)
}

func TestBuild_RepeatableContainerReachedTwiceKeepsBothMappings(t *testing.T) {
	p := newFakeProvider()
	for _, name := range []string{"pkg.R", "pkg.X1", "pkg.X2"} {
		p.attrs[name] = []annotation.Attribute{}
	}
	p.attrs["pkg.Tags"] = []annotation.Attribute{
		{Name: "value", Kind: annotation.KindAnnotationArray, NestedType: "pkg.Tag"},
	}
	p.attrs["pkg.Tag"] = []annotation.Attribute{{Name: "value", Kind: annotation.KindString}}
	p.metas["pkg.R"] = []*annotation.Instance{
		annotation.NewInstance("pkg.X1", nil),
		annotation.NewInstance("pkg.X2", nil),
	}
	p.metas["pkg.X1"] = []*annotation.Instance{annotation.NewInstance("pkg.Tags", nil)}
	p.metas["pkg.X2"] = []*annotation.Instance{annotation.NewInstance("pkg.Tags", nil)}

	containers, err := repeatable.Of(p, "pkg.Tags", "pkg.Tag")
	require.NoError(t, err)

	tree, err := mapping.Build(p, filter.NONE, containers, "pkg.R")
	require.NoError(t, err)

	tags := tree.ForType("pkg.Tags")
	require.Len(t, tags, 2)
	parents := map[string]bool{}
	for _, tag := range tags {
		parents[tag.Parent.AnnotationType] = true
	}
	assert.True(t, parents["pkg.X1"])
	assert.True(t, parents["pkg.X2"])
}

func TestBuild_AmbiguousAliasDeclaration(t *testing.T) {
	p := newFakeProvider()
	p.attrs["pkg.Valid"] = []annotation.Attribute{
		{Name: "message", Kind: annotation.KindString,
			Aliases: []annotation.AliasDeclaration{{
				TargetAnnotation: annotation.Self, TargetAttribute: "value",
				RawAttribute: "value", RawValue: "other",
			}}},
		{Name: "value", Kind: annotation.KindString,
			Aliases: []annotation.AliasDeclaration{{TargetAnnotation: annotation.Self, TargetAttribute: "message"}}},
	}

	_, err := mapping.Build(p, filter.NONE, repeatable.None(), "pkg.Valid")
	require.Error(t, err)
	e, ok := errkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errkind.AmbiguousAliasDeclaration, e.Kind)
}
