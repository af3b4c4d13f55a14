package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/registry"
)

type stubRegistry struct {
	skip map[string]bool // "source|annotation" -> skip
	err  error
}

func (s *stubRegistry) CanSkip(source annotation.Element, annotationName string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.skip[source.(string)+"|"+annotationName], nil
}

func TestRegistries_EmptyDefaultsToRequiresIntrospection(t *testing.T) {
	r := registry.NewRegistries()
	ok, err := r.RequiresIntrospection("pkg.Handler", "pkg.Valid")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegistries_AllSkipSuppressesIntrospection(t *testing.T) {
	r := registry.NewRegistries(&stubRegistry{skip: map[string]bool{"pkg.Handler|pkg.Valid": true}})
	ok, err := r.RequiresIntrospection("pkg.Handler", "pkg.Valid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistries_OneUnknownRequiresIntrospection(t *testing.T) {
	r := registry.NewRegistries(
		&stubRegistry{skip: map[string]bool{"pkg.Handler|pkg.Valid": true}},
		&stubRegistry{skip: map[string]bool{}},
	)
	ok, err := r.RequiresIntrospection("pkg.Handler", "pkg.Valid")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegistries_RegisterAppends(t *testing.T) {
	r := registry.Configure()
	r.Register(&stubRegistry{skip: map[string]bool{"pkg.Handler|pkg.Valid": true}})
	ok, err := r.RequiresIntrospection("pkg.Handler", "pkg.Valid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistries_ErrorPropagates(t *testing.T) {
	r := registry.NewRegistries(&stubRegistry{err: assert.AnError})
	_, err := r.RequiresIntrospection("pkg.Handler", "pkg.Valid")
	assert.Error(t, err)
}

type typeNameProvider struct{}

func (typeNameProvider) DeclaredAnnotations(annotation.Element) ([]*annotation.Instance, error) {
	return nil, nil
}
func (typeNameProvider) MetaAnnotations(string) ([]*annotation.Instance, error) { return nil, nil }
func (typeNameProvider) Attributes(string) ([]annotation.Attribute, error)      { return nil, nil }
func (typeNameProvider) Superclass(string) (string, bool, error)                { return "", false, nil }
func (typeNameProvider) Interfaces(string) ([]string, error)                    { return nil, nil }
func (typeNameProvider) TypeName(e annotation.Element) (string, error)          { return e.(string), nil }
func (typeNameProvider) IsMethod(annotation.Element) bool                       { return false }
func (typeNameProvider) DeclaringMethodsMatching(string, annotation.Element) ([]annotation.Element, error) {
	return nil, nil
}
func (typeNameProvider) IsBridge(annotation.Element) bool { return false }
func (typeNameProvider) BridgedTarget(annotation.Element) (annotation.Element, bool) {
	return nil, false
}
func (typeNameProvider) IsInherited(string) (bool, error) { return false, nil }

func TestFileIndex_CanSkip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.yaml")
	contents := "pkg.Handler:\n  - pkg.Valid\npkg.Other: []\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	idx, err := registry.LoadFileIndex(context.Background(), afs.New(), path, typeNameProvider{})
	require.NoError(t, err)

	skip, err := idx.CanSkip("pkg.Handler", "pkg.NotThere")
	require.NoError(t, err)
	assert.True(t, skip)

	skip, err = idx.CanSkip("pkg.Handler", "pkg.Valid")
	require.NoError(t, err)
	assert.False(t, skip)

	skip, err = idx.CanSkip("pkg.Unindexed", "pkg.Valid")
	require.NoError(t, err)
	assert.False(t, skip)
}

func TestFileIndex_MissingFile(t *testing.T) {
	_, err := registry.LoadFileIndex(context.Background(), afs.New(), filepath.Join(t.TempDir(), "missing.yaml"), typeNameProvider{})
	assert.Error(t, err)
}
