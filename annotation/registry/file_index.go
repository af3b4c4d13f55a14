package registry

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/anno/annotation"
)

// FileIndex is a Registry backed by a precomputed YAML index — type name to
// the set of annotation names reachable from it — loaded through
// github.com/viant/afs so the index can live on local disk, in memory, or
// behind any afs-supported remote storage scheme, the same pattern the
// teacher's inspector/repository and inspector/coder packages use to read
// inspected sources.
type FileIndex struct {
	provider annotation.IntrospectionProvider
	coverage map[string]map[string]bool
}

// fileIndexDocument is the on-disk shape: typeName -> list of annotation
// type names reachable from it (direct, inherited, or meta-annotated).
type fileIndexDocument map[string][]string

// LoadFileIndex reads and parses a YAML index document from url through fs.
// provider resolves a scanned Element to its owning type name.
func LoadFileIndex(ctx context.Context, fs afs.Service, url string, provider annotation.IntrospectionProvider) (*FileIndex, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation index %s: %w", url, err)
	}

	var doc fileIndexDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse annotation index %s: %w", url, err)
	}

	coverage := make(map[string]map[string]bool, len(doc))
	for typeName, names := range doc {
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		coverage[typeName] = set
	}
	return &FileIndex{provider: provider, coverage: coverage}, nil
}

// CanSkip reports true when source's type is present in the index and the
// requested annotation name is not among its recorded coverage — i.e. the
// index positively confirms absence. An indexed type's absence from the
// index itself, or the annotation's presence in its coverage set, both mean
// "unknown/might be present", per the narrow skip-layer contract.
func (f *FileIndex) CanSkip(source annotation.Element, annotationName string) (bool, error) {
	typeName, err := f.provider.TypeName(source)
	if err != nil {
		return false, err
	}
	covered, ok := f.coverage[typeName]
	if !ok {
		return false, nil
	}
	if covered[annotationName] {
		return false, nil
	}
	return true, nil
}
