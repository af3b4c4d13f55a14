package filter

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/modfile"
)

// ModuleBoundary builds a Filter that matches every annotation type name
// OUTSIDE the module declared by the go.mod at goModPath, the same
// project-root detection the teacher's repository detector performs against
// a checked-out tree. Callers pass this filter to prune meta-annotations
// belonging to third-party annotation libraries while still walking their
// own module's composed annotations.
func ModuleBoundary(goModPath string) (Filter, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return Filter{}, fmt.Errorf("reading %s: %w", goModPath, err)
	}
	f, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return Filter{}, fmt.Errorf("parsing %s: %w", goModPath, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return Filter{}, fmt.Errorf("%s declares no module path", goModPath)
	}
	modulePath := f.Module.Mod.Path
	return Filter{
		name: "module-boundary:" + modulePath,
		matches: func(t string) bool {
			return t != modulePath && !strings.HasPrefix(t, modulePath+".") && !strings.HasPrefix(t, modulePath+"/")
		},
	}, nil
}
