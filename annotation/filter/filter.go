// Package filter implements AnnotationFilter (spec §4.2): a predicate over
// annotation type names used to prune infrastructure annotations before they
// are ever introspected.
package filter

import "strings"

// Filter matches an annotation type name.
type Filter struct {
	name    string
	matches func(typeName string) bool
}

// Matches reports whether typeName is filtered out (pruned).
func (f Filter) Matches(typeName string) bool {
	if f.matches == nil {
		return false
	}
	return f.matches(typeName)
}

func (f Filter) String() string { return f.name }

// NONE matches nothing — filtering is disabled, every type is
// introspectable.
var NONE = Filter{name: "NONE", matches: func(string) bool { return false }}

const javaPrefix = "java."
const annoInfraPrefix = "github.com/viant/anno/internal."

// JAVA matches the language's own namespace only (java.*), preserved as a
// literal prefix for parity with the source corpus though this module's own
// annotation types never live under it.
var JAVA = Filter{name: "JAVA", matches: func(t string) bool { return strings.HasPrefix(t, javaPrefix) }}

// PLAIN matches the language's own namespace and the library's own infra
// namespace.
var PLAIN = Filter{name: "PLAIN", matches: func(t string) bool {
	return strings.HasPrefix(t, javaPrefix) || strings.HasPrefix(t, annoInfraPrefix)
}}

// Packages builds a filter that matches any type name whose dotted/slashed
// package prefix equals one of the listed packages. Rejects empty or blank
// package strings as spec requires ("rejects null and empty package
// strings").
func Packages(packages ...string) (Filter, error) {
	if len(packages) == 0 {
		return Filter{}, errEmptyPackageList
	}
	clean := make([]string, 0, len(packages))
	for _, p := range packages {
		if strings.TrimSpace(p) == "" {
			return Filter{}, errEmptyPackageElement
		}
		clean = append(clean, p)
	}
	return Filter{
		name: "packages" + strings.Join(clean, ","),
		matches: func(t string) bool {
			for _, p := range clean {
				if t == p || strings.HasPrefix(t, p+".") || strings.HasPrefix(t, p+"/") {
					return true
				}
			}
			return false
		},
	}, nil
}

// MustPackages is Packages but panics on error; for package-level var
// initialization by callers who control the package list statically.
func MustPackages(packages ...string) Filter {
	f, err := Packages(packages...)
	if err != nil {
		panic(err)
	}
	return f
}
