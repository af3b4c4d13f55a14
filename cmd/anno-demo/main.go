// Command anno-demo resolves merged annotations over a small, in-process
// sample "module": a few annotation types and one handler type, all
// registered against reflectprovider.Provider, wired through mapping.Resolver
// and scanner.Scanner into merged.MergedAnnotations.
package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/viant/anno/annotation/mapping"
	"github.com/viant/anno/annotation/merged"
	"github.com/viant/anno/annotation/repeatable"
	"github.com/viant/anno/annotation/scanner"
	"github.com/viant/anno/reflectprovider"
)

// API is a meta-annotation carrying a base path every Route mirrors through
// its own Path attribute when not overridden directly. Both Path attributes
// share the empty-string default so a Route left at its Go zero value
// resolves through to whatever API was declared with, rather than being
// read as an explicit empty override.
type API struct {
	Path string `anno:"default="`
}

// Tag is a repeatable annotation: several instances may be declared on one
// element, unwrapped from a Tags container.
type Tag struct {
	Name string
}

// Tags is Tag's repeatable container: a single "value" attribute holding
// the repeated children.
type Tags struct {
	Value []*Tag `anno:"name=value"`
}

// Route is meta-annotated with API (declared separately below) and mirrors
// its own Path onto API's, the same AliasFor relationship spec §3 models.
// The alias target must be API's fully qualified type name, matching what
// reflectprovider.typeName derives from reflect.Type.
type Route struct {
	Path   string `anno:"alias=main.API.Path,default="`
	Method string `anno:"default=GET"`
}

// UserHandler is the source element: a plain struct carrying a directly
// declared Route and two repeated Tag instances.
type UserHandler struct{}

func main() {
	provider := reflectprovider.New()
	provider.RegisterType(reflect.TypeOf(API{}))
	provider.RegisterType(reflect.TypeOf(Tag{}))
	provider.RegisterType(reflect.TypeOf(Tags{}))

	// Route is meta-annotated with API(path=/users) — a typical explicit
	// @AliasFor override of a meta-annotation attribute.
	if err := provider.Declare(reflect.TypeOf(Route{}), API{Path: "/users"}); err != nil {
		fail("declare Route meta-annotations", err)
	}

	handler := reflect.TypeOf(UserHandler{})
	if err := provider.Declare(handler,
		Route{Method: "POST"},
		Tags{Value: []*Tag{{Name: "public"}, {Name: "v1"}}},
	); err != nil {
		fail("declare UserHandler annotations", err)
	}

	containers, err := repeatable.Of(provider, typeNameOf(Tags{}), typeNameOf(Tag{}))
	if err != nil {
		fail("configure repeatable containers", err)
	}

	resolver := mapping.NewResolver(provider, mapping.WithRepeatableContainers(containers))
	sc := scanner.New(provider, scanner.WithStrategy(scanner.Direct))

	annotations, err := merged.From(resolver, sc, handler)
	if err != nil {
		fail("resolve merged annotations", err)
	}

	routeType := typeNameOf(Route{})
	route := annotations.Get(routeType)
	if !route.IsPresent() {
		fail("lookup Route", fmt.Errorf("expected %s to be present on %s", routeType, handler))
	}

	method, err := route.GetString("Method")
	if err != nil {
		fail("read Route.Method", err)
	}
	path, err := route.GetString("Path")
	if err != nil {
		fail("read Route.Path", err)
	}
	fmt.Printf("%s %s %s\n", handler, method, path)

	asMap, err := route.AsMap(0)
	if err != nil {
		fail("AsMap Route", err)
	}
	fmt.Printf("Route as map: %v\n", asMap)

	tagType := typeNameOf(Tag{})
	for _, tag := range annotations.Stream(tagType) {
		name, err := tag.GetString("Name")
		if err != nil {
			fail("read Tag.Name", err)
		}
		fmt.Printf("tag: %s\n", name)
	}
}

func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	return t.PkgPath() + "." + t.Name()
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "anno-demo: %s: %v\n", step, err)
	os.Exit(1)
}
