// Package reflectprovider is a reference IntrospectionProvider (spec §6)
// built on Go's reflect package: annotation types are plain Go structs,
// their attributes are exported fields (struct tags carry @AliasFor
// declarations and default values), and "declared annotations" on a source
// element are registered explicitly against its reflect.Type, the same way
// a generated-code registry (protobuf, OpenAPI codegen) would wire metadata
// that the language itself has no syntax for attaching structurally.
package reflectprovider

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
)

// Provider is a concrete IntrospectionProvider over registered Go types.
// Safe for concurrent reads once registration is complete; registration
// itself is expected at init/setup time, not on the hot query path.
type Provider struct {
	mu sync.RWMutex

	types       map[string]reflect.Type                     // type name -> reflect.Type, for classes and annotation types alike
	classDecls  map[string][]*annotation.Instance            // owning type name -> declared annotations
	methodDecls map[string]map[string][]*annotation.Instance // owning type name -> method name -> declared annotations
	containers  map[string]containerOf                       // container/repeatable type name -> pairing
}

// New creates an empty Provider.
func New() *Provider {
	return &Provider{
		types:       map[string]reflect.Type{},
		classDecls:  map[string][]*annotation.Instance{},
		methodDecls: map[string]map[string][]*annotation.Instance{},
	}
}

// RegisterType makes t resolvable by name (TypeName/Superclass/Interfaces/
// Attributes all key off this registry). Call it for every class and every
// annotation type this Provider will be asked about.
func (p *Provider) RegisterType(t reflect.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types[typeName(t)] = t
}

// Declare registers the annotation instances (each a struct value or
// pointer to one) as directly declared on owner — either a class/interface
// type (DeclaredAnnotations on a class element) or an annotation type
// (MetaAnnotations, since meta-annotations are just annotations declared on
// an annotation type).
func (p *Provider) Declare(owner reflect.Type, instances ...any) error {
	p.RegisterType(owner)
	built, err := buildInstances(instances)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	name := typeName(owner)
	p.classDecls[name] = append(p.classDecls[name], built...)
	return nil
}

// DeclareMethod registers instances as declared directly on owner's method
// methodName.
func (p *Provider) DeclareMethod(owner reflect.Type, methodName string, instances ...any) error {
	p.RegisterType(owner)
	built, err := buildInstances(instances)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	name := typeName(owner)
	if p.methodDecls[name] == nil {
		p.methodDecls[name] = map[string][]*annotation.Instance{}
	}
	p.methodDecls[name][methodName] = append(p.methodDecls[name][methodName], built...)
	return nil
}

func buildInstances(values []any) ([]*annotation.Instance, error) {
	out := make([]*annotation.Instance, 0, len(values))
	for _, v := range values {
		inst, err := instanceFromValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func (p *Provider) resolve(name string) (reflect.Type, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.types[name]
	return t, ok
}

// DeclaredAnnotations implements annotation.IntrospectionProvider.
func (p *Provider) DeclaredAnnotations(element annotation.Element) ([]*annotation.Instance, error) {
	switch e := element.(type) {
	case reflect.Type:
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.classDecls[typeName(e)], nil
	case MethodElement:
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.methodDecls[typeName(e.Owner)][e.Name], nil
	default:
		return nil, fmt.Errorf("reflectprovider: unsupported element %T", element)
	}
}

// MetaAnnotations implements annotation.IntrospectionProvider: the
// annotations declared directly on annotationType, read from the same
// class-declaration registry Declare populates.
func (p *Provider) MetaAnnotations(annotationType string) ([]*annotation.Instance, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.classDecls[annotationType], nil
}

// Attributes implements annotation.IntrospectionProvider.
func (p *Provider) Attributes(annotationType string) ([]annotation.Attribute, error) {
	t, ok := p.resolve(annotationType)
	if !ok {
		return nil, errkind.Wrap(annotationType, fmt.Errorf("type not registered"))
	}
	var attrs []annotation.Attribute
	for i := 0; i < t.NumField(); i++ {
		if attr, ok := fieldAttribute(t.Field(i)); ok {
			attrs = append(attrs, attr)
		}
	}
	return attrs, nil
}

// Superclass implements annotation.IntrospectionProvider: the type named by
// typeName's single anonymous struct-kinded embedded field, if any.
func (p *Provider) Superclass(typeName string) (string, bool, error) {
	t, ok := p.resolve(typeName)
	if !ok {
		return "", false, nil
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(Inherited{}) {
			return superName(f.Type), true, nil
		}
	}
	return "", false, nil
}

// Interfaces implements annotation.IntrospectionProvider: the types named
// by typeName's anonymous interface-kinded embedded fields.
func (p *Provider) Interfaces(typeNameStr string) ([]string, error) {
	t, ok := p.resolve(typeNameStr)
	if !ok {
		return nil, nil
	}
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Interface {
			out = append(out, f.Type.PkgPath()+"."+f.Type.Name())
		}
	}
	return out, nil
}

// TypeName implements annotation.IntrospectionProvider.
func (p *Provider) TypeName(element annotation.Element) (string, error) {
	switch e := element.(type) {
	case reflect.Type:
		return typeName(e), nil
	case MethodElement:
		return typeName(e.Owner), nil
	default:
		return "", fmt.Errorf("reflectprovider: unsupported element %T", element)
	}
}

// IsMethod implements annotation.IntrospectionProvider.
func (p *Provider) IsMethod(element annotation.Element) bool {
	_, ok := element.(MethodElement)
	return ok
}

// DeclaringMethodsMatching implements annotation.IntrospectionProvider:
// returns typeName's own declared method of the same name as original, if
// any — Go has no virtual-override identity beyond name/signature match, so
// same-name is this provider's matching rule.
func (p *Provider) DeclaringMethodsMatching(typeNameStr string, original annotation.Element) ([]annotation.Element, error) {
	orig, ok := original.(MethodElement)
	if !ok {
		return nil, fmt.Errorf("reflectprovider: original element is not a method")
	}
	t, ok := p.resolve(typeNameStr)
	if !ok {
		return nil, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, declared := p.methodDecls[typeNameStr][orig.Name]; !declared {
		return nil, nil
	}
	return []annotation.Element{MethodElement{Owner: t, Name: orig.Name}}, nil
}

// IsBridge always reports false: Go has no compiler-generated bridge
// methods (a JVM generics-erasure artifact).
func (p *Provider) IsBridge(annotation.Element) bool { return false }

// BridgedTarget always reports ok=false, mirroring IsBridge.
func (p *Provider) BridgedTarget(annotation.Element) (annotation.Element, bool) { return nil, false }

// IsInherited implements annotation.IntrospectionProvider: annotationType
// carries the inheritance flag if its struct embeds Inherited.
func (p *Provider) IsInherited(annotationType string) (bool, error) {
	t, ok := p.resolve(annotationType)
	if !ok {
		return false, nil
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == reflect.TypeOf(Inherited{}) {
			return true, nil
		}
	}
	return false, nil
}

func superName(t reflect.Type) string { return typeName(t) }
