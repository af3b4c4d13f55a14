package reflectprovider

import "reflect"

// MethodElement is an Element representing a method: a struct type and one
// of its declared method names. Go has no runtime method-object identity
// distinct from (type, name), so this pair stands in for the Java
// Method/Constructor handle the core's IntrospectionProvider interface was
// modeled on.
type MethodElement struct {
	Owner reflect.Type
	Name  string
}
