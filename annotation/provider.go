package annotation

// Element is an opaque handle to a source program element — a class,
// interface, method, or constructor. Its concrete representation belongs
// entirely to the IntrospectionProvider implementation (§6); the core never
// inspects it directly.
type Element any

// IntrospectionProvider is the sole reflection surface the core consumes
// (§1, §6). It is deliberately narrow: everything about *how* a language
// exposes types, attributes, and hierarchy lives behind it, so the core
// never touches raw reflection or byte-code.
type IntrospectionProvider interface {
	// DeclaredAnnotations returns the annotations declared directly on
	// element, in declaration order.
	DeclaredAnnotations(element Element) ([]*Instance, error)

	// MetaAnnotations returns the annotations declared directly on the
	// given annotation type, in declaration order.
	MetaAnnotations(annotationType string) ([]*Instance, error)

	// Attributes returns the attribute descriptors of an annotation type,
	// in declaration order (AttributeMethods sorts them).
	Attributes(annotationType string) ([]Attribute, error)

	// Superclass returns the superclass type name of typeName, or ok=false
	// if typeName has none (interface or root class).
	Superclass(typeName string) (name string, ok bool, err error)

	// Interfaces returns the interfaces typeName directly declares.
	Interfaces(typeName string) ([]string, error)

	// TypeName returns the fully-qualified owning type name for a class,
	// interface, or method element.
	TypeName(element Element) (string, error)

	// IsMethod reports whether element represents a method or constructor
	// rather than a class or interface.
	IsMethod(element Element) bool

	// DeclaringMethodsMatching returns the methods on typeName that match
	// (override or declare-for-the-same-signature-as) original, an element
	// previously obtained from this or another type in the hierarchy.
	DeclaringMethodsMatching(typeName string, original Element) ([]Element, error)

	// IsBridge reports whether method is a compiler-generated bridge.
	IsBridge(method Element) bool

	// BridgedTarget returns the method a bridge forwards to.
	BridgedTarget(method Element) (Element, bool)

	// IsInherited reports whether annotationType carries the language-level
	// inheritance marker.
	IsInherited(annotationType string) (bool, error)
}
