package annotation

// Kind is the declared value kind of an attribute, per spec §3: scalar
// primitive, string, class reference, enum constant, nested annotation, or a
// one-dimensional array of any of these.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindInt64
	KindFloat64
	KindClass      // a class/type reference, carried as its qualified name
	KindEnum       // an enum constant; EnumType names the enum type
	KindAnnotation // a nested annotation instance
	KindStringArray
	KindBoolArray
	KindIntArray
	KindInt64Array
	KindFloat64Array
	KindClassArray
	KindEnumArray
	KindAnnotationArray
)

// IsArray reports whether k is the array variant of some scalar kind.
func (k Kind) IsArray() bool {
	return k >= KindStringArray && k <= KindAnnotationArray
}

// Elem returns the scalar kind underlying an array kind, or k itself if k is
// already scalar.
func (k Kind) Elem() Kind {
	switch k {
	case KindStringArray:
		return KindString
	case KindBoolArray:
		return KindBool
	case KindIntArray:
		return KindInt
	case KindInt64Array:
		return KindInt64
	case KindFloat64Array:
		return KindFloat64
	case KindClassArray:
		return KindClass
	case KindEnumArray:
		return KindEnum
	case KindAnnotationArray:
		return KindAnnotation
	default:
		return k
	}
}

// CanThrowTypeNotPresent reports whether a value of this kind is read by
// resolving a class reference that may not be loadable (§4.1
// canThrowTypeNotPresentException): class-typed and class-array-typed
// attributes only.
func (k Kind) CanThrowTypeNotPresent() bool {
	return k == KindClass || k == KindClassArray
}

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "annotation"
	case KindStringArray:
		return "string[]"
	case KindBoolArray:
		return "bool[]"
	case KindIntArray:
		return "int[]"
	case KindInt64Array:
		return "int64[]"
	case KindFloat64Array:
		return "float64[]"
	case KindClassArray:
		return "class[]"
	case KindEnumArray:
		return "enum[]"
	case KindAnnotationArray:
		return "annotation[]"
	default:
		return "invalid"
	}
}
