package annotation

// Self is the sentinel TargetAnnotation value meaning "this same annotation"
// (§3 AliasDeclaration: target_annotation = SELF).
const Self = ""

// AliasDeclaration is one `@AliasFor` recognized on an attribute (§3, §6).
// TargetAnnotation of Self means an intra-annotation mirror; any other value
// names a meta-annotation type this attribute overrides. TargetAttribute,
// when empty, defaults to the declaring attribute's own name.
//
// RawAttribute and RawValue preserve the declaration's separate `attribute`
// and legacy `value` fields (§6: "`attribute`... and a legacy `value` alias
// of `attribute`") before a provider collapses them into TargetAttribute.
// Left empty when a provider's tag grammar only ever supplies one spelling.
// mapping.Build compares them to raise ambiguous-alias-declaration (§4.4)
// when both are set to different non-empty names.
type AliasDeclaration struct {
	TargetAnnotation string
	TargetAttribute  string

	RawAttribute string
	RawValue     string
}

// Attribute is one named slot of an annotation type (§3). Identity is
// (owning type, Name).
type Attribute struct {
	Name       string
	Kind       Kind
	EnumType   string // populated when Kind is KindEnum or KindEnumArray
	NestedType string // populated when Kind is KindAnnotation or KindAnnotationArray
	HasDefault bool
	Default    any
	Aliases    []AliasDeclaration
}

// CanThrowTypeNotPresent mirrors Kind.CanThrowTypeNotPresent for convenience
// at call sites that only hold an Attribute.
func (a Attribute) CanThrowTypeNotPresent() bool { return a.Kind.CanThrowTypeNotPresent() }
