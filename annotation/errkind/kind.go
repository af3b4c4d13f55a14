// Package errkind implements the error taxonomy of spec §7: every failure
// mode the resolver can produce is a stable, programmatically inspectable
// value rather than a raw panic or provider exception.
package errkind

// Kind identifies one variant of the resolver's error taxonomy.
type Kind int

const (
	// Misconfiguration — construction-time, detected while building an
	// AnnotationTypeMappings and cached against the offending type.
	MissingMirroredAlias Kind = iota
	NonexistentAttribute
	IncompatibleTypes
	InconsistentDefaults
	AmbiguousAliasDeclaration
	MetaAnnotationNotPresent
	ContainerMisconfigured
	AliasPointsToItself
	SelfReferentialMissingTarget

	// Resolution-time — surfaced from the specific attribute getter that
	// triggered them.
	MirrorConflict
	ConventionConflict
	AttributeTypeMismatch
	UnknownAttribute
	MissingRequiredAttribute
	IntrospectionFailure

	// Input.
	NullArgument
	EmptyPackageElement
)

var names = map[Kind]string{
	MissingMirroredAlias:          "missing-mirrored-alias",
	NonexistentAttribute:          "nonexistent-attribute",
	IncompatibleTypes:             "incompatible-types",
	InconsistentDefaults:          "inconsistent-defaults",
	AmbiguousAliasDeclaration:     "ambiguous-alias-declaration",
	MetaAnnotationNotPresent:      "meta-annotation-not-present",
	ContainerMisconfigured:        "container-misconfigured",
	AliasPointsToItself:           "alias-points-to-itself",
	SelfReferentialMissingTarget:  "self-referential-missing-target",
	MirrorConflict:                "mirror-conflict",
	ConventionConflict:            "convention-conflict",
	AttributeTypeMismatch:         "attribute-type-mismatch",
	UnknownAttribute:              "unknown-attribute",
	MissingRequiredAttribute:      "missing-required-attribute",
	IntrospectionFailure:          "introspection-failure",
	NullArgument:                  "null-argument",
	EmptyPackageElement:           "empty-package-element",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown-error-kind"
}

// IsConstruction reports whether k belongs to the construction-time
// misconfiguration family (§7), as opposed to resolution-time or input
// errors.
func (k Kind) IsConstruction() bool {
	return k <= SelfReferentialMissingTarget
}
