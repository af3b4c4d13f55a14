package reflectprovider

// Inherited is embedded by an annotation struct to mark it carrying the
// language-level inheritance flag (the @Inherited analogue): a class-level
// instance of such an annotation type propagates to subclasses that don't
// redeclare it (spec §4.5, INHERITED_ANNOTATIONS strategy).
type Inherited struct{}
