package annotation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/anno/annotation"
)

func TestKind_IsArray(t *testing.T) {
	assert.True(t, annotation.KindStringArray.IsArray())
	assert.True(t, annotation.KindAnnotationArray.IsArray())
	assert.False(t, annotation.KindString.IsArray())
	assert.False(t, annotation.KindInvalid.IsArray())
}

func TestKind_Elem(t *testing.T) {
	cases := map[annotation.Kind]annotation.Kind{
		annotation.KindStringArray:     annotation.KindString,
		annotation.KindBoolArray:       annotation.KindBool,
		annotation.KindIntArray:        annotation.KindInt,
		annotation.KindInt64Array:      annotation.KindInt64,
		annotation.KindFloat64Array:    annotation.KindFloat64,
		annotation.KindClassArray:      annotation.KindClass,
		annotation.KindEnumArray:       annotation.KindEnum,
		annotation.KindAnnotationArray: annotation.KindAnnotation,
		annotation.KindString:          annotation.KindString, // scalar: Elem is itself
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Elem(), "kind %s", k)
	}
}

func TestKind_CanThrowTypeNotPresent(t *testing.T) {
	assert.True(t, annotation.KindClass.CanThrowTypeNotPresent())
	assert.True(t, annotation.KindClassArray.CanThrowTypeNotPresent())
	assert.False(t, annotation.KindString.CanThrowTypeNotPresent())
	assert.False(t, annotation.KindAnnotation.CanThrowTypeNotPresent())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "string", annotation.KindString.String())
	assert.Equal(t, "annotation[]", annotation.KindAnnotationArray.String())
	assert.Equal(t, "invalid", annotation.KindInvalid.String())
	assert.Equal(t, "invalid", annotation.Kind(999).String())
}
