package reflectprovider

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/anno/annotation"
)

// tagKey is the struct tag this provider reads for attribute name overrides,
// @AliasFor declarations, and default values:
//
//	type Valid struct {
//	    Message string `anno:"name=message,default=invalid value"`
//	    Key     string `anno:"alias=message"`                    // mirror (Self)
//	    Path    string `anno:"alias=example.com/app.Route.path"` // alias to meta-annotation
//	}
//
// aliasValue carries the legacy `value` spelling of the same declaration
// (§6). A field normally sets only one of alias/aliasValue; setting both to
// different targets reproduces an ambiguous @AliasFor(value=X, attribute=Y)
// declaration and is flagged at mapping construction time, not here.
type tagKey = string

const annoTag tagKey = "anno"

// fieldAttribute derives one Attribute from a struct field. typeName
// resolves nested-annotation field types to their registered type name.
func fieldAttribute(f reflect.StructField) (annotation.Attribute, bool) {
	if f.Anonymous || !f.IsExported() {
		return annotation.Attribute{}, false
	}
	tag := parseTag(f.Tag.Get(annoTag))
	name := f.Name
	if tag.name != "" {
		name = tag.name
	}

	kind, enumType, nestedType := kindOf(f.Type)
	attr := annotation.Attribute{Name: name, Kind: kind, EnumType: enumType, NestedType: nestedType}

	if tag.alias != "" || tag.aliasValue != "" {
		attr.Aliases = append(attr.Aliases, parseAlias(tag.alias, tag.aliasValue))
	}
	if tag.hasDefault {
		def, err := parseDefault(kind, tag.defaultValue)
		if err == nil {
			attr.HasDefault = true
			attr.Default = def
		}
	}
	return attr, true
}

type parsedTag struct {
	name         string
	alias        string
	aliasValue   string
	hasDefault   bool
	defaultValue string
}

// parseTag reads the comma-separated anno struct tag grammar:
// name=x, alias=Target, aliasValue=Target, default=v. Any key may be omitted.
func parseTag(raw string) parsedTag {
	var t parsedTag
	if raw == "" {
		return t
	}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "name":
			t.name = kv[1]
		case "alias":
			t.alias = kv[1]
		case "aliasValue":
			t.aliasValue = kv[1]
		case "default":
			t.hasDefault = true
			t.defaultValue = kv[1]
		}
	}
	return t
}

// parseAlias builds the AliasDeclaration for one field's alias/aliasValue
// pair. "message" (no dot-qualified type) means a Self mirror;
// "pkg/path.Type.field" means an override of that meta-annotation's
// attribute. attributeForm takes precedence for TargetAnnotation/
// TargetAttribute when both forms are set; RawAttribute/RawValue keep the
// two spellings separate so mapping.Build can detect disagreement between
// them.
func parseAlias(attributeForm, valueForm string) annotation.AliasDeclaration {
	primary := attributeForm
	if primary == "" {
		primary = valueForm
	}
	decl := splitAlias(primary)
	decl.RawAttribute = attributeForm
	decl.RawValue = valueForm
	return decl
}

func splitAlias(raw string) annotation.AliasDeclaration {
	idx := strings.LastIndex(raw, ".")
	if idx < 0 {
		return annotation.AliasDeclaration{TargetAnnotation: annotation.Self, TargetAttribute: raw}
	}
	return annotation.AliasDeclaration{TargetAnnotation: raw[:idx], TargetAttribute: raw[idx+1:]}
}

func parseDefault(kind annotation.Kind, raw string) (any, error) {
	switch kind {
	case annotation.KindString, annotation.KindClass, annotation.KindEnum:
		return raw, nil
	case annotation.KindBool:
		return strconv.ParseBool(raw)
	case annotation.KindInt:
		v, err := strconv.Atoi(raw)
		return v, err
	case annotation.KindInt64:
		return strconv.ParseInt(raw, 10, 64)
	case annotation.KindFloat64:
		return strconv.ParseFloat(raw, 64)
	default:
		return nil, fmt.Errorf("reflectprovider: no literal default form for kind %s", kind)
	}
}

// kindOf maps a Go field type to the attribute Kind taxonomy (§4.1). Structs
// (and pointers/slices of structs) are treated as nested annotations,
// identified by their registered type name; named string types are enums
// (EnumType set to their type name); every other named basic type falls back
// to its underlying kind.
func kindOf(t reflect.Type) (kind annotation.Kind, enumType, nestedType string) {
	if t.Kind() == reflect.Slice {
		elemKind, elemEnum, elemNested := scalarKindOf(t.Elem())
		return arrayKindOf(elemKind), elemEnum, elemNested
	}
	return scalarKindOf(t)
}

func scalarKindOf(t reflect.Type) (kind annotation.Kind, enumType, nestedType string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		if t.Name() != "string" {
			return annotation.KindEnum, typeName(t), ""
		}
		return annotation.KindString, "", ""
	case reflect.Bool:
		return annotation.KindBool, "", ""
	case reflect.Int, reflect.Int32:
		return annotation.KindInt, "", ""
	case reflect.Int64:
		return annotation.KindInt64, "", ""
	case reflect.Float32, reflect.Float64:
		return annotation.KindFloat64, "", ""
	case reflect.Struct:
		return annotation.KindAnnotation, "", typeName(t)
	default:
		return annotation.KindString, "", ""
	}
}

func arrayKindOf(elem annotation.Kind) annotation.Kind {
	switch elem {
	case annotation.KindString:
		return annotation.KindStringArray
	case annotation.KindBool:
		return annotation.KindBoolArray
	case annotation.KindInt:
		return annotation.KindIntArray
	case annotation.KindInt64:
		return annotation.KindInt64Array
	case annotation.KindFloat64:
		return annotation.KindFloat64Array
	case annotation.KindClass:
		return annotation.KindClassArray
	case annotation.KindEnum:
		return annotation.KindEnumArray
	case annotation.KindAnnotation:
		return annotation.KindAnnotationArray
	default:
		return annotation.KindStringArray
	}
}

// typeName builds the fully-qualified name this provider uses for a Go
// type: its package path joined with its name. Unexported/unnamed types
// (e.g. local anonymous structs) are not valid annotation types.
func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
