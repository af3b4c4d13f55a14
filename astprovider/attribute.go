package astprovider

import (
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/anno/annotation"
)

// fieldToAttribute derives an Attribute from a single named struct field,
// reading the same `anno:"name=...,alias=...,default=..."` tag grammar
// reflectprovider reads via reflect, here parsed out of the raw tag string
// literal in source.
func fieldToAttribute(fieldName string, field *ast.Field, pkgPath string) annotation.Attribute {
	kind, enumType, nestedType := exprKind(field.Type, pkgPath)
	attr := annotation.Attribute{Name: fieldName, Kind: kind, EnumType: enumType, NestedType: nestedType}

	raw := tagValue(field)
	tag := parseTag(raw)
	if tag.name != "" {
		attr.Name = tag.name
	}
	if tag.alias != "" || tag.aliasValue != "" {
		attr.Aliases = append(attr.Aliases, parseAlias(tag.alias, tag.aliasValue))
	}
	if tag.hasDefault {
		if def, err := parseDefault(kind, tag.defaultValue); err == nil {
			attr.HasDefault = true
			attr.Default = def
		}
	}
	return attr
}

func tagValue(field *ast.Field) string {
	if field.Tag == nil {
		return ""
	}
	unquoted, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return ""
	}
	return reflect.StructTag(unquoted).Get("anno")
}

type parsedTag struct {
	name         string
	alias        string
	aliasValue   string
	hasDefault   bool
	defaultValue string
}

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

// parseAlias mirrors reflectprovider's: attributeForm takes precedence for
// the resolved target, RawAttribute/RawValue keep both spellings separate
// so mapping.Build can flag disagreement between them.
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
		return raw, nil
	}
}

// exprKind maps a field's type expression to the attribute Kind taxonomy.
// Identifiers resolved against known basic-type names fall back to scalar
// kinds; any other named type is treated as a nested annotation reference
// qualified by pkgPath (the field's own declaring package — sufficient for
// same-package annotation composition; cross-package nested annotations
// should use a selector expression, handled below).
func exprKind(expr ast.Expr, pkgPath string) (kind annotation.Kind, enumType, nestedType string) {
	if arr, ok := expr.(*ast.ArrayType); ok && arr.Len == nil {
		elemKind, elemEnum, elemNested := exprKind(arr.Elt, pkgPath)
		return arrayKind(elemKind), elemEnum, elemNested
	}
	return scalarExprKind(expr, pkgPath)
}

func scalarExprKind(expr ast.Expr, pkgPath string) (kind annotation.Kind, enumType, nestedType string) {
	switch e := expr.(type) {
	case *ast.Ident:
		switch e.Name {
		case "string":
			return annotation.KindString, "", ""
		case "bool":
			return annotation.KindBool, "", ""
		case "int", "int32":
			return annotation.KindInt, "", ""
		case "int64":
			return annotation.KindInt64, "", ""
		case "float32", "float64":
			return annotation.KindFloat64, "", ""
		default:
			// A named, non-builtin identifier: could be an enum-like string
			// alias or a same-package nested annotation struct. Without
			// type-checking info this provider treats it as a nested
			// annotation reference, the more common case for attribute
			// composition (spec §3).
			return annotation.KindAnnotation, "", pkgPath + "." + e.Name
		}
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			return annotation.KindAnnotation, "", pkg.Name + "." + e.Sel.Name
		}
	case *ast.StarExpr:
		return scalarExprKind(e.X, pkgPath)
	}
	return annotation.KindString, "", ""
}

func arrayKind(elem annotation.Kind) annotation.Kind {
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

// exprTypeName renders an (embedded-field) type expression to a qualified
// type name the same way fieldToAttribute's nested-annotation resolution
// does, used by Superclass/Interfaces.
func exprTypeName(expr ast.Expr, pkgPath string) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return pkgPath + "." + e.Name
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			return pkg.Name + "." + e.Sel.Name
		}
	case *ast.StarExpr:
		return exprTypeName(e.X, pkgPath)
	}
	return ""
}
