package reflectprovider

import (
	"fmt"
	"reflect"

	"github.com/viant/anno/annotation"
)

// instanceFromValue builds an *annotation.Instance from v, a concrete
// annotation struct value or pointer to one. Nested annotation fields
// (struct or *struct) are recursively converted; slices of either become
// []*annotation.Instance.
func instanceFromValue(v any) (*annotation.Instance, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("reflectprovider: nil annotation instance")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("reflectprovider: %s is not an annotation struct", rv.Kind())
	}
	t := rv.Type()
	values := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		attr, ok := fieldAttribute(f)
		if !ok {
			continue
		}
		fv := rv.Field(i)
		converted, err := convertFieldValue(attr.Kind, fv)
		if err != nil {
			return nil, fmt.Errorf("reflectprovider: field %s of %s: %w", f.Name, typeName(t), err)
		}
		values[attr.Name] = converted
	}
	return annotation.NewInstance(typeName(t), values), nil
}

func convertFieldValue(kind annotation.Kind, fv reflect.Value) (any, error) {
	switch kind {
	case annotation.KindAnnotation:
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			return nil, nil
		}
		return instanceFromValue(fv.Interface())
	case annotation.KindAnnotationArray:
		out := make([]*annotation.Instance, 0, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			inst, err := instanceFromValue(fv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, inst)
		}
		return out, nil
	case annotation.KindString, annotation.KindClass, annotation.KindEnum:
		return scalarString(fv), nil
	case annotation.KindBool:
		return fv.Bool(), nil
	case annotation.KindInt:
		return int(fv.Int()), nil
	case annotation.KindInt64:
		return fv.Int(), nil
	case annotation.KindFloat64:
		return fv.Float(), nil
	case annotation.KindStringArray, annotation.KindClassArray, annotation.KindEnumArray:
		out := make([]string, fv.Len())
		for i := range out {
			out[i] = scalarString(fv.Index(i))
		}
		return out, nil
	case annotation.KindBoolArray:
		out := make([]bool, fv.Len())
		for i := range out {
			out[i] = fv.Index(i).Bool()
		}
		return out, nil
	case annotation.KindIntArray:
		out := make([]int, fv.Len())
		for i := range out {
			out[i] = int(fv.Index(i).Int())
		}
		return out, nil
	case annotation.KindInt64Array:
		out := make([]int64, fv.Len())
		for i := range out {
			out[i] = fv.Index(i).Int()
		}
		return out, nil
	case annotation.KindFloat64Array:
		out := make([]float64, fv.Len())
		for i := range out {
			out[i] = fv.Index(i).Float()
		}
		return out, nil
	default:
		return fv.Interface(), nil
	}
}

// scalarString renders a string-kinded field (plain string or a named
// string/enum type) as a plain string, so resolved values always satisfy a
// `.(string)` type assertion regardless of the declaring field's Go type.
func scalarString(fv reflect.Value) string {
	for fv.Kind() == reflect.Ptr {
		fv = fv.Elem()
	}
	return fv.String()
}
