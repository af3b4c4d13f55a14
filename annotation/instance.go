package annotation

// Instance is a realized annotation observed at a source element (§3): a
// mapping from attribute name to raw value. Immutable once constructed.
type Instance struct {
	TypeName string
	values   map[string]any
}

// NewInstance copies values so the returned Instance is safe to share
// without the caller retaining a mutable alias.
func NewInstance(typeName string, values map[string]any) *Instance {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = cloneValue(v)
	}
	return &Instance{TypeName: typeName, values: cp}
}

// Value returns the raw value for attribute name and whether it was present
// on this instance at all (as opposed to being defaulted).
func (i *Instance) Value(name string) (any, bool) {
	if i == nil {
		return nil, false
	}
	v, ok := i.values[name]
	return cloneValue(v), ok
}

// Names returns the attribute names explicitly carried on this instance.
func (i *Instance) Names() []string {
	if i == nil {
		return nil
	}
	names := make([]string, 0, len(i.values))
	for k := range i.values {
		names = append(names, k)
	}
	return names
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		c := make([]string, len(t))
		copy(c, t)
		return c
	case []bool:
		c := make([]bool, len(t))
		copy(c, t)
		return c
	case []int:
		c := make([]int, len(t))
		copy(c, t)
		return c
	case []int64:
		c := make([]int64, len(t))
		copy(c, t)
		return c
	case []float64:
		c := make([]float64, len(t))
		copy(c, t)
		return c
	case []*Instance:
		c := make([]*Instance, len(t))
		copy(c, t)
		return c
	default:
		return v
	}
}
