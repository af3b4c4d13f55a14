package astprovider

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"github.com/viant/anno/annotation"
)

// rawPragma is one parsed `// anno:Type(k=v,...)` doc-comment line, before
// its attribute kinds are known (annotation types may be declared anywhere
// in the loaded package graph, so coercion happens in a resolve pass after
// every type is indexed).
type rawPragma struct {
	typeName string
	values   map[string]string
	order    []string
}

const pragmaPrefix = "anno:"

// parsePragmaLines scans doc's lines for `anno:Type(...)` pragmas. typeName
// may be bare (resolved against pkgPath) or already package-qualified
// (pkg.Type).
func parsePragmaLines(doc *ast.CommentGroup, pkgPath string) []rawPragma {
	if doc == nil {
		return nil
	}
	var out []rawPragma
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		text = strings.TrimSpace(strings.TrimPrefix(text, "/*"))
		if !strings.HasPrefix(text, pragmaPrefix) {
			continue
		}
		text = strings.TrimPrefix(text, pragmaPrefix)
		open := strings.Index(text, "(")
		if open < 0 || !strings.HasSuffix(text, ")") {
			continue
		}
		name := strings.TrimSpace(text[:open])
		if !strings.Contains(name, ".") {
			name = pkgPath + "." + name
		}
		body := text[open+1 : len(text)-1]
		p := rawPragma{typeName: name, values: map[string]string{}}
		if strings.TrimSpace(body) == "" {
			out = append(out, p)
			continue
		}
		for _, kv := range strings.Split(body, ",") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			p.values[key] = strings.TrimSpace(parts[1])
			p.order = append(p.order, key)
		}
		out = append(out, p)
	}
	return out
}

// resolvePragma turns a rawPragma into a concrete *annotation.Instance,
// coercing each value according to the annotation type's known attribute
// kind.
func (p *Provider) resolvePragma(raw rawPragma) (*annotation.Instance, error) {
	attrs, err := p.Attributes(raw.typeName)
	if err != nil {
		return nil, fmt.Errorf("pragma references unknown annotation type %s: %w", raw.typeName, err)
	}
	kindOf := map[string]annotation.Kind{}
	for _, a := range attrs {
		kindOf[a.Name] = a.Kind
	}
	values := make(map[string]any, len(raw.values))
	for name, raw := range raw.values {
		values[name] = coerce(kindOf[name], raw)
	}
	return annotation.NewInstance(raw.typeName, values), nil
}

func coerce(kind annotation.Kind, raw string) any {
	switch kind {
	case annotation.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false
		}
		return v
	case annotation.KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0
		}
		return v
	case annotation.KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return int64(0)
		}
		return v
	case annotation.KindFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return float64(0)
		}
		return v
	case annotation.KindStringArray, annotation.KindClassArray, annotation.KindEnumArray:
		if raw == "" {
			return []string{}
		}
		return strings.Split(raw, "|")
	default:
		return raw
	}
}
