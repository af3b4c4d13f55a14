// Package astprovider is a reference IntrospectionProvider (spec §6) over
// statically parsed Go source: it loads a package graph with
// golang.org/x/tools/go/packages and walks go/ast struct declarations and
// doc comments, for callers who want annotation resolution without loading
// (or even being able to load) the target types at runtime — e.g. a
// generator or linter running against source it will never compile into its
// own process, the same problem inspector/golang solves for this repo's
// teacher.
//
// Declared annotations are expressed as doc-comment pragmas directly above
// a type or function declaration:
//
//	// anno:Route(path=/users,method=GET)
//	type ListUsers struct{}
//
// Struct fields of an annotation type carry the same `anno:"alias=...,
// default=..."` tag grammar reflectprovider reads, parsed here out of the
// raw tag string literal instead of through reflect.
package astprovider

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedImports | packages.NeedDeps

// Provider is a concrete IntrospectionProvider over a statically loaded,
// type-checked (but not executed) package graph.
type Provider struct {
	fset     *token.FileSet
	pkgs     []*packages.Package
	types    map[string]*typeDecl                 // qualified type name -> declaration
	methods  map[string]map[string]*ast.FuncDecl  // owning type name -> method name -> decl
	classes  map[string][]*annotation.Instance     // owning type name -> declared annotations
	methAnno map[string]map[string][]*annotation.Instance

	rawClassPragmas  map[string][]rawPragma
	rawMethodPragmas map[string]map[string][]rawPragma
}

type typeDecl struct {
	pkgPath string
	name    string
	spec    *ast.TypeSpec
	strct   *ast.StructType   // nil if not a struct
	doc     *ast.CommentGroup // the declaration's doc comment (GenDecl or TypeSpec)
}

// Load parses and loads every package matching patterns (go/packages query
// syntax, e.g. "./...") and indexes its struct types, methods, and
// `anno:` pragmas.
func Load(patterns ...string) (*Provider, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{Mode: loadMode, Fset: fset, ParseFile: parseWithComments}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("astprovider: loading %v: %w", patterns, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("astprovider: errors loading %v", patterns)
	}

	p := &Provider{
		fset:             fset,
		pkgs:             pkgs,
		types:            map[string]*typeDecl{},
		methods:          map[string]map[string]*ast.FuncDecl{},
		classes:          map[string][]*annotation.Instance{},
		methAnno:         map[string]map[string][]*annotation.Instance{},
		rawClassPragmas:  map[string][]rawPragma{},
		rawMethodPragmas: map[string]map[string][]rawPragma{},
	}
	for _, pkg := range pkgs {
		p.indexPackage(pkg)
	}
	if err := p.resolvePragmas(); err != nil {
		return nil, err
	}
	return p, nil
}

// resolvePragmas coerces every collected doc-comment pragma into a concrete
// *annotation.Instance, now that every loaded type's Attributes are
// available regardless of declaration order across files/packages.
func (p *Provider) resolvePragmas() error {
	for owner, raws := range p.rawClassPragmas {
		for _, raw := range raws {
			inst, err := p.resolvePragma(raw)
			if err != nil {
				return fmt.Errorf("astprovider: %s: %w", owner, err)
			}
			p.classes[owner] = append(p.classes[owner], inst)
		}
	}
	for owner, byMethod := range p.rawMethodPragmas {
		for method, raws := range byMethod {
			for _, raw := range raws {
				inst, err := p.resolvePragma(raw)
				if err != nil {
					return fmt.Errorf("astprovider: %s.%s: %w", owner, method, err)
				}
				if p.methAnno[owner] == nil {
					p.methAnno[owner] = map[string][]*annotation.Instance{}
				}
				p.methAnno[owner][method] = append(p.methAnno[owner][method], inst)
			}
		}
	}
	return nil
}

func parseWithComments(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fset, filename, src, parser.ParseComments)
}

func (p *Provider) indexPackage(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					qualified := pkg.PkgPath + "." + ts.Name.Name
					strct, _ := ts.Type.(*ast.StructType)
					doc := d.Doc
					if doc == nil {
						doc = ts.Doc
					}
					p.types[qualified] = &typeDecl{pkgPath: pkg.PkgPath, name: ts.Name.Name, spec: ts, strct: strct, doc: doc}
					p.rawClassPragmas[qualified] = append(p.rawClassPragmas[qualified], parsePragmaLines(doc, pkg.PkgPath)...)
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}
				owner := qualifiedReceiver(pkg.PkgPath, d.Recv.List[0].Type)
				if owner == "" {
					continue
				}
				if p.methods[owner] == nil {
					p.methods[owner] = map[string]*ast.FuncDecl{}
				}
				p.methods[owner][d.Name.Name] = d
				if p.rawMethodPragmas[owner] == nil {
					p.rawMethodPragmas[owner] = map[string][]rawPragma{}
				}
				p.rawMethodPragmas[owner][d.Name.Name] = append(p.rawMethodPragmas[owner][d.Name.Name], parsePragmaLines(d.Doc, pkg.PkgPath)...)
			}
		}
	}
}

func qualifiedReceiver(pkgPath string, expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	id, ok := expr.(*ast.Ident)
	if !ok {
		return ""
	}
	return pkgPath + "." + id.Name
}

// DeclaredAnnotations implements annotation.IntrospectionProvider.
func (p *Provider) DeclaredAnnotations(element annotation.Element) ([]*annotation.Instance, error) {
	switch e := element.(type) {
	case ClassElement:
		return p.classes[string(e)], nil
	case MethodElement:
		return p.methAnno[e.Owner][e.Name], nil
	default:
		return nil, fmt.Errorf("astprovider: unsupported element %T", element)
	}
}

// MetaAnnotations implements annotation.IntrospectionProvider.
func (p *Provider) MetaAnnotations(annotationType string) ([]*annotation.Instance, error) {
	return p.classes[annotationType], nil
}

// Attributes implements annotation.IntrospectionProvider.
func (p *Provider) Attributes(annotationType string) ([]annotation.Attribute, error) {
	decl, ok := p.types[annotationType]
	if !ok || decl.strct == nil {
		return nil, errkind.Wrap(annotationType, fmt.Errorf("astprovider: type not indexed or not a struct"))
	}
	var attrs []annotation.Attribute
	for _, field := range decl.strct.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded field: hierarchy, not an attribute
		}
		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			attrs = append(attrs, fieldToAttribute(name.Name, field, decl.pkgPath))
		}
	}
	return attrs, nil
}

// Superclass implements annotation.IntrospectionProvider: the type named by
// typeName's single embedded struct-typed field.
func (p *Provider) Superclass(typeName string) (string, bool, error) {
	decl, ok := p.types[typeName]
	if !ok || decl.strct == nil {
		return "", false, nil
	}
	for _, field := range decl.strct.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		if name := exprTypeName(field.Type, decl.pkgPath); name != "" {
			if target, ok := p.types[name]; ok && target.strct != nil {
				return name, true, nil
			}
		}
	}
	return "", false, nil
}

// Interfaces implements annotation.IntrospectionProvider: embedded
// interface-typed fields whose target is not itself a loaded struct.
func (p *Provider) Interfaces(typeName string) ([]string, error) {
	decl, ok := p.types[typeName]
	if !ok || decl.strct == nil {
		return nil, nil
	}
	var out []string
	for _, field := range decl.strct.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		name := exprTypeName(field.Type, decl.pkgPath)
		if name == "" {
			continue
		}
		if target, ok := p.types[name]; ok && target.strct != nil {
			continue // handled as Superclass
		}
		out = append(out, name)
	}
	return out, nil
}

// TypeName implements annotation.IntrospectionProvider.
func (p *Provider) TypeName(element annotation.Element) (string, error) {
	switch e := element.(type) {
	case ClassElement:
		return string(e), nil
	case MethodElement:
		return e.Owner, nil
	default:
		return "", fmt.Errorf("astprovider: unsupported element %T", element)
	}
}

// IsMethod implements annotation.IntrospectionProvider.
func (p *Provider) IsMethod(element annotation.Element) bool {
	_, ok := element.(MethodElement)
	return ok
}

// DeclaringMethodsMatching implements annotation.IntrospectionProvider:
// typeName's own method of the same name as original, if declared.
func (p *Provider) DeclaringMethodsMatching(typeName string, original annotation.Element) ([]annotation.Element, error) {
	orig, ok := original.(MethodElement)
	if !ok {
		return nil, fmt.Errorf("astprovider: original element is not a method")
	}
	if _, declared := p.methods[typeName][orig.Name]; !declared {
		return nil, nil
	}
	return []annotation.Element{MethodElement{Owner: typeName, Name: orig.Name}}, nil
}

// IsBridge always reports false: statically parsed Go source has no
// compiler-generated bridge methods.
func (p *Provider) IsBridge(annotation.Element) bool { return false }

// BridgedTarget always reports ok=false, mirroring IsBridge.
func (p *Provider) BridgedTarget(annotation.Element) (annotation.Element, bool) { return nil, false }

// IsInherited implements annotation.IntrospectionProvider: annotationType
// carries the inheritance flag if its doc comment includes `anno:inherited`.
func (p *Provider) IsInherited(annotationType string) (bool, error) {
	decl, ok := p.types[annotationType]
	if !ok {
		return false, nil
	}
	doc := decl.doc
	if doc == nil {
		return false, nil
	}
	for _, c := range doc.List {
		if strings.Contains(c.Text, "anno:inherited") {
			return true, nil
		}
	}
	return false, nil
}
