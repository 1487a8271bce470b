// Package perfgen generates perfmetrics bindings and methods for a struct
// from its field tags.
//
//	type Metrics struct {
//		checkpoint time.Time           `perf_start:"markCheckpoint"`
//		WriteTime  perfmetrics.Counter `perf_time:"recordWrite" perf_instant:"checkpoint"`
//		WriteBytes perfmetrics.Counter `perf_size:"recordWriteBytes"`
//		FlushTime  perfmetrics.Counter `perf_guard:"beginFlush" perf_guard_size:"FlushBytes"`
//		FlushBytes perfmetrics.Counter
//	}
package perfgen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

const (
	TagElapsed   = "perf_elapsed"
	TagTime      = "perf_time"
	TagInstant   = "perf_instant"
	TagSize      = "perf_size"
	TagStart     = "perf_start"
	TagGuard     = "perf_guard"
	TagGuardSize = "perf_guard_size"
)

var (
	ErrStructNotFound = errors.New("perfgen: struct not found")
	ErrInvalidTag     = errors.New("perfgen: invalid tag")
)

type Kind int

const (
	ElapsedRecorder Kind = iota
	TimeRecorder
	SizeRecorder
	StartMarker
	Guard
)

type fieldType int

const (
	otherField fieldType = iota
	counterField
	instantField
)

// Binding is one generated method.
type Binding struct {
	Kind   Kind
	Method string
	// Field is the counter for recorders and guards, the instant for start
	// markers.
	Field string
	// Instant is the reference instant of elapsed and time recorders.
	Instant string
	// Size is the size counter of guards.
	Size string
}

type Struct struct {
	Package  string
	Name     string
	Bindings []Binding
}

// Parse finds the struct named name in the Go files of dir, skipping tests
// and generated files, and collects its bindings.
func Parse(dir, name string) (*Struct, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("perfgen: reading %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") || strings.HasSuffix(fileName, ".gen.go") {
			continue
		}

		f, err := parser.ParseFile(fset, filepath.Join(dir, fileName), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("perfgen: parsing %s: %w", fileName, err)
		}

		st := findStruct(f, name)
		if st == nil {
			continue
		}

		bindings, err := collect(st, fileImports(f))
		if err != nil {
			return nil, fmt.Errorf("%w: struct %s", err, name)
		}
		return &Struct{Package: f.Name.Name, Name: name, Bindings: bindings}, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrStructNotFound, name, dir)
}

func findStruct(f *ast.File, name string) *ast.StructType {
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if ts.Name.Name != name {
				continue
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				return st
			}
		}
	}
	return nil
}

// fileImports maps the names a file refers to its imports by onto their
// paths.
func fileImports(f *ast.File) map[string]string {
	out := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path[strings.LastIndex(path, "/")+1:]
		if spec.Name != nil {
			name = spec.Name.Name
		}
		out[name] = path
	}
	return out
}

func typeOf(expr ast.Expr, imports map[string]string) fieldType {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return otherField
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return otherField
	}
	switch path := imports[pkg.Name]; {
	case path == PerfmetricsImport && sel.Sel.Name == "Counter":
		return counterField
	case path == "time" && sel.Sel.Name == "Time":
		return instantField
	default:
		return otherField
	}
}

type taggedField struct {
	name string
	typ  fieldType
	tag  reflect.StructTag
}

func collect(st *ast.StructType, imports map[string]string) ([]Binding, error) {
	types := make(map[string]fieldType)
	var tagged []taggedField

	for _, field := range st.Fields.List {
		typ := typeOf(field.Type, imports)
		for _, n := range field.Names {
			types[n.Name] = typ
		}
		if field.Tag == nil {
			continue
		}
		raw, err := strconv.Unquote(field.Tag.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTag, field.Tag.Value)
		}
		tag := reflect.StructTag(raw)
		if !hasPerfTag(tag) {
			continue
		}
		if len(field.Names) != 1 {
			return nil, fmt.Errorf("%w: perf tags need exactly one field name per declaration", ErrInvalidTag)
		}
		tagged = append(tagged, taggedField{name: field.Names[0].Name, typ: typ, tag: tag})
	}

	var bindings []Binding
	methods := make(map[string]bool)
	add := func(b Binding) error {
		if methods[b.Method] {
			return fmt.Errorf("%w: duplicate method %s", ErrInvalidTag, b.Method)
		}
		methods[b.Method] = true
		bindings = append(bindings, b)
		return nil
	}

	for _, f := range tagged {
		bs, err := fieldBindings(f, types)
		if err != nil {
			return nil, err
		}
		for _, b := range bs {
			if err := add(b); err != nil {
				return nil, err
			}
		}
	}

	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: no perf tags", ErrInvalidTag)
	}
	return bindings, nil
}

func hasPerfTag(tag reflect.StructTag) bool {
	for _, key := range []string{TagElapsed, TagTime, TagInstant, TagSize, TagStart, TagGuard, TagGuardSize} {
		if _, ok := tag.Lookup(key); ok {
			return true
		}
	}
	return false
}

func fieldBindings(f taggedField, types map[string]fieldType) ([]Binding, error) {
	var bindings []Binding

	if method, ok := f.tag.Lookup(TagStart); ok {
		if f.typ != instantField {
			return nil, fmt.Errorf("%w: %s on %s requires a time.Time field", ErrInvalidTag, TagStart, f.name)
		}
		bindings = append(bindings, Binding{Kind: StartMarker, Method: method, Field: f.name})
	}

	elapsed, hasElapsed := f.tag.Lookup(TagElapsed)
	timeOnly, hasTime := f.tag.Lookup(TagTime)
	instant, hasInstant := f.tag.Lookup(TagInstant)
	if hasInstant && !hasElapsed && !hasTime {
		return nil, fmt.Errorf("%w: %s on %s without %s or %s", ErrInvalidTag, TagInstant, f.name, TagElapsed, TagTime)
	}
	if hasElapsed || hasTime {
		if f.typ != counterField {
			return nil, fmt.Errorf("%w: time recorder on %s requires a perfmetrics.Counter field", ErrInvalidTag, f.name)
		}
		if !hasInstant {
			return nil, fmt.Errorf("%w: time recorder on %s requires %s", ErrInvalidTag, f.name, TagInstant)
		}
		if types[instant] != instantField {
			return nil, fmt.Errorf("%w: %s %q on %s is not a time.Time field", ErrInvalidTag, TagInstant, instant, f.name)
		}
	}
	if hasElapsed {
		bindings = append(bindings, Binding{Kind: ElapsedRecorder, Method: elapsed, Field: f.name, Instant: instant})
	}
	if hasTime {
		bindings = append(bindings, Binding{Kind: TimeRecorder, Method: timeOnly, Field: f.name, Instant: instant})
	}

	if method, ok := f.tag.Lookup(TagSize); ok {
		if f.typ != counterField {
			return nil, fmt.Errorf("%w: %s on %s requires a perfmetrics.Counter field", ErrInvalidTag, TagSize, f.name)
		}
		bindings = append(bindings, Binding{Kind: SizeRecorder, Method: method, Field: f.name})
	}

	method, hasGuard := f.tag.Lookup(TagGuard)
	size, hasGuardSize := f.tag.Lookup(TagGuardSize)
	if hasGuardSize && !hasGuard {
		return nil, fmt.Errorf("%w: %s on %s without %s", ErrInvalidTag, TagGuardSize, f.name, TagGuard)
	}
	if hasGuard {
		if f.typ != counterField {
			return nil, fmt.Errorf("%w: %s on %s requires a Counter field", ErrInvalidTag, TagGuard, f.name)
		}
		if types[size] != counterField {
			return nil, fmt.Errorf("%w: %s %q on %s is not a Counter field", ErrInvalidTag, TagGuardSize, size, f.name)
		}
		bindings = append(bindings, Binding{Kind: Guard, Method: method, Field: f.name, Size: size})
	}

	for _, b := range bindings {
		if !token.IsIdentifier(b.Method) {
			return nil, fmt.Errorf("%w: method name %q on %s", ErrInvalidTag, b.Method, f.name)
		}
	}
	return bindings, nil
}
