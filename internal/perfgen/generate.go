package perfgen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"
)

const (
	DefaultBuildTag   = "enable_execution_duration_record"
	PerfmetricsImport = "github.com/jt828/perf-metrics/pkg/perfmetrics"
)

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by perfgen. DO NOT EDIT.

//go:build {{ .BuildTag }}

package {{ .Package }}

import (
	"time"

	"{{ .Import }}"
)
{{ range .Bindings }}
{{ if eq .Kind 0 }}{{ template "elapsed" . }}{{ end -}}
{{ if eq .Kind 1 }}{{ template "time" . }}{{ end -}}
{{ if eq .Kind 2 }}{{ template "size" . }}{{ end -}}
{{ if eq .Kind 3 }}{{ template "start" . }}{{ end -}}
{{ if eq .Kind 4 }}{{ template "guard" . }}{{ end -}}
{{ end }}`))

func init() {
	template.Must(fileTemplate.New("elapsed").Parse(`var {{ .Var }} = perfmetrics.ElapsedTimeRecorder(
	func(m *{{ .Struct }}) *time.Time { return &m.{{ .Instant }} },
	func(m *{{ .Struct }}) *perfmetrics.Counter { return &m.{{ .Field }} },
)

// {{ .Method }} adds the time since {{ .Instant }} to {{ .Field }} and moves {{ .Instant }} to the returned instant.
func (m *{{ .Struct }}) {{ .Method }}() time.Time {
	return {{ .Var }}(m)
}
`))
	template.Must(fileTemplate.New("time").Parse(`var {{ .Var }} = perfmetrics.TimeOnlyRecorder(
	func(m *{{ .Struct }}) *time.Time { return &m.{{ .Instant }} },
	func(m *{{ .Struct }}) *perfmetrics.Counter { return &m.{{ .Field }} },
)

// {{ .Method }} adds the time since {{ .Instant }} to {{ .Field }} and moves {{ .Instant }} to now.
func (m *{{ .Struct }}) {{ .Method }}() {
	{{ .Var }}(m)
}
`))
	template.Must(fileTemplate.New("size").Parse(`var {{ .Var }} = perfmetrics.SizeAccumulator(
	func(m *{{ .Struct }}) *perfmetrics.Counter { return &m.{{ .Field }} },
)

// {{ .Method }} adds size to {{ .Field }}.
func (m *{{ .Struct }}) {{ .Method }}(size uint64) {
	{{ .Var }}(m, size)
}
`))
	template.Must(fileTemplate.New("start").Parse(`var {{ .Var }} = perfmetrics.ScopeStartMarker(
	func(m *{{ .Struct }}) *time.Time { return &m.{{ .Field }} },
)

// {{ .Method }} sets {{ .Field }} to now.
func (m *{{ .Struct }}) {{ .Method }}() {
	{{ .Var }}(m)
}
`))
	template.Must(fileTemplate.New("guard").Parse(`var {{ .Var }} = perfmetrics.NewGuardTemplate(
	func(m *{{ .Struct }}) *perfmetrics.Counter { return &m.{{ .Field }} },
	func(m *{{ .Struct }}) *perfmetrics.Counter { return &m.{{ .Size }} },
)

// {{ .Method }} starts a guard that finalizes into {{ .Field }} and {{ .Size }}.
func (m *{{ .Struct }}) {{ .Method }}(size uint64) *perfmetrics.Guard[{{ .Struct }}] {
	return {{ .Var }}.Begin(m, size)
}
`))
}

type Options struct {
	BuildTag string
	// FileName is only used to report formatting errors.
	FileName string
}

type bindingView struct {
	Binding
	Struct string
	Var    string
}

type fileView struct {
	BuildTag string
	Package  string
	Import   string
	Bindings []bindingView
}

// Generate renders the bindings of s as a gofmt-ed Go file. Imports the
// bindings do not use are dropped.
func Generate(s *Struct, opts Options) ([]byte, error) {
	if opts.BuildTag == "" {
		opts.BuildTag = DefaultBuildTag
	}
	if opts.FileName == "" {
		opts.FileName = FileName(s.Name)
	}

	view := fileView{
		BuildTag: opts.BuildTag,
		Package:  s.Package,
		Import:   PerfmetricsImport,
	}
	for _, b := range s.Bindings {
		view.Bindings = append(view.Bindings, bindingView{
			Binding: b,
			Struct:  s.Name,
			Var:     lowerFirst(s.Name) + upperFirst(b.Method),
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("perfgen: rendering %s: %w", s.Name, err)
	}

	out, err := imports.Process(opts.FileName, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("perfgen: formatting %s: %w", opts.FileName, err)
	}
	return out, nil
}

// FileName derives the output file name from a struct name:
// StoreMetrics becomes store_metrics.gen.go.
func FileName(structName string) string {
	var b strings.Builder
	runes := []rune(structName)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String() + ".gen.go"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
