package perfgen_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/jt828/perf-metrics/internal/perfgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("collects bindings in field order", func(t *testing.T) {
		s, err := perfgen.Parse("testdata/basic", "Metrics")
		require.NoError(t, err)

		assert.Equal(t, "basic", s.Package)
		assert.Equal(t, "Metrics", s.Name)
		assert.Equal(t, []perfgen.Binding{
			{Kind: perfgen.StartMarker, Method: "markCheckpoint", Field: "checkpoint"},
			{Kind: perfgen.ElapsedRecorder, Method: "recordRead", Field: "ReadTime", Instant: "checkpoint"},
			{Kind: perfgen.TimeRecorder, Method: "recordWrite", Field: "WriteTime", Instant: "checkpoint"},
			{Kind: perfgen.SizeRecorder, Method: "recordReadBytes", Field: "ReadBytes"},
			{Kind: perfgen.Guard, Method: "beginFlush", Field: "FlushTime", Size: "FlushBytes"},
		}, s.Bindings)
	})

	t.Run("resolves an aliased perfmetrics import", func(t *testing.T) {
		s, err := perfgen.Parse("testdata/basic", "Aliased")
		require.NoError(t, err)

		assert.Equal(t, []perfgen.Binding{
			{Kind: perfgen.SizeRecorder, Method: "recordHits", Field: "Hits"},
		}, s.Bindings)
	})

	t.Run("missing struct", func(t *testing.T) {
		_, err := perfgen.Parse("testdata/basic", "Nope")
		assert.ErrorIs(t, err, perfgen.ErrStructNotFound)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := perfgen.Parse("testdata/does-not-exist", "Metrics")
		assert.Error(t, err)
	})

	t.Run("struct without perf tags", func(t *testing.T) {
		_, err := perfgen.Parse("testdata/basic", "Untagged")
		assert.ErrorIs(t, err, perfgen.ErrInvalidTag)
	})

	t.Run("invalid tags", func(t *testing.T) {
		structs := []string{
			"MissingInstant",
			"UnknownInstant",
			"StartOnCounter",
			"SizeOnInstant",
			"GuardWithoutSize",
			"GuardSizeNotCounter",
			"DuplicateMethod",
			"InstantAlone",
			"BadMethodName",
			"SharedDeclaration",
			"ForeignCounter",
		}

		for _, name := range structs {
			_, err := perfgen.Parse("testdata/invalid", name)
			assert.ErrorIs(t, err, perfgen.ErrInvalidTag, name)
		}
	})
}

func methods(t *testing.T, src []byte) map[string]*ast.FuncDecl {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err)

	out := make(map[string]*ast.FuncDecl)
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv != nil {
			out[fn.Name.Name] = fn
		}
	}
	return out
}

func TestGenerate(t *testing.T) {
	t.Run("renders one method per binding", func(t *testing.T) {
		s, err := perfgen.Parse("testdata/basic", "Metrics")
		require.NoError(t, err)

		src, err := perfgen.Generate(s, perfgen.Options{})
		require.NoError(t, err)

		out := string(src)
		assert.Contains(t, out, "// Code generated by perfgen. DO NOT EDIT.")
		assert.Contains(t, out, "//go:build enable_execution_duration_record")
		assert.Contains(t, out, "package basic")
		assert.Contains(t, out, `"github.com/jt828/perf-metrics/pkg/perfmetrics"`)
		assert.Contains(t, out, "func (m *Metrics) recordRead() time.Time {")
		assert.Contains(t, out, "func (m *Metrics) recordWrite() {")
		assert.Contains(t, out, "func (m *Metrics) recordReadBytes(size uint64) {")
		assert.Contains(t, out, "func (m *Metrics) markCheckpoint() {")
		assert.Contains(t, out, "func (m *Metrics) beginFlush(size uint64) *perfmetrics.Guard[Metrics] {")
		assert.Contains(t, out, "var metricsBeginFlush = perfmetrics.NewGuardTemplate(")
		assert.Contains(t, out, "return &m.FlushBytes")

		assert.Len(t, methods(t, src), 5)
	})

	t.Run("drops the time import when unused", func(t *testing.T) {
		s, err := perfgen.Parse("testdata/basic", "SizeOnly")
		require.NoError(t, err)

		src, err := perfgen.Generate(s, perfgen.Options{})
		require.NoError(t, err)

		assert.NotContains(t, string(src), `"time"`)
		assert.Contains(t, methods(t, src), "recordBytes")
	})

	t.Run("custom build tag", func(t *testing.T) {
		s, err := perfgen.Parse("testdata/basic", "SizeOnly")
		require.NoError(t, err)

		src, err := perfgen.Generate(s, perfgen.Options{BuildTag: "perf"})
		require.NoError(t, err)

		assert.Contains(t, string(src), "//go:build perf\n")
	})
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"Metrics":       "metrics.gen.go",
		"StoreMetrics":  "store_metrics.gen.go",
		"ImportMetrics": "import_metrics.gen.go",
		"HTTPMetrics":   "http_metrics.gen.go",
		"IOStats":       "io_stats.gen.go",
	}

	for in, want := range cases {
		assert.Equal(t, want, perfgen.FileName(in), in)
	}
}
