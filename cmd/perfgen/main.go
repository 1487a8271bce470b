package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jt828/perf-metrics/internal/perfgen"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		structName string
		dir        string
		out        string
		buildTag   string
	)

	cmd := &cobra.Command{
		Use:          "perfgen",
		Short:        "Generate perfmetrics recorder and guard methods from struct tags",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := perfgen.Parse(dir, structName)
			if err != nil {
				return err
			}

			if out == "" {
				out = perfgen.FileName(structName)
			}
			path := filepath.Join(dir, out)

			src, err := perfgen.Generate(s, perfgen.Options{BuildTag: buildTag, FileName: path})
			if err != nil {
				return err
			}

			if err := os.WriteFile(path, src, 0o644); err != nil {
				return fmt.Errorf("perfgen: writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "perfgen: wrote %s (%d bindings)\n", path, len(s.Bindings))
			return nil
		},
	}

	cmd.Flags().StringVar(&structName, "struct", "", "name of the struct carrying perf tags")
	cmd.Flags().StringVar(&dir, "dir", ".", "package directory to read and write")
	cmd.Flags().StringVar(&out, "out", "", "output file name (default <snake_case struct>.gen.go)")
	cmd.Flags().StringVar(&buildTag, "tag", perfgen.DefaultBuildTag, "build tag for the generated file")
	_ = cmd.MarkFlagRequired("struct")

	return cmd
}
