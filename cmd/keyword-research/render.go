// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-research/internal/output"
	"github.com/pdiddy/keyword-research/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render <query-file>",
	Short: "Write a saved query snapshot as CSV, JSON, or TXT",
	Long: `Render loads a YAML snapshot written by "search --save-query" and writes
its results in the selected format without querying SerpApi again.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("save-to", "s", defaultFormat, "output format: CSV, JSON, TXT")
	renderCmd.Flags().StringP("output", "o", "", "output file path (default: derived from the query)")
	renderCmd.Flags().String("output-dir", ".", "directory for the derived output file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("save-to")
	path, _ := cmd.Flags().GetString("output")
	dir, _ := cmd.Flags().GetString("output-dir")

	_, err := render(args[0], format, path, dir, os.Stdout)
	return err
}

// render re-emits the snapshot at queryFile and returns the written path.
func render(queryFile, format, path, dir string, w io.Writer) (string, error) {
	qf, err := output.ReadQueryFile(queryFile)
	if err != nil {
		return "", err
	}

	cfg := types.ResearchConfig{
		Query:        qf.Query.Text,
		OutputFormat: format,
		OutputPath:   path,
		OutputDir:    orDefault(dir, "."),
	}
	return saveResult(cfg, qf.Result(), w, logger)
}
