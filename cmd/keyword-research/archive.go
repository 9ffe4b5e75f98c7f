// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keyword-research/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse archived keyword-research runs",
	Long: `Archive lists and shows runs recorded with --archive. The archive is a
SQLite file path or a postgres:// DSN, set with --archive or archive.dsn in
the config file.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		filter := archive.Filter{Query: query, Limit: limit}
		if since > 0 {
			t := time.Now().Add(-since)
			filter.Since = &t
		}
		return withArchive(cmd.Context(), func(b archive.Backend) error {
			runs, err := b.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return formatRuns(runs, jsonOutput, os.Stdout)
		})
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(b archive.Backend) error {
			run, err := b.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(os.Stdout, run)
		})
	},
}

func withArchive(ctx context.Context, fn func(archive.Backend) error) error {
	dsn := viper.GetString("archive.dsn")
	if dsn == "" {
		return fmt.Errorf("no archive configured: pass --archive or set archive.dsn")
	}
	b, err := archive.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func formatRuns(runs []*archive.Run, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		if runs == nil {
			runs = []*archive.Run{}
		}
		return writeJSON(w, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-30s  %-8s  %s\n", "ID", "Created", "Query", "Keywords", "Sources")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range runs {
		query := r.Query
		if runes := []rune(query); len(runes) > 30 {
			query = string(runes[:27]) + "..."
		}
		total := r.Bucket.Total()
		if r.Dedupe {
			total = len(r.Keywords)
		}
		sources := make([]string, len(r.Sources))
		for i, s := range r.Sources {
			sources[i] = string(s)
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-30s  %-8d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), query, total, strings.Join(sources, ","))
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func init() {
	archiveListCmd.Flags().String("query", "", "only runs for this exact query")
	archiveListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	archiveListCmd.Flags().Duration("since", 0, "only runs newer than this age (e.g. 72h)")
	archiveListCmd.Flags().Bool("json", false, "output runs as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)

	rootCmd.AddCommand(archiveCmd)
}
