package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/client"
	"github.com/sagarc03/lanshare/config"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the share catalog",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var listOutput string

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "output format: text, json, yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	repo, closeCatalog, err := requireCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	entries, err := repo.List(ctx)
	if err != nil {
		return err
	}

	return writeEntries(cmd.OutOrStdout(), listOutput, entries)
}

// catalogRow is the YAML view of a catalog entry.
type catalogRow struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	SizeBytes int64  `yaml:"size_bytes"`
	CreatedAt string `yaml:"created_at"`
}

func writeEntries(w io.Writer, format string, entries []lanshare.CatalogEntry) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		rows := make([]catalogRow, len(entries))
		for i, e := range entries {
			rows[i] = catalogRow{ID: e.ID, Name: e.Name, Path: e.Path, SizeBytes: e.SizeBytes, CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00")}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "Catalog is empty")
		return nil
	}

	idWidth := 2
	for _, e := range entries {
		idWidth = max(idWidth, len(e.ID))
	}

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", idWidth, "ID", "SIZE", "PATH")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", 10), strings.Repeat("-", 4))
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", idWidth, e.ID, client.FormatSize(e.SizeBytes), e.Path)
	}

	return nil
}
