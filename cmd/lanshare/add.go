package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/client"
	"github.com/sagarc03/lanshare/config"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <file1> [file2] ...",
	Short: "Add files to the share catalog",
	Long: `Record files in the share catalog so the next "lanshare serve"
shares them. Paths are stored as absolute paths; the files are not copied.

Examples:
  lanshare add ~/report.pdf
  lanshare add --id movie --name Holiday.mp4 ~/Videos/IMG_0042.mp4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addID    string
	addName  string
	addQuiet bool
)

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "file id (single file only, default: random UUID)")
	addCmd.Flags().StringVar(&addName, "name", "", "display name (single file only, default: base name)")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && (addID != "" || addName != "") {
		return errors.New("--id and --name require exactly one file")
	}

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

	catalog, err := lanshare.NewCatalog(repo, lanshare.NewFileRegistry(), slog.Default())
	if err != nil {
		return err
	}

	var failed int
	for _, path := range args {
		entry, err := catalog.Share(ctx, lanshare.ShareRequest{ID: addID, Name: addName, Path: path})
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s - %v\n", path, err)
			continue
		}

		if !addQuiet {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added: %s as %s (%s)\n", entry.Path, entry.ID, client.FormatSize(entry.SizeBytes))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}

	return nil
}
