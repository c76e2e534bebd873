package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/config"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id> [id...]",
	Aliases: []string{"rm"},
	Short:   "Remove files from the share catalog",
	Long: `Remove entries from the share catalog. The files themselves are
left untouched.

Examples:
  lanshare remove movie
  lanshare rm 3f2c9c1e-0b7a-4c59-9d0e-5c1f4b1e2a77 report`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

var removeIgnoreMissing bool

func init() {
	removeCmd.Flags().BoolVarP(&removeIgnoreMissing, "force", "f", false, "ignore ids that are not in the catalog")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	var failed int
	for _, id := range args {
		err := repo.Delete(ctx, id)
		switch {
		case err == nil:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", id)
		case errors.Is(err, lanshare.ErrNotFound) && removeIgnoreMissing:
		default:
			failed++
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s - %v\n", id, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d id(s) failed", failed, len(args))
	}

	return nil
}
