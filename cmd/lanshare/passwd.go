package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sagarc03/lanshare/control"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Create a control API token hash",
	Long: `Print a bcrypt hash for the control API bearer token, to be stored
as control.token_hash. With --generate a random token is created and
printed alongside its hash; otherwise the token is read interactively.`,
	Args: cobra.NoArgs,
	RunE: runPasswd,
}

var passwdGenerate bool

func init() {
	passwdCmd.Flags().BoolVarP(&passwdGenerate, "generate", "g", false, "generate a random token")
	rootCmd.AddCommand(passwdCmd)
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	var (
		token string
		err   error
	)

	if passwdGenerate {
		token = uuid.NewString()
	} else if token, err = promptSecret("Token"); err != nil {
		return err
	}

	hash, err := control.HashToken(token)
	if err != nil {
		return fmt.Errorf("hash token: %w", err)
	}

	out := cmd.OutOrStdout()
	if passwdGenerate {
		_, _ = fmt.Fprintf(out, "token: %s\n", token)
	}
	_, _ = fmt.Fprintf(out, "token_hash: %s\n", hash)

	return nil
}
