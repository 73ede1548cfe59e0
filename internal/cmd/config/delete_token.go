package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appconfig "github.com/open-cli-collective/chtheme/internal/config"
	"github.com/open-cli-collective/chtheme/internal/output"
)

type deleteTokenOptions struct {
	path string
}

func newDeleteTokenCmd() *cobra.Command {
	opts := &deleteTokenOptions{}

	cmd := &cobra.Command{
		Use:   "delete-token",
		Short: "Remove the bot token from the .env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteToken(opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "file", appconfig.DotEnvFile, "Path of the .env file")

	return cmd
}

func runDeleteToken(opts *deleteTokenOptions) error {
	env, err := godotenv.Read(opts.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			output.Printf("No %s file, nothing to delete\n", opts.path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", opts.path, err)
	}

	if _, ok := env[appconfig.TokenEnv]; !ok {
		output.Printf("No token in %s\n", opts.path)
		return nil
	}
	delete(env, appconfig.TokenEnv)

	if err := godotenv.Write(env, opts.path); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	output.Printf("Bot token deleted from %s\n", opts.path)
	return nil
}
