package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	appconfig "github.com/open-cli-collective/chtheme/internal/config"
	"github.com/open-cli-collective/chtheme/internal/output"
)

type setTokenOptions struct {
	path  string
	stdin io.Reader // For testing
}

func newSetTokenCmd() *cobra.Command {
	opts := &setTokenOptions{}

	cmd := &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store the bot token in the .env file",
		Long: `Store the bot token in the .env file.

If no token is given it is read from stdin; on a terminal the input is hidden.
Other variables in the file are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			return runSetToken(token, opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "file", appconfig.DotEnvFile, "Path of the .env file")

	return cmd
}

func runSetToken(token string, opts *setTokenOptions) error {
	if token == "" {
		var err error
		token, err = readToken(opts.stdin)
		if err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	env, err := godotenv.Read(opts.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", opts.path, err)
		}
		env = map[string]string{}
	}
	env[appconfig.TokenEnv] = token

	if err := godotenv.Write(env, opts.path); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	// the file holds a secret
	if err := os.Chmod(opts.path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", opts.path, err)
	}

	output.Printf("Bot token stored in %s\n", opts.path)
	return nil
}

func readToken(stdin io.Reader) (string, error) {
	if stdin == nil {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			output.Printf("Bot token: ")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			output.Println()
			if err != nil {
				return "", fmt.Errorf("reading token: %w", err)
			}
			return string(b), nil
		}
		stdin = os.Stdin
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return line, nil
}
