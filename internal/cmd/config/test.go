package config

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appconfig "github.com/open-cli-collective/chtheme/internal/config"
	"github.com/open-cli-collective/chtheme/internal/discord"
	"github.com/open-cli-collective/chtheme/internal/logging"
	"github.com/open-cli-collective/chtheme/internal/output"
)

type testOptions struct {
	guild uint64
}

func newTestCmd() *cobra.Command {
	opts := &testOptions{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the token and the bot's access to the guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().Uint64Var(&opts.guild, "guild", 0, "Guild to check (default from "+appconfig.GuildEnv+" or the built-in default)")

	return cmd
}

func runTest(ctx context.Context, opts *testOptions, api discord.API) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	if api == nil {
		if err := cfg.RequireToken(); err != nil {
			return err
		}
		s, err := discord.NewSession(cfg.Token)
		if err != nil {
			return err
		}
		api = s
	}

	guildID := cfg.GuildID
	if opts.guild != 0 {
		guildID = opts.guild
	}

	g, err := discord.Connect(ctx, api, guildID, logging.New(os.Stderr, false))
	if err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}

	output.KeyValue("Bot", fmt.Sprintf("%s (%s)", g.Username(), g.Me()))
	output.KeyValue("Guild", g.Name())
	output.KeyValue("Channels", g.Len())
	output.Println("Token works and the bot can see the guild")
	return nil
}
