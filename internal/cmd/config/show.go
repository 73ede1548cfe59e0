package config

import (
	"strconv"

	"github.com/spf13/cobra"

	appconfig "github.com/open-cli-collective/chtheme/internal/config"
	"github.com/open-cli-collective/chtheme/internal/output"
)

type showOptions struct{}

func newShowCmd() *cobra.Command {
	opts := &showOptions{}

	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts)
		},
	}
}

type shownConfig struct {
	Token       string `json:"token" yaml:"token"`
	TokenSource string `json:"token_source" yaml:"token_source"`
	GuildID     string `json:"guild_id" yaml:"guild_id"`
}

func runShow(opts *showOptions) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	shown := shownConfig{
		Token:       cfg.MaskedToken(),
		TokenSource: cfg.TokenSource,
		GuildID:     strconv.FormatUint(cfg.GuildID, 10),
	}
	if cfg.Token == "" {
		shown.TokenSource = "-"
	}

	switch output.OutputFormat {
	case output.FormatJSON:
		return output.PrintJSON(shown)
	case output.FormatYAML:
		return output.PrintYAML(shown)
	}

	output.KeyValue("Token", shown.Token)
	output.KeyValue("Source", shown.TokenSource)
	output.KeyValue("Guild", shown.GuildID)
	return nil
}
