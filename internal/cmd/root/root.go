package root

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	configcmd "github.com/open-cli-collective/chtheme/internal/cmd/config"
	"github.com/open-cli-collective/chtheme/internal/config"
	"github.com/open-cli-collective/chtheme/internal/discord"
	"github.com/open-cli-collective/chtheme/internal/logging"
	"github.com/open-cli-collective/chtheme/internal/output"
	"github.com/open-cli-collective/chtheme/internal/reconcile"
	"github.com/open-cli-collective/chtheme/internal/report"
	"github.com/open-cli-collective/chtheme/internal/theme"
)

type applyOptions struct {
	guild     uint64
	guildSet  bool
	dryRun    bool
	reason    string
	debug     bool
	emitTheme bool
	output    string
	stdin     io.Reader // For testing
	stderr    io.Writer // For testing
}

// session is what a run needs from Discord.
type session interface {
	reconcile.Guild
	Me() string
}

type connectFunc func(ctx context.Context, opts *applyOptions, logger *log.Logger) (session, error)

// NewCmd creates the root command.
func NewCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "chtheme [flags] <theme>...",
		Short: "Rename Discord channels to match a theme",
		Long: `Rename the channels of a Discord server to match one or more theme files.

A theme file has one channel per line: the channel ID, whitespace, then the
name. Unquoted names are lowercased and their spaces turned into dashes;
names wrapped in "double" or 'single' quotes are used as-is. A # starts a
comment. Later files override earlier ones. Use "-" to read from stdin.

  123456789012345678  General Chat      # becomes general-chat
  223456789012345678  "Voice Lounge"    # kept as Voice Lounge

The bot token is read from DISCORD_BOT_TOKEN, which may live in a .env file.

Examples:
  chtheme halloween.theme
  chtheme -n base.theme halloween.theme
  chtheme --emit-theme halloween.theme > current.theme
  cat extra.theme | chtheme base.theme -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			output.OutputFormat = format
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.guildSet = cmd.Flags().Changed("guild")
			return runApply(cmd.Context(), args, opts, nil)
		},
	}

	cmd.Flags().Uint64Var(&opts.guild, "guild", config.DefaultGuildID, "ID of the server whose channels are renamed (env "+config.GuildEnv+")")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Run every check but don't rename anything")
	cmd.Flags().StringVar(&opts.reason, "reason", "", "Reason shown in the audit log for each rename")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Emit debug-level logs")
	cmd.Flags().BoolVar(&opts.emitTheme, "emit-theme", false, "Print the live names of the theme's channels as a theme (implies --dry-run)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(output.FormatText), "Result format: "+strings.Join(output.ValidFormats(), ", "))

	cmd.AddCommand(configcmd.NewCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func runApply(ctx context.Context, paths []string, opts *applyOptions, connect connectFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	output.OutputFormat = format

	stderr := opts.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := logging.New(stderr, opts.debug)

	if opts.emitTheme {
		opts.dryRun = true
	}

	stdin := opts.stdin
	if stdin == nil {
		stdin = os.Stdin
		if slices.Contains(paths, theme.StdinPath) && term.IsTerminal(int(os.Stdin.Fd())) {
			logger.Info("Reading theme from standard input, finish with Ctrl-D")
		}
	}

	th, err := theme.ReadAll(paths, stdin)
	if err != nil {
		return err
	}
	logger.Debug("Read theme", "sources", len(paths), "channels", th.Len())

	if connect == nil {
		connect = connectDiscord
	}
	g, err := connect(ctx, opts, logger)
	if err != nil {
		return err
	}

	if opts.emitTheme {
		return report.Emit(ctx, output.Writer, logger, g, th)
	}

	if opts.dryRun {
		logger.Info("Dry run, no channels will be renamed")
	}

	outcomes := reconcile.New(g, logger).Reconcile(ctx, th, reconcile.Options{
		Actor:  g.Me(),
		DryRun: opts.dryRun,
		Reason: opts.reason,
	})

	counts := report.Counts(outcomes)
	logger.Debug("Finished",
		"updated", counts[reconcile.Updated],
		"same", counts[reconcile.SkippedSame],
		"missing", counts[reconcile.SkippedMissing],
		"forbidden", counts[reconcile.SkippedForbidden],
		"failed", counts[reconcile.Failed],
	)

	if output.IsText() {
		report.Summarize(logger, outcomes)
		return nil
	}
	return report.Print(outcomes)
}

func connectDiscord(ctx context.Context, opts *applyOptions, logger *log.Logger) (session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	guildID := cfg.GuildID
	if opts.guildSet {
		guildID = opts.guild
	}
	logger.Debug("Connecting", "guild", strconv.FormatUint(guildID, 10), "token", cfg.TokenSource)

	s, err := discord.NewSession(cfg.Token)
	if err != nil {
		return nil, err
	}
	g, err := discord.Connect(ctx, s, guildID, logger)
	if err != nil {
		return nil, err
	}
	return g, nil
}
