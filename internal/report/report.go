// Package report turns reconciliation outcomes into human-readable output.
package report

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/open-cli-collective/chtheme/internal/reconcile"
	"github.com/open-cli-collective/chtheme/internal/theme"
)

// SummaryLines formats one line per updated channel, with the old names
// left-aligned to a common width. It returns nil when nothing was updated.
func SummaryLines(outcomes []reconcile.Outcome) []string {
	updated := reconcile.Updates(outcomes)
	if len(updated) == 0 {
		return nil
	}

	width := 0
	for _, o := range updated {
		if n := utf8.RuneCountInString(o.OldName); n > width {
			width = n
		}
	}

	lines := make([]string, 0, len(updated))
	for _, o := range updated {
		lines = append(lines, fmt.Sprintf("Updated channel:  %-*s │ %s", width, o.OldName, o.NewName))
	}
	return lines
}

// Summarize logs the summary lines at info level.
func Summarize(logger *log.Logger, outcomes []reconcile.Outcome) {
	for _, line := range SummaryLines(outcomes) {
		logger.Info(line)
	}
}

// Counts tallies outcomes by kind.
func Counts(outcomes []reconcile.Outcome) map[reconcile.Kind]int {
	counts := make(map[reconcile.Kind]int)
	for _, o := range outcomes {
		counts[o.Kind]++
	}
	return counts
}

// Emit writes the live names of the theme's channels in theme format,
// skipping channels that are missing or already match the theme.
func Emit(ctx context.Context, w io.Writer, logger *log.Logger, guild reconcile.Guild, t *theme.Theme) error {
	emitted := 0
	for _, e := range t.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}

		ch, ok := guild.Channel(ctx, e.ID)
		if !ok {
			logger.Warnf("Couldn't find channel: %-19d %s", e.ID, e.Name)
			continue
		}
		if ch.Name() == e.Name {
			continue
		}

		if ch.IsCategory() && emitted > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%d %s\n", e.ID, FormatName(ch.Name())); err != nil {
			return err
		}
		emitted++
	}
	return nil
}

// FormatName renders a name so that parsing it back yields the same name.
// A bare name that would itself read as quoted gets wrapped again.
func FormatName(name string) string {
	if _, quoted := theme.Unquote(name); !quoted && theme.Normalize(name) == name {
		return name
	}
	return `"` + name + `"`
}
