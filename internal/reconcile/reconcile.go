// Package reconcile compares a theme with the live channels of a guild and
// renames the channels that differ.
package reconcile

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/open-cli-collective/chtheme/internal/theme"
)

// Permission is a Discord permission bit set.
type Permission int64

// PermissionManageChannels is the "Manage Channels" bit.
const PermissionManageChannels Permission = 1 << 4

// Guild resolves channels (and threads) by ID.
type Guild interface {
	Channel(ctx context.Context, id uint64) (Channel, bool)
}

// Channel is a renameable channel or thread.
type Channel interface {
	ID() uint64
	Name() string
	IsCategory() bool
	Allows(ctx context.Context, actor string, perm Permission) (bool, error)
	Rename(ctx context.Context, name, reason string) error
}

// Options controls a reconciliation run.
type Options struct {
	// Actor is the user ID whose permissions are checked.
	Actor  string
	DryRun bool
	Reason string
}

// Reconciler applies a theme to a guild, one channel at a time.
type Reconciler struct {
	guild  Guild
	logger *log.Logger
}

// New creates a reconciler. A nil logger discards output.
func New(guild Guild, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reconciler{guild: guild, logger: logger}
}

// Reconcile walks the theme in order and returns one outcome per entry.
// Per-channel failures are recorded, never returned. It stops early only
// when ctx is done.
func (r *Reconciler) Reconcile(ctx context.Context, t *theme.Theme, opts Options) []Outcome {
	entries := t.Entries()
	outcomes := make([]Outcome, 0, len(entries))

	for _, e := range entries {
		if ctx.Err() != nil {
			r.logger.Warn("Stopping early", "err", ctx.Err(), "remaining", len(entries)-len(outcomes))
			break
		}
		outcomes = append(outcomes, r.apply(ctx, e, opts))
	}

	return outcomes
}

func (r *Reconciler) apply(ctx context.Context, e theme.Entry, opts Options) Outcome {
	out := Outcome{ID: e.ID, NewName: e.Name}

	ch, ok := r.guild.Channel(ctx, e.ID)
	if !ok {
		out.Kind = SkippedMissing
		r.logger.Errorf("Couldn't find channel: %-19d %s", e.ID, e.Name)
		return out
	}
	out.OldName = ch.Name()

	if ch.Name() == e.Name {
		out.Kind = SkippedSame
		r.logger.Debugf("Channel would be updated to same name: %-19d %s", e.ID, e.Name)
		return out
	}

	allowed, err := ch.Allows(ctx, opts.Actor, PermissionManageChannels)
	if err != nil {
		out.Kind = Failed
		out.Err = err
		r.logger.Error("Couldn't check permissions for channel", "id", e.ID, "err", err)
		return out
	}
	if !allowed {
		out.Kind = SkippedForbidden
		r.logger.Errorf("Lacking 'Manage Channel' permissions for channel: %-19d %s", e.ID, e.Name)
		return out
	}

	if !opts.DryRun {
		if err := ch.Rename(ctx, e.Name, opts.Reason); err != nil {
			out.Kind = Failed
			out.Err = err
			r.logger.Error("Couldn't update channel", "id", e.ID, "err", err)
			return out
		}
	}

	out.Kind = Updated
	return out
}

// Updates returns only the Updated outcomes, in order.
func Updates(outcomes []Outcome) []Outcome {
	var updated []Outcome
	for _, o := range outcomes {
		if o.Kind == Updated {
			updated = append(updated, o)
		}
	}
	return updated
}
