// Package discord adapts a discordgo session to the reconcile.Guild and
// reconcile.Channel capabilities.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/open-cli-collective/chtheme/internal/reconcile"
)

var (
	// ErrGuildNotFound is returned when the bot can't see the requested guild.
	ErrGuildNotFound = errors.New("couldn't find the guild")

	// ErrMemberNotFound is returned when the bot isn't a member of the guild.
	ErrMemberNotFound = errors.New("couldn't get client relative to guild")
)

// API is the subset of *discordgo.Session used here.
type API interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildThreadsActive(guildID string, options ...discordgo.RequestOption) (*discordgo.ThreadsList, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// NewSession creates a bot session for token. Nothing is sent until the
// first request.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.UserAgent = "chtheme (https://github.com/open-cli-collective/chtheme)"
	return s, nil
}

// Guild holds a snapshot of a guild's channels and threads, taken once at
// startup, plus the bot's own member in that guild.
type Guild struct {
	api      API
	guild    *discordgo.Guild
	me       *discordgo.User
	channels map[uint64]*discordgo.Channel
	logger   *log.Logger
}

// Connect resolves the guild, the bot's membership in it and the current
// channel list. Any failure here is fatal for a run.
func Connect(ctx context.Context, api API, guildID uint64, logger *log.Logger) (*Guild, error) {
	gid := strconv.FormatUint(guildID, 10)
	opt := discordgo.WithContext(ctx)

	me, err := api.User("@me", opt)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	logger.Info("Logged in!", "user", me.Username)

	guild, err := api.Guild(gid, opt)
	if err != nil {
		if isStatus(err, http.StatusNotFound, http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", ErrGuildNotFound, gid)
		}
		return nil, fmt.Errorf("fetching guild %s: %w", gid, err)
	}

	if _, err := api.GuildMember(gid, me.ID, opt); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, guild.Name)
		}
		return nil, fmt.Errorf("fetching own member: %w", err)
	}

	chans, err := api.GuildChannels(gid, opt)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}

	g := &Guild{
		api:      api,
		guild:    guild,
		me:       me,
		channels: make(map[uint64]*discordgo.Channel, len(chans)),
		logger:   logger,
	}
	for _, ch := range chans {
		g.add(ch)
	}

	threads, err := api.GuildThreadsActive(gid, opt)
	if err != nil {
		// threads are optional; plain channels still work
		logger.Warn("Couldn't list active threads", "err", err)
	} else {
		for _, th := range threads.Threads {
			g.add(th)
		}
	}

	logger.Info("Ready to start!", "guild", guild.Name, "channels", len(g.channels))
	return g, nil
}

func (g *Guild) add(ch *discordgo.Channel) {
	id, err := strconv.ParseUint(ch.ID, 10, 64)
	if err != nil {
		g.logger.Debug("Skipping channel with odd id", "id", ch.ID)
		return
	}
	g.channels[id] = ch
}

// Name returns the guild's display name.
func (g *Guild) Name() string { return g.guild.Name }

// Me returns the bot user's ID, the actor for permission checks.
func (g *Guild) Me() string { return g.me.ID }

// Username returns the bot user's name.
func (g *Guild) Username() string { return g.me.Username }

// Len returns the number of known channels and threads.
func (g *Guild) Len() int { return len(g.channels) }

// Channel implements reconcile.Guild.
func (g *Guild) Channel(_ context.Context, id uint64) (reconcile.Channel, bool) {
	ch, ok := g.channels[id]
	if !ok {
		return nil, false
	}
	return &Channel{api: g.api, ch: ch, id: id}, true
}

// Channel is a guild channel or thread.
type Channel struct {
	api API
	ch  *discordgo.Channel
	id  uint64
}

func (c *Channel) ID() uint64   { return c.id }
func (c *Channel) Name() string { return c.ch.Name }

// IsCategory reports whether the channel is a category.
func (c *Channel) IsCategory() bool {
	return c.ch.Type == discordgo.ChannelTypeGuildCategory
}

// Allows checks perm for actor. Threads inherit their parent's overwrites.
func (c *Channel) Allows(ctx context.Context, actor string, perm reconcile.Permission) (bool, error) {
	target := c.ch.ID
	if c.ch.IsThread() && c.ch.ParentID != "" {
		target = c.ch.ParentID
	}

	perms, err := c.api.UserChannelPermissions(actor, target, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("computing permissions for %s: %w", c.ch.ID, err)
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	return perms&int64(perm) == int64(perm), nil
}

// Rename sets the channel's name, attaching reason to the audit log entry.
func (c *Channel) Rename(ctx context.Context, name, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}

	updated, err := c.api.ChannelEdit(c.ch.ID, &discordgo.ChannelEdit{Name: name}, opts...)
	if err != nil {
		return err
	}
	// keep the guild snapshot current
	c.ch.Name = name
	if updated != nil && updated.Name != "" {
		c.ch.Name = updated.Name
	}
	return nil
}

func isStatus(err error, codes ...int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	for _, code := range codes {
		if restErr.Response.StatusCode == code {
			return true
		}
	}
	return false
}
