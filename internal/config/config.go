// Package config loads chtheme's settings from the environment, optionally
// seeded by a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// TokenEnv holds the bot token.
	TokenEnv = "DISCORD_BOT_TOKEN"

	// GuildEnv overrides the default guild ID.
	GuildEnv = "CHTHEME_GUILD"

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"

	// DefaultGuildID is Cansti's server.
	DefaultGuildID uint64 = 271034455462772737
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("couldn't find a token in the environment! " +
	"Try setting the `" + TokenEnv + "` variable in your shell or " + DotEnvFile + " file")

// Config holds the resolved settings.
type Config struct {
	Token   string
	GuildID uint64

	// TokenSource is "environment" or the .env path it came from.
	TokenSource string
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
// It reports whether the file was read.
func LoadDotEnv(path string) (bool, error) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return true, nil
}

// Load reads .env (if any) and then the environment.
func Load() (*Config, error) {
	_, preset := os.LookupEnv(TokenEnv)

	loaded, err := LoadDotEnv(DotEnvFile)
	if err != nil {
		return nil, err
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if loaded && !preset && cfg.Token != "" {
		cfg.TokenSource = DotEnvFile
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Token:       os.Getenv(TokenEnv),
		GuildID:     DefaultGuildID,
		TokenSource: "environment",
	}

	if v := os.Getenv(GuildEnv); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", GuildEnv, v, err)
		}
		cfg.GuildID = id
	}

	return cfg, nil
}

// RequireToken returns ErrMissingToken when the token is empty.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// MaskedToken shows only the last four characters of the token.
func (c *Config) MaskedToken() string {
	if c.Token == "" {
		return "(not set)"
	}
	if len(c.Token) <= 8 {
		return "********"
	}
	return "********" + c.Token[len(c.Token)-4:]
}
