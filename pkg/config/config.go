// Package config loads querygraph settings from TOML.
//
// Every field has a default; a config file only needs the keys it changes.
//
//	[history]
//	capacity = 5
//
//	[layout]
//	default = "spring"
//	settle_delay = "700ms"
//	freeze_delay = "500ms"
//
//	[path]
//	default_weight = 1.0
//
//	[style]
//	initial_radius = 35.0
//	min_radius = 20.0
//	radius_step = 2.0
//	default_radius = 30.0
//
//	[cache]
//	dir = "~/.cache/querygraph"
//	disabled = false
//	redis_url = ""      # "redis://localhost:6379/0" shares artifacts across hosts
//	ttl = "168h"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/history"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/pathfind"
	"github.com/matzehuels/querygraph/pkg/style"
)

// Duration is a time.Duration written as a Go duration string ("700ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full settings tree.
type Config struct {
	History History `toml:"history"`
	Layout  Layout  `toml:"layout"`
	Path    Path    `toml:"path"`
	Style   Style   `toml:"style"`
	Cache   Cache   `toml:"cache"`
}

type History struct {
	Capacity int `toml:"capacity"`
}

type Layout struct {
	Default     layout.Strategy `toml:"default"`
	SettleDelay Duration        `toml:"settle_delay"`
	FreezeDelay Duration        `toml:"freeze_delay"`
}

type Path struct {
	DefaultWeight float64 `toml:"default_weight"`
}

type Style struct {
	InitialRadius float64 `toml:"initial_radius"`
	MinRadius     float64 `toml:"min_radius"`
	RadiusStep    float64 `toml:"radius_step"`
	DefaultRadius float64 `toml:"default_radius"`
}

// Options converts the section to style.Options.
func (s Style) Options() style.Options {
	return style.Options{
		InitialRadius: s.InitialRadius,
		MinRadius:     s.MinRadius,
		RadiusStep:    s.RadiusStep,
		DefaultRadius: s.DefaultRadius,
	}
}

type Cache struct {
	// Dir holds rendered artifacts. Empty means the user cache directory.
	// A leading "~/" expands to the home directory.
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`

	// RedisURL selects a Redis backend instead of the directory.
	RedisURL string `toml:"redis_url"`

	// TTL bounds how long a rendered artifact is kept. Zero keeps it
	// until the cache is cleared.
	TTL Duration `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	so := style.DefaultOptions()
	return Config{
		History: History{Capacity: history.DefaultCapacity},
		Layout: Layout{
			Default:     layout.Spring,
			SettleDelay: Duration(layout.DefaultSettleDelay),
			FreezeDelay: Duration(layout.DefaultFreezeDelay),
		},
		Path:  Path{DefaultWeight: pathfind.DefaultWeight},
		Cache: Cache{TTL: Duration(7 * 24 * time.Hour)},
		Style: Style{
			InitialRadius: so.InitialRadius,
			MinRadius:     so.MinRadius,
			RadiusStep:    so.RadiusStep,
			DefaultRadius: so.DefaultRadius,
		},
	}
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Decode(bytes.NewReader(data))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.History.Capacity < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "history.capacity must be at least 1, got %d", c.History.Capacity)
	case !c.Layout.Default.Valid():
		return errors.New(errors.ErrCodeInvalidConfig, "layout.default is not a known layout")
	case c.Layout.SettleDelay < 0 || c.Layout.FreezeDelay < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout delays must not be negative")
	case c.Path.DefaultWeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "path.default_weight must be positive, got %v", c.Path.DefaultWeight)
	case c.Style.MinRadius <= 0 || c.Style.InitialRadius < c.Style.MinRadius:
		return errors.New(errors.ErrCodeInvalidConfig, "style radii must satisfy 0 < min_radius <= initial_radius")
	case c.Style.RadiusStep < 0 || c.Style.DefaultRadius <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "style.radius_step must be >= 0 and style.default_radius > 0")
	case c.Cache.TTL < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// CacheDir returns the resolved artifact cache directory.
func (c Config) CacheDir() (string, error) {
	dir := c.Cache.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "locate user cache dir")
		}
		return filepath.Join(base, "querygraph"), nil
	}
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "locate home dir")
		}
		return filepath.Join(home, rest), nil
	}
	return dir, nil
}
