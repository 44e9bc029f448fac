// Package config defines the setup-time configuration surface: per-field
// TTL overrides, style and icon overrides, the message timeout, and the
// render throttle interval. Configuration arrives either as a YAML/TOML
// file or as a dictionary passed by the host editor at setup.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grovetools/statline/cache"
	"github.com/grovetools/statline/render"
)

// Duration is a time.Duration that unmarshals from strings like "75ms" in
// YAML, TOML, and host-passed dictionaries.
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

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Icons holds the text decorations around file and branch indicators.
type Icons struct {
	Modified string `yaml:"modified" toml:"modified" mapstructure:"modified"`
	Readonly string `yaml:"readonly" toml:"readonly" mapstructure:"readonly"`
	Branch   string `yaml:"branch" toml:"branch" mapstructure:"branch"`
	NoName   string `yaml:"no_name" toml:"no_name" mapstructure:"no_name"`
}

// Config is the full setup-time surface. The zero value is not usable;
// start from Default and overlay.
type Config struct {
	// TTL maps field names to maximum cache age.
	TTL map[string]Duration `yaml:"ttl" toml:"ttl" mapstructure:"ttl"`

	Throttle        Duration `yaml:"throttle" toml:"throttle" mapstructure:"throttle"`
	MessageTimeout  Duration `yaml:"message_timeout" toml:"message_timeout" mapstructure:"message_timeout"`
	MessageFraction float64  `yaml:"message_fraction" toml:"message_fraction" mapstructure:"message_fraction"`

	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval" mapstructure:"poll_interval"`
	PollTimeout  Duration `yaml:"poll_timeout" toml:"poll_timeout" mapstructure:"poll_timeout"`

	// InactiveBranch includes the branch segment in unfocused panes.
	InactiveBranch bool `yaml:"inactive_branch" toml:"inactive_branch" mapstructure:"inactive_branch"`

	Icons Icons `yaml:"icons" toml:"icons" mapstructure:"icons"`

	// Styles overlays the default style table by name.
	Styles map[string]render.Style `yaml:"styles" toml:"styles" mapstructure:"styles"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TTL: map[string]Duration{
			string(cache.FieldMode):        Duration(50 * time.Millisecond),
			string(cache.FieldFile):        Duration(2 * time.Second),
			string(cache.FieldGitBranch):   Duration(10 * time.Second),
			string(cache.FieldDiagnostics): Duration(time.Second),
			string(cache.FieldPosition):    Duration(50 * time.Millisecond),
			string(cache.FieldLSPProgress): Duration(200 * time.Millisecond),
		},
		Throttle:        Duration(75 * time.Millisecond),
		MessageTimeout:  Duration(3 * time.Second),
		MessageFraction: 0.3,
		PollInterval:    Duration(5 * time.Second),
		PollTimeout:     Duration(time.Second),
		Icons: Icons{
			Modified: "[+]",
			Readonly: "[RO]",
			NoName:   "[No Name]",
		},
	}
}

// TTLs converts the TTL map to cache fields, overlaying the defaults so a
// partial override keeps the rest.
func (c Config) TTLs() map[cache.Field]time.Duration {
	out := make(map[cache.Field]time.Duration)
	for name, d := range Default().TTL {
		out[cache.Field(name)] = d.Std()
	}
	for name, d := range c.TTL {
		out[cache.Field(name)] = d.Std()
	}
	return out
}

// StyleTable returns the default styles overlaid with the configured
// overrides.
func (c Config) StyleTable() map[string]render.Style {
	styles := render.DefaultStyles()
	for name, s := range c.Styles {
		styles[name] = s
	}
	return styles
}
