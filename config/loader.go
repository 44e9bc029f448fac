package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/statline/errors"
)

// ConfigFileNames are the file names searched by FindConfigFile, in order.
var ConfigFileNames = []string{"statline.yml", "statline.yaml", "statline.toml"}

// Load reads path and returns the defaults overlaid with its contents.
// Unknown fields are rejected. The format follows the file extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.ConfigNotFound(path)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "parse "+path)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "parse "+path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromMap decodes a host-supplied option dictionary (e.g. the table a
// Neovim setup call passes over RPC) on top of the defaults.
func FromMap(opts map[string]interface{}) (Config, error) {
	cfg := Default()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return Config{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "decode setup options")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindConfigFile walks from dir upward looking for a statline config file.
func FindConfigFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(filepath.Join(dir, ConfigFileNames[0]))
		}
		dir = parent
	}
}

// Validate checks ranges. Durations must be positive where set; the message
// fraction must sit in (0, 1].
func (c Config) Validate() error {
	for name, d := range c.TTL {
		if d < 0 {
			return errors.ConfigInvalid(fmt.Sprintf("ttl for %q must not be negative", name))
		}
	}
	if c.Throttle < 0 {
		return errors.ConfigInvalid("throttle must not be negative")
	}
	if c.MessageTimeout < 0 {
		return errors.ConfigInvalid("message_timeout must not be negative")
	}
	if c.MessageFraction <= 0 || c.MessageFraction > 1 {
		return errors.ConfigInvalid("message_fraction must be in (0, 1]")
	}
	if c.PollInterval <= 0 {
		return errors.ConfigInvalid("poll_interval must be positive")
	}
	if c.PollTimeout <= 0 {
		return errors.ConfigInvalid("poll_timeout must be positive")
	}
	return nil
}
