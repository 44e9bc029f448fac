package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/statline/cache"
	"github.com/grovetools/statline/errors"
	"github.com/grovetools/statline/render"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "statline.yml", `
ttl:
  git-branch: 30s
throttle: 100ms
message_timeout: 5s
inactive_branch: true
icons:
  modified: "*"
styles:
  StatlineBranch: {fg: "#ffaa00", bold: true}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Throttle.Std())
	assert.Equal(t, 5*time.Second, cfg.MessageTimeout.Std())
	assert.True(t, cfg.InactiveBranch)
	assert.Equal(t, "*", cfg.Icons.Modified)

	t.Run("partial ttl override keeps defaults", func(t *testing.T) {
		ttls := cfg.TTLs()
		assert.Equal(t, 30*time.Second, ttls[cache.FieldGitBranch])
		assert.Equal(t, 50*time.Millisecond, ttls[cache.FieldMode])
	})

	t.Run("style overlay keeps unnamed defaults", func(t *testing.T) {
		styles := cfg.StyleTable()
		assert.Equal(t, render.Style{Fg: "#ffaa00", Bold: true}, styles[render.StyleBranch])
		assert.NotEmpty(t, styles[render.StyleModeNormal].Bg)
	})
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "statline.toml", `
throttle = "60ms"
message_timeout = "5s"
message_fraction = 0.5
poll_interval = "10s"
inactive_branch = true

[ttl]
diagnostics = "2s"

[icons]
no_name = "(scratch)"

[styles.StatlineBranch]
fg = "#ffaa00"
bold = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Millisecond, cfg.Throttle.Std())
	assert.Equal(t, 5*time.Second, cfg.MessageTimeout.Std())
	assert.Equal(t, 0.5, cfg.MessageFraction)
	assert.Equal(t, 10*time.Second, cfg.PollInterval.Std())
	assert.True(t, cfg.InactiveBranch)
	assert.Equal(t, 2*time.Second, cfg.TTLs()[cache.FieldDiagnostics])
	assert.Equal(t, "(scratch)", cfg.Icons.NoName)
	assert.Equal(t, render.Style{Fg: "#ffaa00", Bold: true}, cfg.StyleTable()[render.StyleBranch])
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "statline.yml", "throtle: 50ms\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "statline.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestFromMapMatchesFileLoading(t *testing.T) {
	cfg, err := FromMap(map[string]interface{}{
		"throttle":        "100ms",
		"message_timeout": "5s",
		"inactive_branch": true,
		"ttl":             map[string]interface{}{"git-branch": "30s"},
		"icons":           map[string]interface{}{"modified": "*"},
	})
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "statline.yml", `
throttle: 100ms
message_timeout: 5s
inactive_branch: true
ttl:
  git-branch: 30s
icons:
  modified: "*"
`)
	fromFile, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, fromFile, cfg, "dictionary and file config must decode identically")
}

func TestFromMapRejectsUnknownKeys(t *testing.T) {
	_, err := FromMap(map[string]interface{}{"throtle": "50ms"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default ok", func(c *Config) {}, false},
		{"zero fraction", func(c *Config) { c.MessageFraction = 0 }, true},
		{"fraction above one", func(c *Config) { c.MessageFraction = 1.5 }, true},
		{"negative throttle", func(c *Config) { c.Throttle = Duration(-time.Second) }, true},
		{"negative ttl", func(c *Config) { c.TTL["mode"] = Duration(-time.Second) }, true},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, root, "statline.yml", "throttle: 50ms\n")

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "statline.yml"), found)

	t.Run("missing everywhere", func(t *testing.T) {
		_, err := FindConfigFile(t.TempDir())
		assert.Error(t, err)
	})
}
