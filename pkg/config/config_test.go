package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		body string
		want func(*Config)
	}{
		"missing keys keep defaults": {
			body: "[engine]\nfuzzy_threshold = 1\n",
			want: func(c *Config) { c.Engine.FuzzyThreshold = 1 },
		},
		"all sections": {
			body: `
[engine]
fuzzy_fallback = false
fuzzy_threshold = 3
[server]
min_prefix = 1
max_prefix = 20
[vocab]
path = "/srv/console.txt"
watch = false
[cli]
show_timing = false
`,
			want: func(c *Config) {
				c.Engine = EngineConfig{FuzzyFallback: false, FuzzyThreshold: 3}
				c.Server = ServerConfig{MinPrefix: 1, MaxPrefix: 20}
				c.Vocab = VocabConfig{Path: "/srv/console.txt", Watch: false}
				c.CLI.ShowTiming = false
			},
		},
		"wrong type is recovered per key": {
			body: "[engine]\nfuzzy_threshold = \"two\"\nfuzzy_fallback = false\n[server]\nmax_prefix = 30\n",
			want: func(c *Config) {
				c.Engine.FuzzyFallback = false
				c.Server.MaxPrefix = 30
			},
		},
		"negative threshold is normalized": {
			body: "[engine]\nfuzzy_threshold = -4\n",
			want: func(*Config) {},
		},
		"max below min is normalized": {
			body: "[server]\nmin_prefix = 5\nmax_prefix = 2\n",
			want: func(c *Config) { c.Server.MinPrefix = 5 },
		},
		"unparseable file uses defaults": {
			body: "[engine\nfuzzy_threshold = ",
			want: func(*Config) {},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tc.body))
			require.NoError(t, err)

			want := DefaultConfig()
			tc.want(want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[vocab]\npath = \"commands\"\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "commands", cfg.Vocab.Path)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	threshold := 1
	fallback := false
	require.NoError(t, cfg.Update(path, &threshold, &fallback))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Engine.FuzzyThreshold)
	assert.False(t, reloaded.Engine.FuzzyFallback)
	assert.Equal(t, cfg.Server, reloaded.Server)
}

func TestUpdateInMemory(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	negative := -2
	require.NoError(t, cfg.Update("", &negative, nil))
	assert.Equal(t, DefaultConfig().Engine.FuzzyThreshold, cfg.Engine.FuzzyThreshold)
	assert.True(t, cfg.Engine.FuzzyFallback)
}
