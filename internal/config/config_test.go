package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fchimpan/kusa-learn/internal/streak"
)

func writeConfig(t *testing.T, home, body string) string {
	t.Helper()

	dir := filepath.Join(home, configDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, configName+"."+configType)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := Load(Options{Home: home})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, filepath.Join(home, configDir, stateFile), cfg.StatePath)
	assert.Equal(t, streak.DefaultLookbackDays, cfg.LookbackDays)
	assert.Equal(t, streak.ChargeAlways, cfg.ChargePolicy)
	assert.Equal(t, DefaultBudget, cfg.Budget)
	assert.Empty(t, cfg.File)
}

func TestLoadFromConfigDir(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	path := writeConfig(t, home, `
course = "3"

[api]
base_url = "https://learn.example.com/api/"
token = "file-token"
timeout = "5s"

[state]
path = "~/progress.toml"

[streak]
lookback_days = 20

[saver]
charge_policy = "only_when_added"
budget = 2
`)

	cfg, err := Load(Options{Home: home})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "https://learn.example.com/api/", cfg.BaseURL)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(home, "progress.toml"), cfg.StatePath)
	assert.Equal(t, 20, cfg.LookbackDays)
	assert.Equal(t, streak.ChargeOnlyWhenAdded, cfg.ChargePolicy)
	assert.Equal(t, 2, cfg.Budget)
	assert.Equal(t, "3", cfg.Course)
}

func TestLoadEnvOverrides(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "[api]\ntoken = \"file-token\"\n")

	t.Setenv("KUSA_LEARN_TOKEN", "env-token")
	t.Setenv("KUSA_LEARN_API_URL", "https://env.example.com/")
	t.Setenv("KUSA_LEARN_SAVER_BUDGET", "4")

	cfg, err := Load(Options{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "https://env.example.com/", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Budget)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("course = \"9\"\n"), 0o600))

	cfg, err := Load(Options{File: path, Home: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "9", cfg.Course)

	_, err = Load(Options{File: filepath.Join(t.TempDir(), "missing.toml"), Home: t.TempDir()})
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"policy":  "[saver]\ncharge_policy = \"sometimes\"\n",
		"budget":  "[saver]\nbudget = -1\n",
		"timeout": "[api]\ntimeout = \"0s\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			home := t.TempDir()
			writeConfig(t, home, body)
			_, err := Load(Options{Home: home})
			assert.Error(t, err)
		})
	}
}
