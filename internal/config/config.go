// Package config resolves CLI settings from config.toml, KUSA_LEARN_* env
// vars and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fchimpan/kusa-learn/internal/streak"
)

const (
	configDir  = ".config/kusa-learn"
	configName = "config"
	configType = "toml"
	stateFile  = "state.toml"
	envPrefix  = "KUSA_LEARN"

	KeyBaseURL      = "api.base_url"
	KeyToken        = "api.token"
	KeyTimeout      = "api.timeout"
	KeyStatePath    = "state.path"
	KeyLookbackDays = "streak.lookback_days"
	KeyChargePolicy = "saver.charge_policy"
	KeyBudget       = "saver.budget"
	KeyCourse       = "course"

	DefaultBaseURL = "http://localhost:8000/api/"
	DefaultTimeout = 30 * time.Second
	DefaultBudget  = 1
)

type Config struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	StatePath    string
	LookbackDays int
	ChargePolicy streak.ChargePolicy
	Budget       int
	Course       string

	// File is the config file that was read, empty when none was found.
	File string
}

type Options struct {
	// File overrides the config file lookup.
	File string
	// Home overrides the user's home directory.
	Home string
}

func Load(opts Options) (Config, error) {
	return LoadWith(viper.New(), opts)
}

func LoadWith(v *viper.Viper, opts Options) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}
	dir := filepath.Join(home, configDir)

	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyStatePath, filepath.Join(dir, stateFile))
	v.SetDefault(KeyLookbackDays, streak.DefaultLookbackDays)
	v.SetDefault(KeyChargePolicy, streak.ChargeAlways.String())
	v.SetDefault(KeyBudget, DefaultBudget)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyToken, envPrefix+"_API_TOKEN", envPrefix+"_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env: %w", err)
	}
	if err := v.BindEnv(KeyBaseURL, envPrefix+"_API_BASE_URL", envPrefix+"_API_URL"); err != nil {
		return Config{}, fmt.Errorf("bind base url env: %w", err)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	policy, err := streak.ParseChargePolicy(v.GetString(KeyChargePolicy))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyChargePolicy, err)
	}

	statePath := expandHome(v.GetString(KeyStatePath), home)
	if statePath == "" {
		return Config{}, errors.New("state path is empty")
	}

	cfg := Config{
		BaseURL:      v.GetString(KeyBaseURL),
		Token:        v.GetString(KeyToken),
		Timeout:      v.GetDuration(KeyTimeout),
		StatePath:    statePath,
		LookbackDays: v.GetInt(KeyLookbackDays),
		ChargePolicy: policy,
		Budget:       v.GetInt(KeyBudget),
		Course:       v.GetString(KeyCourse),
		File:         v.ConfigFileUsed(),
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("%s must be > 0", KeyTimeout)
	}
	if cfg.Budget < 0 {
		return Config{}, fmt.Errorf("%s must be >= 0", KeyBudget)
	}
	return cfg, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
