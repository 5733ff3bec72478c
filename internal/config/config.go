// Package config resolves runtime settings from defaults, an optional YAML
// file, an optional .env file and CURRICULA_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/curricula/internal/calendar"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the binary reads.
const EnvPrefix = "CURRICULA"

const (
	keyDBPath       = "db_path"
	keyHolidays     = "holidays"
	keyLogUseCases  = "log.use_cases"
	keyDefaultActor = "default_actor"
	keyStrict       = "strict"
)

var keys = []string{keyDBPath, keyHolidays, keyLogUseCases, keyDefaultActor, keyStrict}

type Config struct {
	DBPath string

	// Holidays are fixed MM-DD holidays. The last Monday of August is
	// always a holiday and is not listed here.
	Holidays     []string
	LogUseCases  bool
	DefaultActor string

	// Strict rejects courses whose prerequisites form a cycle instead of
	// placing them with the fallback pass.
	Strict bool

	// File is the config file that was read, if any.
	File string
}

// Options point Load at explicit files. Empty fields use the defaults:
// $HOME/.curricula/config.yaml and ./.env, both optional.
type Options struct {
	ConfigFile string
	DotEnvFile string
}

func defaultHolidays() []string {
	out := make([]string, len(calendar.DefaultFixedHolidays))
	for i, md := range calendar.DefaultFixedHolidays {
		out[i] = md.String()
	}
	return out
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	v := viper.New()
	v.SetDefault(keyDBPath, filepath.Join("~", ".curricula", "curricula.db"))
	v.SetDefault(keyHolidays, defaultHolidays())
	v.SetDefault(keyLogUseCases, false)
	v.SetDefault(keyDefaultActor, "")
	v.SetDefault(keyStrict, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, err
	}
	if err := applyDotEnv(v, opts.DotEnvFile); err != nil {
		return Config{}, err
	}

	dbPath, err := expandHome(v.GetString(keyDBPath))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DBPath:       dbPath,
		Holidays:     splitList(v.GetStringSlice(keyHolidays)),
		LogUseCases:  v.GetBool(keyLogUseCases),
		DefaultActor: strings.TrimSpace(v.GetString(keyDefaultActor)),
		Strict:       v.GetBool(keyStrict),
		File:         v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".curricula"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// applyDotEnv layers .env values under real environment variables without
// touching the process environment.
func applyDotEnv(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	for _, key := range keys {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := vals[name]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// splitList accepts both YAML lists and comma separated strings.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	for _, h := range c.Holidays {
		if _, err := calendar.ParseMonthDay(h); err != nil {
			return err
		}
	}
	return nil
}

// Calendar builds the working calendar for the configured holidays.
func (c Config) Calendar() (*calendar.Calendar, error) {
	fixed := make([]calendar.MonthDay, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		md, err := calendar.ParseMonthDay(h)
		if err != nil {
			return nil, err
		}
		fixed = append(fixed, md)
	}
	return calendar.New(fixed), nil
}
