package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Hard cap on the generation horizon, one leap year.
const MaxHorizonDays = 366

// Config keeps runtime settings for the tracker.
type Config struct {
	Timezone    string `mapstructure:"timezone"`
	Database    string `mapstructure:"database"`
	HorizonDays int    `mapstructure:"horizon_days"`
}

// Load reads configuration from an optional TOML file, TASKDECK_* env
// vars, and defaults. cfgFile may be empty; a missing file is not an
// error, first-run works on defaults alone.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("timezone", "Local")
	v.SetDefault("database", defaultDatabasePath())
	v.SetDefault("horizon_days", 14)

	v.SetEnvPrefix("TASKDECK")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("taskdeck")
		v.SetConfigType("toml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taskdeck"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HorizonDays < 1 {
		cfg.HorizonDays = 14
	}
	if cfg.HorizonDays > MaxHorizonDays {
		cfg.HorizonDays = MaxHorizonDays
	}

	return cfg, nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskdeck.db"
	}
	return filepath.Join(home, ".taskdeck", "taskdeck.db")
}
