package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tunable settings for the import pipeline and the
// query assistant. Database credentials and API keys come from the
// environment (.env), not from here.
type Config struct {
	DataDir       string `mapstructure:"data_dir"`
	DatasetsFile  string `mapstructure:"datasets_file"`
	BatchSize     int    `mapstructure:"batch_size"`
	ProgressEvery int    `mapstructure:"progress_every"`
	GeminiModel   string `mapstructure:"gemini_model"`
}

// Load reads config.yaml from the working directory. A missing file is
// fine; defaults are applied either way.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("data_dir", ".")
	viper.SetDefault("datasets_file", "datasets_E.json")
	viper.SetDefault("batch_size", 10000)
	viper.SetDefault("progress_every", 10)
	viper.SetDefault("gemini_model", "gemini-1.5-flash")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive, got %d", config.BatchSize)
	}

	return &config, nil
}
