package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all exporter configuration.
type Config struct {
	Environment EnvironmentConfig
	Logger      LoggerConfig
	Graph       GraphConfig
	Export      ExportConfig
}

type EnvironmentConfig struct {
	Name string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// GraphConfig configures the Microsoft Graph source client.
type GraphConfig struct {
	BaseURL           string
	SourceToken       string
	DestToken         string // accepted for CLI compatibility, never used
	Timeout           time.Duration
	RetryAttempts     int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerSecond float64
}

// ExportConfig configures the output side of the pipeline.
type ExportConfig struct {
	OutputFolder  string
	SkipCompleted bool
	FolderPerList bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/todo-export/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/todo-export/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Graph.BaseURL = viper.GetString("graph.base_url")
	cfg.Graph.SourceToken = viper.GetString("graph.source_token")
	cfg.Graph.DestToken = viper.GetString("graph.dest_token")
	cfg.Graph.Timeout = viper.GetDuration("graph.timeout")
	cfg.Graph.RetryAttempts = viper.GetInt("graph.retry_attempts")
	cfg.Graph.RetryBaseDelay = viper.GetDuration("graph.retry_base_delay")
	cfg.Graph.RetryMaxDelay = viper.GetDuration("graph.retry_max_delay")
	cfg.Graph.RequestsPerSecond = viper.GetFloat64("graph.requests_per_second")

	// flat env-var overrides for the common knobs
	if token := viper.GetString("source_token"); token != "" {
		cfg.Graph.SourceToken = token
	}
	if token := viper.GetString("dest_token"); token != "" {
		cfg.Graph.DestToken = token
	}

	cfg.Export.OutputFolder = viper.GetString("export.output_folder")
	cfg.Export.SkipCompleted = viper.GetBool("export.skip_completed")
	cfg.Export.FolderPerList = viper.GetBool("export.folder_per_list")
	if folder := viper.GetString("output_folder"); folder != "" {
		cfg.Export.OutputFolder = folder
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", false)

	viper.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	viper.SetDefault("graph.timeout", "30s")
	viper.SetDefault("graph.retry_attempts", 3)
	viper.SetDefault("graph.retry_base_delay", "1s")
	viper.SetDefault("graph.retry_max_delay", "30s")
	viper.SetDefault("graph.requests_per_second", 4.0)

	viper.SetDefault("export.output_folder", "out")
	viper.SetDefault("export.skip_completed", false)
	viper.SetDefault("export.folder_per_list", false)
}
