package config

import (
	"runtime"

	"github.com/spf13/viper"

	"github.com/eteb/Smart-File-Tool/internal"
)

type Config struct {
	Performance struct {
		Workers int
	}
	Hasher struct {
		BufferSize int `mapstructure:"buffer_size"`
	}
	Logging struct {
		Level string
		File  string
	}
}

var cfg Config

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.smart-file-tool")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/smart-file-tool")

	viper.SetDefault("performance.workers", runtime.NumCPU())
	viper.SetDefault("hasher.buffer_size", internal.DefaultHashBufferSize)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
