package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`

	HTTP struct {
		Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
		Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	} `yaml:"http"`

	DBDriver  string `yaml:"db_driver" env:"DB_DRIVER" env-default:"sqlite"`
	DBAddress string `yaml:"db_address" env:"DB_ADDRESS" env-default:"file:todo_system.db"`

	// Timezone is the single reference zone for all due-date
	// validation; display conversion happens downstream.
	Timezone string `yaml:"timezone" env:"TIMEZONE" env-default:"Asia/Taipei"`

	RolloverEnabled bool `yaml:"rollover_enabled" env:"ROLLOVER_ENABLED" env-default:"true"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
