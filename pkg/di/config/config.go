package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DEFAULT_CITY_LEVEL = 8

type Config struct {
	DBPath     string
	CityLevel  uint32
	Threads    int
	BatchSize  int
	APIPort    int
	APITimeout time.Duration
}

// New reads config.yaml from the working directory when present. Every key can be overridden
// by an OSM_IMPORT_<KEY> environment variable or a bound command flag.
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("OSM_IMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("DB_PATH", "osm_import.db")
	viper.SetDefault("CITY_LEVEL", DEFAULT_CITY_LEVEL)
	viper.SetDefault("THREADS", 4)
	viper.SetDefault("BATCH_SIZE", 1000)
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")

	if err := viper.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}

	config := &Config{
		DBPath:     viper.GetString("DB_PATH"),
		CityLevel:  viper.GetUint32("CITY_LEVEL"),
		Threads:    viper.GetInt("THREADS"),
		BatchSize:  viper.GetInt("BATCH_SIZE"),
		APIPort:    viper.GetInt("API_PORT"),
		APITimeout: viper.GetDuration("API_TIMEOUT"),
	}
	if config.Threads < 1 {
		return nil, errors.New("THREADS must be positive")
	}
	return config, nil
}
