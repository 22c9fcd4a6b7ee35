package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	IsDebug  *bool  `yaml:"is_debug" env-default:"false"`
	TimeZone string `yaml:"time_zone" env-default:"UTC"`
	Listen   struct {
		BindIP   string `yaml:"bind_ip" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env-default:"5000"`
		TLS      bool   `yaml:"tls_enabled" env-default:"false"`
		CertFile string `yaml:"cert_file" env-default:""`
		KeyFile  string `yaml:"key_file" env-default:""`
	} `yaml:"listen"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env-default:"0.0.0.0"`
		Port    string `yaml:"port" env-default:"9100"`
	} `yaml:"metrics"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"localhost"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env-default:""`
		Database string `yaml:"database" env-default:"pvsizer"`
	} `yaml:"mongo"`
	Pvwatts struct {
		Url            string  `yaml:"url" env:"PVWATTS_URL" env-default:"https://developer.nrel.gov/api/pvwatts/v8.json"`
		ApiKey         string  `yaml:"api_key" env:"PVWATTS_API_KEY" env-default:""`
		TimeoutSeconds int     `yaml:"timeout_seconds" env-default:"20"`
		ModuleType     int     `yaml:"module_type" env-default:"0"`
		Losses         float64 `yaml:"losses" env-default:"14"`
		ArrayType      int     `yaml:"array_type" env-default:"1"`
	} `yaml:"pvwatts"`
	Geocode struct {
		Enabled        bool   `yaml:"enabled" env-default:"false"`
		Url            string `yaml:"url" env-default:"https://nominatim.openstreetmap.org/search"`
		UserAgent      string `yaml:"user_agent" env-default:"pvsizer"`
		TimeoutSeconds int    `yaml:"timeout_seconds" env-default:"10"`
	} `yaml:"geocode"`
	TelegramApiKey string `yaml:"telegram_api_key" env:"TELEGRAM_API_KEY" env-default:""`
}

var instance *Config
var instanceErr error
var once sync.Once

func GetConfig() (*Config, error) {
	once.Do(func() {
		log.Println("reading config")
		instance = &Config{}
		if err := cleanenv.ReadConfig("config.yml", instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			log.Println(desc)
			log.Println(err)
			instance = nil
			instanceErr = err
		}
	})
	return instance, instanceErr
}
