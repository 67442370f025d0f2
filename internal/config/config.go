package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is split into a public part (safe to commit) and a private part
// (secrets: signing key, database credentials). Both are loaded from yaml
// files and passed explicitly into constructors; there is no global config.
type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr           string        `yaml:"addr"`
	JwtIssuer      string        `yaml:"jwt_issuer"`
	JwtTTL         time.Duration `yaml:"jwt_ttl"`
	JwtRefreshTTL  time.Duration `yaml:"jwt_refresh_ttl"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	// JWT_KEY env var wins over the yaml value so containerized deployments
	// can avoid a secrets file entirely
	if key := os.Getenv("JWT_KEY"); key != "" {
		private.JwtKey = key
	}

	return &Config{public, private}
}
