package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		BcryptCost    int
		AdminName     string
		AdminPassword string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
// Environment keys use the TODO_ prefix, e.g. TODO_AUTH_JWTSECRET.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("database.path", "data/jwt-todo.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.adminname", "")
	v.SetDefault("auth.adminpassword", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required (TODO_AUTH_JWTSECRET)")
	}
	if (c.Auth.AdminName == "") != (c.Auth.AdminPassword == "") {
		return fmt.Errorf("auth admin name and password must be set together")
	}
	return nil
}

// loadDotEnv exports the entries of an optional .env file in the working
// directory. Variables already present in the environment win.
func loadDotEnv() {
	dotenv := viper.New()
	dotenv.SetConfigFile(".env")
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return
	}

	// viper lower-cases keys; environment names are upper case by convention
	for _, key := range dotenv.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); !exists {
			_ = os.Setenv(name, dotenv.GetString(key))
		}
	}
}
