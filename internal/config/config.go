// Package config loads process configuration from a YAML file, an optional
// dotenv file and the environment.
//
// Precedence, highest first: environment (BLOG_* or the legacy SECRET_KEY /
// SQLALCHEMY_DATABASE_URI names), the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"blog/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yml"
	defaultEnvFile    = ".env"
	envPrefix         = "BLOG"
)

// Supported password hash methods.
const (
	HashPBKDF2SHA256 = "pbkdf2:sha256"
	HashPBKDF2SHA512 = "pbkdf2:sha512"
	HashBcrypt       = "bcrypt"
)

var (
	ErrMissingSecretKey   = errors.New("secret_key is required")
	ErrMissingDatabaseURL = errors.New("database_url is required")
)

type Config struct {
	SecretKey   string        `mapstructure:"secret_key"`
	DatabaseURL string        `mapstructure:"database_url"`
	Port        string        `mapstructure:"port"`
	LogLevel    string        `mapstructure:"log_level"`
	GinMode     string        `mapstructure:"gin_mode"`
	Auth        AuthConfig    `mapstructure:"auth"`
	Session     SessionConfig `mapstructure:"session"`
	Server      ServerConfig  `mapstructure:"server"`
}

type AuthConfig struct {
	HashMethod     string `mapstructure:"hash_method"`
	HashIterations int    `mapstructure:"hash_iterations"`
	SaltLength     int    `mapstructure:"salt_length"`
}

type SessionConfig struct {
	CookieName   string        `mapstructure:"cookie_name"`
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// Load parses command-line args (--config, --env-file) and returns the
// merged configuration. A missing config file or a missing required key is
// an error: the process must not start half-configured.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("blog", pflag.ContinueOnError)
	configPath := flags.String("config", defaultConfigPath, "path to the YAML configuration file")
	envFile := flags.String("env-file", defaultEnvFile, "optional dotenv file loaded into the environment")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(*configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("secret_key", envPrefix+"_SECRET_KEY", "SECRET_KEY"); err != nil {
		return nil, fmt.Errorf("bind secret_key env: %w", err)
	}
	if err := v.BindEnv("database_url", envPrefix+"_DATABASE_URL", "SQLALCHEMY_DATABASE_URI"); err != nil {
		return nil, fmt.Errorf("bind database_url env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", *configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5002")
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("gin_mode", "release")

	v.SetDefault("auth.hash_method", HashPBKDF2SHA256)
	v.SetDefault("auth.hash_iterations", 600000)
	v.SetDefault("auth.salt_length", 8)

	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure_cookie", false)

	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// loadEnvFile exports the dotenv file into the environment. Variables that
// are already set win; an absent file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Port = strings.TrimSpace(c.Port)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.GinMode = strings.ToLower(strings.TrimSpace(c.GinMode))
	c.Auth.HashMethod = strings.ToLower(strings.TrimSpace(c.Auth.HashMethod))
}

// Validate checks required keys and value ranges.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode %q: must be debug, release or test", c.GinMode)
	}
	switch c.Auth.HashMethod {
	case HashPBKDF2SHA256, HashPBKDF2SHA512, HashBcrypt:
	default:
		return fmt.Errorf("auth.hash_method %q: unsupported", c.Auth.HashMethod)
	}
	if c.Auth.HashIterations <= 0 {
		return fmt.Errorf("auth.hash_iterations must be positive, got %d", c.Auth.HashIterations)
	}
	if c.Auth.SaltLength <= 0 {
		return fmt.Errorf("auth.salt_length must be positive, got %d", c.Auth.SaltLength)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	return nil
}
