package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the binaries (LINGO_API_URL...).
const EnvPrefix = "LINGO"

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"log_level"`
	File  string `mapstructure:"log_file"`
}

// Client is the configuration of the quiz client.
type Client struct {
	APIURL           string        `mapstructure:"api_url"`
	Email            string        `mapstructure:"email"`
	Password         string        `mapstructure:"password"`
	Register         bool          `mapstructure:"register"`
	SeedDemo         bool          `mapstructure:"seed_demo"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	PointsPerCorrect int           `mapstructure:"points_per_correct"`
	Log              `mapstructure:",squash"`
}

// Server is the configuration of the course service.
type Server struct {
	Addr             string        `mapstructure:"addr"`
	Storage          string        `mapstructure:"storage"`
	DatabaseURL      string        `mapstructure:"database_url"`
	DBConnectRetries int           `mapstructure:"db_connect_retries"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	SeedOnly         bool          `mapstructure:"seed_only"`
	Log              `mapstructure:",squash"`
}

// LoadClient reads the client configuration from .env, an optional lingo.yaml,
// LINGO_* variables and args, later sources winning.
func LoadClient(args []string) (*Client, error) {
	flags := pflag.NewFlagSet("quiz", pflag.ContinueOnError)
	flags.String("api-url", "http://localhost:8080/api", "base URL of the course service API")
	flags.String("email", "", "account email")
	flags.String("password", "", "account password")
	flags.Bool("register", false, "create the account before logging in")
	flags.Bool("seed-demo", false, "ask the service to seed demo courses")
	flags.Duration("request-timeout", 15*time.Second, "timeout for each request (0 disables)")
	flags.Int("points-per-correct", 10, "points awarded per correct answer")
	addLogFlags(flags, "quiz.log")

	v, err := load(flags, args)
	if err != nil {
		return nil, err
	}
	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid client setting.
func (c *Client) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url is required")
	}
	if c.Email == "" || c.Password == "" {
		return errors.New("config: email and password are required")
	}
	if c.PointsPerCorrect <= 0 {
		return fmt.Errorf("config: points_per_correct must be positive, got %d", c.PointsPerCorrect)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadServer reads the server configuration. DATABASE_URL is honoured as well as
// LINGO_DATABASE_URL.
func LoadServer(args []string) (*Server, error) {
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flags.String("addr", ":8080", "listen address")
	flags.String("storage", StoragePostgres, "postgres or memory")
	flags.String("database-url", "", "postgres connection string")
	flags.Int("db-connect-retries", 10, "database ping attempts before giving up")
	flags.String("jwt-secret", "", "HMAC secret for session tokens")
	flags.Duration("token-ttl", 72*time.Hour, "lifetime of issued tokens")
	flags.Bool("seed-only", false, "seed demo data and exit")
	addLogFlags(flags, "")

	v, err := load(flags, args)
	if err != nil {
		return nil, err
	}
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}
	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Storage backends of the course service.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Validate reports the first invalid server setting.
func (c *Server) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: database_url (or DATABASE_URL) is required")
		}
	case StorageMemory:
		if c.SeedOnly {
			return errors.New("config: seed_only needs postgres storage")
		}
	default:
		return fmt.Errorf("config: storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("config: jwt_secret must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.DBConnectRetries < 1 {
		c.DBConnectRetries = 1
	}
	return nil
}

func addLogFlags(flags *pflag.FlagSet, defaultFile string) {
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-file", defaultFile, "rotated log file (empty disables file logging)")
	flags.String("config", "", "path to a config file (default ./lingo.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
}

// load parses args and layers .env, the config file and the environment over the flag defaults.
func load(flags *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return v, nil
	}
	v.SetConfigName("lingo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}
