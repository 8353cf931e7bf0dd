package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Redis     RedisConfig
	History   HistoryConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	ReadTimeout   int
	WriteTimeout  int
	BodyLimit     int
	MaxTextLength int
	AllowOrigins  string
	Development   bool
}

type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type HistoryConfig struct {
	MaxRecords    int
	SessionTTLMin int
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

// ErrMissingAPIKey is returned when no Gemini credential is configured.
// The process refuses to start without one.
var ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY in your environment")

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/sentence-evaluator")

	viper.SetEnvPrefix("EVALUATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The credential comes from the conventional variable, not the
	// prefixed namespace.
	viper.BindEnv("gemini.apikey", "GEMINI_API_KEY")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Gemini.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 120)
	viper.SetDefault("server.bodyLimit", 1048576)
	viper.SetDefault("server.maxTextLength", 10000)
	viper.SetDefault("server.allowOrigins", "*")
	viper.SetDefault("server.development", false)

	viper.SetDefault("gemini.baseURL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	viper.SetDefault("gemini.defaultModel", "gemini-1.5-flash")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 3600)

	viper.SetDefault("history.maxRecords", 200)
	viper.SetDefault("history.sessionTTLMin", 60)

	viper.SetDefault("rateLimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
