package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Backend Backend `mapstructure:"backend"`
	Poll    Poll    `mapstructure:"poll"`
	Gateway Gateway `mapstructure:"gateway"`
	Detect  Detect  `mapstructure:"detect"`
	Log     Log     `mapstructure:"log"`
}

// Backend configures the connection to the analysis backend.
type Backend struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Poll configures batch-tracking sessions.
type Poll struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Gateway configures the local report gateway served by `simscan serve`.
type Gateway struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// Detect holds default submission options.
type Detect struct {
	Provider   string `mapstructure:"provider"`
	KGramSize  int    `mapstructure:"k_gram_size"`
	WindowSize int    `mapstructure:"window_size"`
}

// Log configures logging output.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from an optional config file, .env, and the
// environment (SIMSCAN_* variables override file values).
// Parameters:
//   - configPath: explicit config file path; empty falls back to
//     ./configs/config.yaml or ./config.yaml.
//
// Returns:
//   - *Config: resolved configuration.
//   - error: non-nil when a present config file cannot be read or decoded.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.SetEnvPrefix("simscan")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("backend.base_url", "http://localhost:8000/api")
	v.SetDefault("backend.request_timeout", 30*time.Second)
	v.SetDefault("poll.interval", 3*time.Second)
	v.SetDefault("gateway.port", 8090)
	v.SetDefault("gateway.cors.allow_all_origins", true)
	v.SetDefault("gateway.cors.allowed_origins", []string{})
	v.SetDefault("detect.provider", "default")
	v.SetDefault("detect.k_gram_size", 0)
	v.SetDefault("detect.window_size", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("backend.base_url", "SIMSCAN_API_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
