package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the artvault service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	VLM       VLMConfig       `mapstructure:"vlm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Seeder    SeederConfig    `mapstructure:"seeder"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"` // sqlite file path
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // s3, r2, s3compatible (auto-detected when empty)
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// VLMConfig configures the vision model backend and the three-tier model chain.
type VLMConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	PrimaryModel   string        `mapstructure:"primary_model"`
	SecondaryModel string        `mapstructure:"secondary_model"`
	TertiaryModel  string        `mapstructure:"tertiary_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type EmbeddingConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// FallbackConfig bounds the local retry applied to each model tier.
type FallbackConfig struct {
	AttemptsPerTier int           `mapstructure:"attempts_per_tier"`
	BaseDelay       time.Duration `mapstructure:"base_delay"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type ChatConfig struct {
	Model           string        `mapstructure:"model"`
	SessionCapacity int           `mapstructure:"session_capacity"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
}

type SeederConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	ArtistsFile       string        `mapstructure:"artists_file"`
	ReadinessAttempts int           `mapstructure:"readiness_attempts"`
	ReadinessInterval time.Duration `mapstructure:"readiness_interval"`
}

// Load reads configuration from the given file (or ./configs/config.yaml),
// with environment variable overrides.
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

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.use_ssl", "STORAGE_USE_SSL")
	v.BindEnv("vlm.api_key", "OPENAI_API_KEY")
	v.BindEnv("vlm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("vlm.primary_model", "VLM_PRIMARY_MODEL")
	v.BindEnv("vlm.secondary_model", "VLM_SECONDARY_MODEL")
	v.BindEnv("vlm.tertiary_model", "VLM_TERTIARY_MODEL")
	v.BindEnv("embedding.api_key", "EMBEDDING_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/artvault.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "artvault")
	v.SetDefault("database.name", "artvault")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "artworks")
	v.SetDefault("storage.key_prefix", "artworks/")

	v.SetDefault("vlm.base_url", "https://api.openai.com/v1")
	v.SetDefault("vlm.primary_model", "gpt-4o")
	v.SetDefault("vlm.secondary_model", "gpt-4o-mini")
	v.SetDefault("vlm.tertiary_model", "gpt-4-turbo")
	v.SetDefault("vlm.timeout", 60*time.Second)

	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)

	v.SetDefault("fallback.attempts_per_tier", 3)
	v.SetDefault("fallback.base_delay", 2*time.Second)
	v.SetDefault("fallback.multiplier", 2.0)

	v.SetDefault("chat.model", "gpt-4o-mini")
	v.SetDefault("chat.session_capacity", 256)
	v.SetDefault("chat.session_ttl", 30*time.Minute)

	v.SetDefault("seeder.enabled", false)
	v.SetDefault("seeder.artists_file", "./seed/sample-artists.json")
	v.SetDefault("seeder.readiness_attempts", 10)
	v.SetDefault("seeder.readiness_interval", 3*time.Second)
}
