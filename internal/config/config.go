package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Media   MediaConfig   `mapstructure:"media"`
	Content ContentConfig `mapstructure:"content"`
	Session SessionConfig `mapstructure:"session"`
	OIDC    OIDCConfig    `mapstructure:"oidc"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port string    `mapstructure:"port"`
	TLS  TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CacheConfig holds configuration for the SQLite read cache.
type CacheConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// MediaConfig holds credentials and limits for the external media store.
type MediaConfig struct {
	CloudName     string `mapstructure:"cloud_name"`
	APIKey        string `mapstructure:"api_key"`
	APISecret     string `mapstructure:"api_secret"`
	BaseFolder    string `mapstructure:"base_folder"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
}

// ContentConfig holds policies governing document content.
//
// MediaTracking selects how referenced media URLs are determined:
// "content" derives them from the content tree, "explicit" trusts the
// image-URL list supplied by the client. DeletePolicy selects what
// deleting a topic does while it still owns documents: "restrict"
// refuses, "cascade" deletes the documents (and their media) first.
type ContentConfig struct {
	MaxDocumentBytes int64  `mapstructure:"max_document_bytes"`
	MediaTracking    string `mapstructure:"media_tracking"`
	DeletePolicy     string `mapstructure:"delete_policy"`
	PageSize         int    `mapstructure:"page_size"`
}

// SessionConfig holds session management configuration.
type SessionConfig struct {
	Lifetime int `mapstructure:"lifetime"` // in hours
}

// OIDCConfig holds OIDC client configuration.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// AuthConfig holds authorization configuration.
type AuthConfig struct {
	// AdminSubjects are OIDC subjects granted the admin role at startup.
	AdminSubjects []string `mapstructure:"admin_subjects"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("db.dsn", "algoarena:algoarena@tcp(localhost:3306)/algoarena?parseTime=true")
	viper.SetDefault("cache.file_path", "cache.db")
	viper.SetDefault("media.base_folder", "algoarena")
	viper.SetDefault("media.max_image_bytes", 500*1024)
	viper.SetDefault("content.max_document_bytes", 5*1024*1024)
	viper.SetDefault("content.media_tracking", "content")
	viper.SetDefault("content.delete_policy", "restrict")
	viper.SetDefault("content.page_size", 20)
	viper.SetDefault("session.lifetime", 24)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/algoarena/")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("ALGOARENA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
