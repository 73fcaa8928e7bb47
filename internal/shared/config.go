package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Fetch       FetchConfig       `toml:"fetch"`
	Output      OutputConfig      `toml:"output"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains Spotify API credentials.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Scope        string `toml:"scope"`
}

// FetchConfig contains tunables for the history and feature fetchers.
type FetchConfig struct {
	HistoryLimit int     `toml:"history_limit"` // recently-played page size (provider max 50)
	ChunkSize    int     `toml:"chunk_size"`    // ids per audio-features request (provider max 100)
	RateLimit    float64 `toml:"rate_limit"`    // requests per second across feature chunks
	MaxRetries   int     `toml:"max_retries"`   // bounded retries for 429/5xx responses
}

// OutputConfig contains snapshot and export file locations.
type OutputConfig struct {
	Dir          string `toml:"dir"`
	HistoryFile  string `toml:"history_file"`
	FeaturesFile string `toml:"features_file"`
	DatasetFile  string `toml:"dataset_file"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv overlays credentials from a .env file and the process environment.
//
// A missing .env file is not an error; environment variables always win over
// the TOML file so CLIENT_ID/CLIENT_SECRET never need to be written to disk.
func (c *Config) LoadEnv(path string) {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)

	if v := os.Getenv("CLIENT_ID"); v != "" {
		c.Credentials.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET"); v != "" {
		c.Credentials.ClientSecret = v
	}
	if v := os.Getenv("REDIRECT_URI"); v != "" {
		c.Credentials.RedirectURI = v
	}
}

// ValidateCredentials reports whether the config can drive an authorization
// flow. Checked before any network call.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.ClientID == "" || c.Credentials.ClientSecret == "" {
		return fmt.Errorf("%w: CLIENT_ID and CLIENT_SECRET must be set via .env, environment, or config.toml", ErrMissingCredentials)
	}
	return nil
}
