// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is read when no -config flag is given. A missing default file
// is not an error.
const DefaultPath = "config.yaml"

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	RateLimit struct {
		RequestsPerSecond int `yaml:"requestsPerSecond"`
		Burst             int `yaml:"burst"`
	} `yaml:"rateLimit"`

	HTTPClient struct {
		Timeout    int    `yaml:"timeout"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
		UserAgent  string `yaml:"userAgent"`
	} `yaml:"httpClient"`

	Input struct {
		Document  string `yaml:"document"`
		StopWords string `yaml:"stopWords"`
	} `yaml:"input"`

	Output struct {
		Format       string `yaml:"format"`
		WordWidth    int    `yaml:"wordWidth"`
		ShowProgress bool   `yaml:"showProgress"`
		PrettyPrint  bool   `yaml:"prettyPrint"`
		SavePath     string `yaml:"savePath"`
	} `yaml:"output"`

	Archive struct {
		Path string `yaml:"path"`
	} `yaml:"archive"`

	Logging struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"logging"`
}

// Load reads the YAML file at path, applies TAGEXTRACT_* environment
// overrides (a .env file in the working directory is honoured) and fills in
// defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = DefaultPath
	}
	if err := decodeFile(path, &cfg); err != nil {
		if !(path == DefaultPath && errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}

	// Load .env file if it exists, but don't error if it doesn't
	_ = godotenv.Load()
	applyEnv(&cfg)

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("error decoding config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TAGEXTRACT_DOCUMENT"); v != "" {
		cfg.Input.Document = v
	}
	if v := os.Getenv("TAGEXTRACT_STOPWORDS"); v != "" {
		cfg.Input.StopWords = v
	}
	if v := os.Getenv("TAGEXTRACT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("TAGEXTRACT_ARCHIVE"); v != "" {
		cfg.Archive.Path = v
	}
	if v := os.Getenv("TAGEXTRACT_USER_AGENT"); v != "" {
		cfg.HTTPClient.UserAgent = v
	}
	if v := os.Getenv("TAGEXTRACT_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Verbose = b
		}
	}
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 1
	}
	if cfg.HTTPClient.Timeout == 0 {
		cfg.HTTPClient.Timeout = 30
	}
	if cfg.HTTPClient.MaxRetries == 0 {
		cfg.HTTPClient.MaxRetries = 3
	}
	if cfg.HTTPClient.RetryDelay == 0 {
		cfg.HTTPClient.RetryDelay = 1
	}
	if cfg.HTTPClient.UserAgent == "" {
		cfg.HTTPClient.UserAgent = "TagExtractor/1.0"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Output.WordWidth == 0 {
		cfg.Output.WordWidth = 20
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("requestsPerSecond must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("burst must be positive")
	}
	if c.HTTPClient.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.HTTPClient.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must not be negative")
	}
	if c.Output.Format != FormatText && c.Output.Format != FormatJSON {
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Output.WordWidth < 0 {
		return fmt.Errorf("wordWidth must not be negative")
	}
	return nil
}
