package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/legalkb/pkg/legalkb"
	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
	"github.com/cognicore/legalkb/pkg/legalkb/registry"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
	"github.com/cognicore/legalkb/pkg/legalkb/topic"
)

// Source kinds accepted in Config.Source.
const (
	SourceJSON   = "json"
	SourceText   = "text"
	SourceHTML   = "html"
	SourceSQLite = "sqlite"
)

// Environment variables that override the file.
const (
	EnvDataDir    = "LEGALKB_DATA_DIR"
	EnvSource     = "LEGALKB_SOURCE"
	EnvSQLitePath = "LEGALKB_SQLITE_PATH"
	EnvHTTPAddr   = "LEGALKB_HTTP_ADDR"
)

// Config is the root application configuration.
type Config struct {
	DataDir      string           `yaml:"data_dir"`
	Source       string           `yaml:"source"`
	SQLitePath   string           `yaml:"sqlite_path,omitempty"`
	ArticleLabel string           `yaml:"article_label"`
	StoplistPath string           `yaml:"stoplist,omitempty"`
	TopicsPath   string           `yaml:"topics,omitempty"`
	Registry     []registry.Entry `yaml:"registry,omitempty"`
	MaxResults   int              `yaml:"max_results"`
	HTTPAddr     string           `yaml:"http_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:      legalkb.DefaultDataDir,
		Source:       SourceJSON,
		ArticleLabel: article.DefaultLabel,
		MaxResults:   10,
		HTTPAddr:     ":8080",
	}
}

// Load reads a config from path. If the file does not exist, returns
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		applyDefaults(&fromFile)
		cfg = &fromFile
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source == "" {
		cfg.Source = def.Source
	}
	if cfg.ArticleLabel == "" {
		cfg.ArticleLabel = def.ArticleLabel
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = def.HTTPAddr
	}
	if cfg.Source == SourceSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "legalkb.db")
	}
}

func applyEnv(cfg *Config) {
	cfg.DataDir = getEnv(EnvDataDir, cfg.DataDir)
	cfg.Source = strings.ToLower(getEnv(EnvSource, cfg.Source))
	cfg.SQLitePath = getEnv(EnvSQLitePath, cfg.SQLitePath)
	cfg.HTTPAddr = getEnv(EnvHTTPAddr, cfg.HTTPAddr)
	if cfg.Source == SourceSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "legalkb.db")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Validate checks that the source kind is known and the registry is usable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceJSON, SourceText, SourceHTML:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is empty: %w", internalerr.ErrInvalidConfig)
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is empty: %w", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown source %q: %w", c.Source, internalerr.ErrInvalidConfig)
	}
	if len(c.Registry) > 0 {
		if _, err := registry.New(c.Registry); err != nil {
			return err
		}
	}
	return nil
}

// DirFormat maps a directory source kind to its document format.
func (c *Config) DirFormat() (source.Format, error) {
	return source.ParseFormat(c.Source)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// Topics is the topic expansion table. Order is significant.
type Topics struct {
	Topics []topic.Entry `yaml:"topics"`
}

// LoadTopics loads a topic expansion table from a YAML file
func LoadTopics(path string) (*Topics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tp Topics
	if err := yaml.Unmarshal(data, &tp); err != nil {
		return nil, err
	}

	return &tp, nil
}
