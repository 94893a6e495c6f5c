package config

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cognicore/legalkb/pkg/legalkb"
	"github.com/cognicore/legalkb/pkg/legalkb/ingest"
	"github.com/cognicore/legalkb/pkg/legalkb/registry"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
	"github.com/cognicore/legalkb/pkg/legalkb/source/sqlite"
	"github.com/cognicore/legalkb/pkg/legalkb/stoplist"
	"github.com/cognicore/legalkb/pkg/legalkb/topic"
)

// Loader loads the files a Config points at and constructs components
type Loader struct {
	Config *Config
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer    *ingest.Tokenizer
	Expander     *topic.Expander
	Registry     *registry.Registry
	Source       source.Source
	ArticleLabel string

	closer io.Closer
}

// Close releases the record source, if it holds any resources.
func (c *Components) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Options returns knowledge base options wired to the components.
func (c *Components) Options(logger *log.Logger) legalkb.Options {
	return legalkb.Options{
		Source:       c.Source,
		Registry:     c.Registry,
		Tokenizer:    c.Tokenizer,
		Expander:     c.Expander,
		ArticleLabel: c.ArticleLabel,
		Logger:       logger,
	}
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{ArticleLabel: cfg.ArticleLabel}

	// Load stoplist
	if cfg.StoplistPath != "" {
		sl, err := LoadStoplist(cfg.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(sl.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Spanish)
	}

	// Load topic table
	if cfg.TopicsPath != "" {
		tp, err := LoadTopics(cfg.TopicsPath)
		if err != nil {
			return nil, fmt.Errorf("load topics: %w", err)
		}
		comp.Expander = topic.NewExpander(tp.Topics)
	} else {
		comp.Expander = topic.NewDefaultExpander()
	}

	// Registry
	if len(cfg.Registry) > 0 {
		reg, err := registry.New(cfg.Registry)
		if err != nil {
			return nil, fmt.Errorf("load registry: %w", err)
		}
		comp.Registry = reg
	} else {
		comp.Registry = registry.Default()
	}

	// Record source
	switch cfg.Source {
	case SourceSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite source: %w", err)
		}
		comp.Source = store
		comp.closer = store
	default:
		format, err := cfg.DirFormat()
		if err != nil {
			return nil, fmt.Errorf("load source: %w", err)
		}
		comp.Source = source.NewDir(cfg.DataDir, format)
	}

	return comp, nil
}

// Factory returns a knowledge base factory for legalkb.Cache. A non-empty
// data directory passed to the factory replaces cfg.DataDir.
//
// Resources opened for a SQLite source live as long as the process.
func Factory(ctx context.Context, cfg *Config, logger *log.Logger) legalkb.Factory {
	return func(dataDir string) (*legalkb.KnowledgeBase, error) {
		c := *cfg
		if dataDir != "" {
			c.DataDir = dataDir
		}
		comp, err := (&Loader{Config: &c}).Load(ctx)
		if err != nil {
			return nil, err
		}
		return legalkb.New(comp.Options(logger)), nil
	}
}
