package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/cognicore/legalkb/pkg/legalkb"
	"github.com/cognicore/legalkb/pkg/legalkb/config"
)

// app holds the flags shared by every command and the lazily built base.
type app struct {
	configPath string
	dataDir    string
	verbose    bool

	cfg   *config.Config
	cache *legalkb.Cache
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) logger() *log.Logger {
	if a.verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// knowledgeBase returns the loaded base, building it on first use.
func (a *app) knowledgeBase(ctx context.Context) (*legalkb.KnowledgeBase, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if a.cache == nil {
		a.cache = legalkb.NewCache(config.Factory(ctx, cfg, a.logger()))
	}
	return a.cache.Get(ctx)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
