package legalkb

import (
	"context"
	"sync"

	"github.com/cognicore/legalkb/pkg/legalkb/source"
)

// Factory builds an unloaded KnowledgeBase. dataDir is the record-source
// location override; an empty value means the factory's own default.
type Factory func(dataDir string) (*KnowledgeBase, error)

// Cache constructs and loads one KnowledgeBase on first use and returns the
// same instance on every later call. A failed construction or a cancelled
// load leaves the cache empty so the next call tries again.
type Cache struct {
	factory Factory

	mu sync.Mutex
	kb *KnowledgeBase
}

// NewCache returns a cache that builds its base with factory.
func NewCache(factory Factory) *Cache {
	return &Cache{factory: factory}
}

// Get returns the cached base, building and loading it on first call.
func (c *Cache) Get(ctx context.Context) (*KnowledgeBase, error) {
	return c.GetWithDataDir(ctx, "")
}

// GetWithDataDir is Get with a record-source override. The override is
// ignored once the base exists.
func (c *Cache) GetWithDataDir(ctx context.Context, dataDir string) (*KnowledgeBase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kb != nil {
		return c.kb, nil
	}

	kb, err := c.factory(dataDir)
	if err != nil {
		return nil, err
	}
	if _, err := kb.Load(ctx); err != nil {
		return nil, err
	}
	c.kb = kb
	return kb, nil
}

// Ready reports whether the base has been built.
func (c *Cache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kb != nil
}

var (
	sharedOnce  sync.Once
	sharedCache *Cache
)

// DefaultFactory reads JSON documents from dataDir, or from
// DefaultDataDir when dataDir is empty, with the default registry.
func DefaultFactory(dataDir string) (*KnowledgeBase, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return New(Options{Source: source.NewJSONDir(dataDir)}), nil
}

// Shared returns the process-wide base, loading it from dataDir on the
// first call. Later calls ignore dataDir.
func Shared(ctx context.Context, dataDir string) (*KnowledgeBase, error) {
	sharedOnce.Do(func() {
		sharedCache = NewCache(DefaultFactory)
	})
	return sharedCache.GetWithDataDir(ctx, dataDir)
}
