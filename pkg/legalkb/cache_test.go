package legalkb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheSingleLoad(t *testing.T) {
	var builds atomic.Int32
	cache := NewCache(func(string) (*KnowledgeBase, error) {
		builds.Add(1)
		return New(Options{Source: fixtureSource(), Logger: quietLogger()}), nil
	})

	const callers = 16
	results := make([]*KnowledgeBase, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kb, err := cache.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			results[i] = kb
		}(i)
	}
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Fatalf("factory called %d times, want 1", n)
	}
	for i, kb := range results {
		if kb != results[0] {
			t.Errorf("caller %d got a different instance", i)
		}
	}
	if !results[0].Loaded() {
		t.Error("cached base should be loaded")
	}
}

func TestCacheOverrideIgnoredOnceBuilt(t *testing.T) {
	var dirs []string
	cache := NewCache(func(dir string) (*KnowledgeBase, error) {
		dirs = append(dirs, dir)
		return New(Options{Source: fixtureSource(), Logger: quietLogger()}), nil
	})

	first, err := cache.GetWithDataDir(context.Background(), "first")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.GetWithDataDir(context.Background(), "second")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("override should not rebuild the base")
	}
	if len(dirs) != 1 || dirs[0] != "first" {
		t.Errorf("factory saw %v, want [first]", dirs)
	}
}

func TestCacheRetriesAfterFailure(t *testing.T) {
	fail := errors.New("boom")
	calls := 0
	cache := NewCache(func(string) (*KnowledgeBase, error) {
		calls++
		if calls == 1 {
			return nil, fail
		}
		return New(Options{Source: fixtureSource(), Logger: quietLogger()}), nil
	})

	if _, err := cache.Get(context.Background()); !errors.Is(err, fail) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if cache.Ready() {
		t.Error("failed construction should leave the cache empty")
	}
	kb, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if kb.Stats().TotalCodes != 2 {
		t.Errorf("retry should load the fixture, got %+v", kb.Stats())
	}
}

func TestCacheCancelledLoad(t *testing.T) {
	cache := NewCache(func(string) (*KnowledgeBase, error) {
		return New(Options{Source: fixtureSource(), Logger: quietLogger()}), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cache.Get(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cache.Ready() {
		t.Error("cancelled load should not be cached")
	}
}

func TestSharedIgnoresLaterDataDir(t *testing.T) {
	dir := t.TempDir()
	doc := `{"articles": [{"article": 7, "text": "La posesión se presume de buena fe."}]}`
	if err := os.WriteFile(filepath.Join(dir, "codigo-civil.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := Shared(context.Background(), dir)
	if err != nil {
		t.Fatalf("shared: %v", err)
	}
	if got := first.FindArticle("codigo-civil", 7); len(got) != 1 {
		t.Fatalf("expected article 7 from %s, got %+v", dir, got)
	}

	second, err := Shared(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("shared: %v", err)
	}
	if second != first {
		t.Error("later calls should return the first base")
	}
}
