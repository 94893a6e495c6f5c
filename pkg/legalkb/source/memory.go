package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
)

// Memory is an in-memory Source, for tests and for callers that already
// hold their documents.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*Document)}
}

// Put stores (or replaces) the document for a code.
func (m *Memory) Put(codeID string, doc *Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[codeID] = doc
}

// Fetch implements Source.
func (m *Memory) Fetch(ctx context.Context, codeID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[codeID]
	if !ok {
		return nil, fmt.Errorf("memory source has no %s: %w", codeID, internalerr.ErrSourceUnavailable)
	}
	return doc, nil
}
