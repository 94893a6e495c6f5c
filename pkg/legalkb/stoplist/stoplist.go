package stoplist

import (
	"sort"
	"strings"
)

// Spanish is the default stopword set: articles, prepositions, conjunctions
// and a few high-frequency verbs that carry no legal meaning.
var Spanish = []string{
	"el", "la", "los", "las", "un", "una", "unos", "unas",
	"de", "del", "en", "por", "para", "con", "sin", "que",
	"se", "al", "es", "su", "sus", "no", "si", "como",
	"mas", "pero", "este", "esta", "estos", "estas",
	"ser", "hay", "son", "fue", "han", "puede", "debe",
	"todo", "toda", "todos", "todas", "otro", "otra",
	"cual", "cuando", "donde", "quien", "sobre", "entre",
}

// Manager holds a stopword set. It is safe for concurrent reads once
// construction and any Add/Remove calls are done.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a manager from an initial list. Words are lowercased.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &Manager{stops: stops}
}

// Default returns a manager seeded with the Spanish list.
func Default() *Manager {
	return NewManager(Spanish)
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[strings.ToLower(token)] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int { return len(m.stops) }

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
