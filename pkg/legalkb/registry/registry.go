package registry

import (
	"fmt"
	"strings"

	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
)

// Entry is the default metadata for one legal code.
type Entry struct {
	CodeID    string `yaml:"code_id" json:"code_id"`
	Name      string `yaml:"name" json:"name"`
	LawNumber string `yaml:"law_number" json:"law_number"`
}

// Registry is an ordered table of known codes. Registration order is the
// order codes are loaded and reported in.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

// New builds a registry. Code ids must be non-blank and unique.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(entries))}
	for i, e := range entries {
		e.CodeID = strings.TrimSpace(e.CodeID)
		if e.CodeID == "" {
			return nil, fmt.Errorf("registry entry %d: blank code id: %w", i, internalerr.ErrInvalidConfig)
		}
		if _, dup := r.byID[e.CodeID]; dup {
			return nil, fmt.Errorf("registry entry %d: duplicate code id %q: %w", i, e.CodeID, internalerr.ErrInvalidConfig)
		}
		r.byID[e.CodeID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// MustNew is New for static tables.
func MustNew(entries []Entry) *Registry {
	r, err := New(entries)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry of Costa Rican codes.
func Default() *Registry {
	return MustNew(CostaRica)
}

// Entries returns the registered codes in order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Lookup returns the entry for a code id.
func (r *Registry) Lookup(codeID string) (Entry, bool) {
	i, ok := r.byID[codeID]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Len returns the number of registered codes.
func (r *Registry) Len() int { return len(r.entries) }

// CostaRica lists the codes served by default.
var CostaRica = []Entry{
	{CodeID: "codigo-civil", Name: "Código Civil de Costa Rica", LawNumber: "Ley N° 63"},
	{CodeID: "codigo-comercio", Name: "Código de Comercio de Costa Rica", LawNumber: "Ley N° 3284"},
	{CodeID: "codigo-penal", Name: "Código Penal de Costa Rica", LawNumber: "Ley N° 4573"},
	{CodeID: "codigo-procesal-penal", Name: "Código Procesal Penal de Costa Rica", LawNumber: "Ley N° 7594"},
	{CodeID: "codigo-trabajo", Name: "Código de Trabajo de Costa Rica", LawNumber: "Ley N° 2"},
}
