package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/legalkb/pkg/legalkb/stoplist"
)

// MinTokenLen is the shortest token kept by the tokenizer.
const MinTokenLen = 3

// Tokenizer handles text tokenization and normalization.
// It holds no mutable state after construction and is safe for concurrent use.
type Tokenizer struct {
	stops  *stoplist.Manager
	minLen int
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	return &Tokenizer{stops: stoplist.NewManager(stopwords), minLen: MinTokenLen}
}

// NewDefaultTokenizer creates a tokenizer with the Spanish stopword list.
func NewDefaultTokenizer() *Tokenizer {
	return &Tokenizer{stops: stoplist.Default(), minLen: MinTokenLen}
}

// Fold lowercases text and strips diacritical marks so that accented and
// unaccented spellings compare equal ("contrató" -> "contrato").
func Fold(text string) string {
	lower := strings.ToLower(text)
	// Chain keeps internal buffers, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M)))
	folded, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return folded
}

// Tokenize folds text, replaces everything except a-z, 0-9 and whitespace
// with spaces, splits on whitespace and drops short tokens and stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, Fold(text))

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) < t.minLen || t.isStopword(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) isStopword(word string) bool {
	return t.stops.IsStop(word)
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stops.Add(word)
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	t.stops.Remove(word)
}

// Stopwords returns the current stopword list, sorted.
func (t *Tokenizer) Stopwords() []string {
	return t.stops.All()
}
