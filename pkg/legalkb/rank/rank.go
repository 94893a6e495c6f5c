package rank

import (
	"sort"
	"strings"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/ingest"
)

// Scorer calculates lexical scores for article ranking
type Scorer struct {
	weights Weights
}

// Weights defines the scoring weights
type Weights struct {
	Title    float64 // per query token found in the title
	Content  float64 // per query token found only in the content
	AllTerms float64 // flat bonus when every token of a multi-token query is found
}

// DefaultWeights returns the standard title/content/all-terms weights.
func DefaultWeights() Weights {
	return Weights{Title: 2.0, Content: 1.0, AllTerms: 3.0}
}

// NewScorer creates a new scorer with the given weights
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Candidate is an article prepared for scoring. Title and content are kept
// folded (lowercase, no accents) so matching never touches the stored text.
type Candidate struct {
	Article article.Article
	Title   string
	Content string
}

// Prepare folds an article's title and content for scoring.
func Prepare(a article.Article) Candidate {
	return Candidate{
		Article: a,
		Title:   ingest.Fold(a.Title),
		Content: ingest.Fold(a.Content),
	}
}

// ScoreBreakdown provides detailed scoring information
type ScoreBreakdown struct {
	Title   float64 `json:"title"`
	Content float64 `json:"content"`
	Bonus   float64 `json:"bonus"`
	Total   float64 `json:"total"`
}

// Scored is a ranked article with its score explanation.
type Scored struct {
	Article   article.Article `json:"article"`
	Score     float64         `json:"score"`
	Breakdown ScoreBreakdown  `json:"breakdown"`
	Matched   []string        `json:"matched"`
}

// Score calculates the score for a candidate.
//
// Each query token is a substring match: title first (exclusive), then
// content. The all-terms bonus applies only to queries of two or more tokens.
func (s *Scorer) Score(tokens []string, c Candidate) float64 {
	return s.ScoreWithBreakdown(tokens, c).Total
}

// ScoreWithBreakdown calculates score with detailed breakdown
func (s *Scorer) ScoreWithBreakdown(tokens []string, c Candidate) ScoreBreakdown {
	b, _ := s.score(tokens, c, false)
	return b
}

func (s *Scorer) score(tokens []string, c Candidate, collect bool) (ScoreBreakdown, []string) {
	var b ScoreBreakdown
	var matched []string
	found := 0

	for _, tok := range tokens {
		switch {
		case strings.Contains(c.Title, tok):
			b.Title += s.weights.Title
		case strings.Contains(c.Content, tok):
			b.Content += s.weights.Content
		default:
			continue
		}
		found++
		if collect {
			matched = append(matched, tok)
		}
	}

	if len(tokens) > 1 && found == len(tokens) {
		b.Bonus = s.weights.AllTerms
	}
	b.Total = b.Title + b.Content + b.Bonus
	return b, matched
}

// Rank scores every candidate, drops non-positive scores, sorts by score
// descending and truncates to max. Ties keep candidate order.
func (s *Scorer) Rank(tokens []string, candidates []Candidate, max int) []Scored {
	if len(tokens) == 0 || max <= 0 {
		return nil
	}

	var scored []Scored
	for _, c := range candidates {
		b, matched := s.score(tokens, c, true)
		if b.Total <= 0 {
			continue
		}
		scored = append(scored, Scored{
			Article:   c.Article,
			Score:     b.Total,
			Breakdown: b,
			Matched:   matched,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > max {
		scored = scored[:max]
	}
	return scored
}

// Articles strips the scores from a ranked list.
func Articles(scored []Scored) []article.Article {
	if len(scored) == 0 {
		return nil
	}
	out := make([]article.Article, len(scored))
	for i, s := range scored {
		out[i] = s.Article
	}
	return out
}
