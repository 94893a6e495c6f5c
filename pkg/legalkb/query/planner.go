package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
)

const (
	// DefaultMaxContext bounds the articles a Retrieve call gathers.
	DefaultMaxContext = 15
	// DefaultPerTopic bounds the results taken from one topic search.
	DefaultPerTopic = 5
)

// Searcher is the part of the knowledge base a Planner needs.
type Searcher interface {
	FindArticle(codeID string, number int) []article.Article
	FindArticleAnyCode(number int) []article.Article
	SearchByKeywords(query, codeID string, max int) []article.Article
	SearchByTopic(topic, codeID string, max int) []article.Article
}

// StepKind identifies one lookup made while planning.
type StepKind string

const (
	StepExact   StepKind = "exact"
	StepTopic   StepKind = "topic"
	StepGeneral StepKind = "general"
)

// Step records one lookup and how many articles it returned.
type Step struct {
	Kind   StepKind `json:"kind"`
	Number int      `json:"number,omitempty"`
	CodeID string   `json:"code_id,omitempty"`
	Topic  string   `json:"topic,omitempty"`
	Found  int      `json:"found"`
	Codes  []string `json:"codes,omitempty"`
}

func (s Step) String() string {
	switch s.Kind {
	case StepExact:
		where := s.CodeID
		if where == "" {
			where = strings.Join(s.Codes, ", ")
		}
		if s.Found == 0 {
			if s.CodeID == "" {
				return fmt.Sprintf("No encontrado: Art. %d en ningún código", s.Number)
			}
			return fmt.Sprintf("No encontrado: Art. %d en %s", s.Number, s.CodeID)
		}
		return fmt.Sprintf("Encontrado: Art. %d en %s", s.Number, where)
	case StepTopic:
		return fmt.Sprintf("Búsqueda por tema '%s': %d resultados", s.Topic, s.Found)
	default:
		return fmt.Sprintf("Búsqueda general: %d resultados", s.Found)
	}
}

// Result is everything Retrieve found for a query.
type Result struct {
	Query      string            `json:"query"`
	References []Reference       `json:"references,omitempty"`
	Topics     []string          `json:"topics,omitempty"`
	Articles   []article.Article `json:"articles"`
	Steps      []Step            `json:"steps"`

	// Label is the article label used in rendered citations.
	Label string `json:"-"`
}

// Planner gathers the articles relevant to a free-form question.
type Planner struct {
	kb         Searcher
	MaxContext int
	PerTopic   int
	Label      string
}

// NewPlanner creates a planner with the default limits. The citation label
// comes from kb when it has a Label method.
func NewPlanner(kb Searcher) *Planner {
	p := &Planner{kb: kb, MaxContext: DefaultMaxContext, PerTopic: DefaultPerTopic, Label: article.DefaultLabel}
	if l, ok := kb.(interface{ Label() string }); ok && l.Label() != "" {
		p.Label = l.Label()
	}
	return p
}

// Retrieve runs, in order: exact lookups for every referenced article,
// topic searches while there is room, and a general keyword search when
// the query references no articles and nothing else matched. Articles are
// returned once each, in the order they were first found.
func (p *Planner) Retrieve(q string) Result {
	res := Result{
		Query:      q,
		References: ExtractReferences(q),
		Topics:     DetectTopics(q),
		Articles:   []article.Article{},
		Label:      p.Label,
	}
	seen := make(map[article.Article]struct{})
	add := func(arts []article.Article) {
		for _, a := range arts {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			res.Articles = append(res.Articles, a)
		}
	}

	for _, ref := range res.References {
		step := Step{Kind: StepExact, Number: ref.Number, CodeID: ref.CodeHint}
		var arts []article.Article
		if ref.CodeHint != "" {
			arts = p.kb.FindArticle(ref.CodeHint, ref.Number)
		} else {
			arts = p.kb.FindArticleAnyCode(ref.Number)
			step.Codes = codeIDs(arts)
		}
		step.Found = len(arts)
		add(arts)
		res.Steps = append(res.Steps, step)
	}

	for _, t := range res.Topics {
		remaining := p.MaxContext - len(res.Articles)
		if remaining <= 0 {
			break
		}
		arts := p.kb.SearchByTopic(t, "", min(p.PerTopic, remaining))
		add(arts)
		res.Steps = append(res.Steps, Step{Kind: StepTopic, Topic: t, Found: len(arts)})
	}

	if len(res.Articles) == 0 && len(res.References) == 0 {
		arts := p.kb.SearchByKeywords(q, "", p.MaxContext)
		add(arts)
		res.Steps = append(res.Steps, Step{Kind: StepGeneral, Found: len(arts)})
	}

	return res
}

func codeIDs(arts []article.Article) []string {
	set := make(map[string]bool)
	for _, a := range arts {
		set[a.CodeID] = true
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Context renders the result as the plain-text context block handed to a
// downstream answering step: the search log, then every article in full.
func (r Result) Context() string {
	var b strings.Builder
	b.WriteString("RESULTADOS DE BÚSQUEDA:\n")
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "  %s\n", s)
	}
	b.WriteString("\n")

	if len(r.Articles) == 0 {
		b.WriteString("No se encontraron artículos relevantes en la base de datos.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "ARTÍCULOS ENCONTRADOS (%d):\n", len(r.Articles))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	for i, a := range r.Articles {
		fmt.Fprintf(&b, "\n--- Artículo %d/%d ---\n", i+1, len(r.Articles))
		fmt.Fprintf(&b, "%s\n", a.CitationWith(r.Label))
		fmt.Fprintf(&b, "Texto completo:\n\"%s\"\n", a.Content)
	}
	b.WriteString(strings.Repeat("=", 60) + "\n")
	return b.String()
}
