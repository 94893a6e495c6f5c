package legalkb

import (
	"log"
	"sync"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/index"
	"github.com/cognicore/legalkb/pkg/legalkb/ingest"
	"github.com/cognicore/legalkb/pkg/legalkb/rank"
	"github.com/cognicore/legalkb/pkg/legalkb/registry"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
	"github.com/cognicore/legalkb/pkg/legalkb/topic"
)

const (
	// DefaultGapThreshold is the numbering jump reported as a load warning.
	DefaultGapThreshold = 10

	// DefaultDataDir is where the extraction scripts write code documents.
	DefaultDataDir = "data/processed"
)

// KnowledgeBase is the in-memory store of every loaded legal code and the
// query surface over it.
//
// A KnowledgeBase is populated once by Load and never changes afterwards,
// so any number of goroutines may query it concurrently once Load has
// returned. Queries must not run concurrently with the first Load.
type KnowledgeBase struct {
	source    source.Source
	registry  *registry.Registry
	tokenizer *ingest.Tokenizer
	expander  *topic.Expander
	scorer    *rank.Scorer
	label     string
	gapLimit  int
	logger    *log.Logger

	mu     sync.Mutex
	loaded bool

	codes      []*index.CodeIndex
	byID       map[string]*index.CodeIndex
	all        []rank.Candidate
	candidates map[string][]rank.Candidate
	report     LoadReport
}

// Options configures a KnowledgeBase. Every field except Source is optional.
type Options struct {
	Source       source.Source
	Registry     *registry.Registry
	Tokenizer    *ingest.Tokenizer
	Expander     *topic.Expander
	Weights      rank.Weights
	ArticleLabel string
	GapThreshold int
	Logger       *log.Logger
}

// New creates an empty, unloaded KnowledgeBase.
func New(opts Options) *KnowledgeBase {
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = ingest.NewDefaultTokenizer()
	}
	if opts.Expander == nil {
		opts.Expander = topic.NewDefaultExpander()
	}
	if opts.Weights == (rank.Weights{}) {
		opts.Weights = rank.DefaultWeights()
	}
	if opts.ArticleLabel == "" {
		opts.ArticleLabel = article.DefaultLabel
	}
	if opts.GapThreshold <= 0 {
		opts.GapThreshold = DefaultGapThreshold
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Source == nil {
		opts.Source = source.NewMemory()
	}

	return &KnowledgeBase{
		source:     opts.Source,
		registry:   opts.Registry,
		tokenizer:  opts.Tokenizer,
		expander:   opts.Expander,
		scorer:     rank.NewScorer(opts.Weights),
		label:      opts.ArticleLabel,
		gapLimit:   opts.GapThreshold,
		logger:     opts.Logger,
		byID:       make(map[string]*index.CodeIndex),
		candidates: make(map[string][]rank.Candidate),
	}
}

// Loaded reports whether Load has completed.
func (kb *KnowledgeBase) Loaded() bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.loaded
}

// Tokenizer returns the tokenizer used for queries.
func (kb *KnowledgeBase) Tokenizer() *ingest.Tokenizer { return kb.tokenizer }

// Registry returns the code registry the base was loaded from.
func (kb *KnowledgeBase) Registry() *registry.Registry { return kb.registry }

// Label returns the article label used for generated titles.
func (kb *KnowledgeBase) Label() string { return kb.label }
