package legalkb

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/index"
	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
	"github.com/cognicore/legalkb/pkg/legalkb/rank"
	"github.com/cognicore/legalkb/pkg/legalkb/registry"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
)

// LoadReport describes one run of Load.
type LoadReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	ConfigErr string        `json:"config_error,omitempty"`
	Codes     []CodeReport  `json:"codes"`
}

// CodeReport is the outcome of loading one registered code.
type CodeReport struct {
	CodeID    string         `json:"code_id"`
	Loaded    bool           `json:"loaded"`
	Skipped   string         `json:"skipped,omitempty"`
	Articles  int            `json:"articles"`
	Discarded int            `json:"discarded"`
	Reasons   map[string]int `json:"discard_reasons,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Load reads every registered code from the source, exactly once.
//
// A code whose source is missing or unreadable is logged and skipped, and
// malformed records are dropped and counted; neither stops the load. An
// unusable source configuration leaves an empty but queryable base. The
// only error returned is the context's, in which case the base stays
// unloaded and Load may be retried.
//
// Calling Load on a loaded base does nothing and returns the same base.
func (kb *KnowledgeBase) Load(ctx context.Context) (*KnowledgeBase, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if kb.loaded {
		return kb, nil
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	report := LoadReport{
		RunID:     ulid.MustNew(ulid.Now(), entropy).String(),
		StartedAt: time.Now(),
	}

	if v, ok := kb.source.(source.Validator); ok {
		if err := v.Validate(); err != nil {
			kb.logger.Printf("legalkb: [%s] record source misconfigured, loading empty base: %v", report.RunID, err)
			report.ConfigErr = err.Error()
		}
	}

	var (
		codes []*index.CodeIndex
		all   []rank.Candidate
		per   = make(map[string][]rank.Candidate)
	)

	for _, entry := range kb.registry.Entries() {
		if err := ctx.Err(); err != nil {
			return kb, err
		}

		code, rep, err := kb.loadCode(ctx, entry)
		if err != nil && isContextErr(err) {
			return kb, err
		}
		report.Codes = append(report.Codes, rep)
		if code == nil {
			continue
		}

		prepared := make([]rank.Candidate, 0, code.Len())
		for _, a := range code.Articles() {
			prepared = append(prepared, rank.Prepare(a))
		}
		codes = append(codes, code)
		per[code.CodeID] = prepared
		all = append(all, prepared...)
	}

	kb.codes = codes
	kb.byID = make(map[string]*index.CodeIndex, len(codes))
	for _, c := range codes {
		kb.byID[c.CodeID] = c
	}
	kb.candidates = per
	kb.all = all
	report.Duration = time.Since(report.StartedAt)
	kb.report = report
	kb.loaded = true

	kb.logger.Printf("legalkb: [%s] knowledge base ready: %d codes, %d total articles", report.RunID, len(codes), len(all))
	return kb, nil
}

// loadCode fetches and indexes one code. A nil index means the code was skipped.
func (kb *KnowledgeBase) loadCode(ctx context.Context, entry registry.Entry) (*index.CodeIndex, CodeReport, error) {
	rep := CodeReport{CodeID: entry.CodeID}

	doc, err := kb.source.Fetch(ctx, entry.CodeID)
	if err != nil {
		rep.Skipped = err.Error()
		if errors.Is(err, internalerr.ErrSourceUnavailable) {
			kb.logger.Printf("legalkb: skipping %s: %v", entry.CodeID, err)
		} else {
			kb.logger.Printf("legalkb: error loading %s: %v", entry.CodeID, err)
		}
		return nil, rep, err
	}

	name := firstNonBlank(doc.Name, entry.Name)
	law := firstNonBlank(doc.LawNumber, entry.LawNumber)
	code := index.New(entry.CodeID, name, law)
	code.TotalArticles = doc.TotalArticles

	owner := code.Owner()
	for _, rec := range doc.Records {
		a, reason := article.Classify(rec, owner, kb.label)
		if reason != article.ReasonOK {
			rep.Discarded++
			if rep.Reasons == nil {
				rep.Reasons = make(map[string]int)
			}
			rep.Reasons[reason.String()]++
			continue
		}
		if err := code.Append(a); err != nil {
			rep.Skipped = err.Error()
			kb.logger.Printf("legalkb: error loading %s: %v", entry.CodeID, err)
			return nil, rep, err
		}
	}
	code.Build()

	rep.Loaded = true
	rep.Articles = code.Len()
	rep.Warnings = kb.warnings(code)

	kb.logger.Printf("legalkb: loaded %s: %d articles", entry.CodeID, code.Len())
	if rep.Discarded > 0 {
		kb.logger.Printf("legalkb: %s: discarded %d malformed records: %v", entry.CodeID, rep.Discarded, internalerr.ErrMalformedRecord)
	}
	for _, w := range rep.Warnings {
		kb.logger.Printf("legalkb: %s: %s", entry.CodeID, w)
	}
	return code, rep, nil
}

func (kb *KnowledgeBase) warnings(code *index.CodeIndex) []string {
	var out []string
	if code.Len() == 0 {
		out = append(out, "no articles found")
	}
	if dups := code.Duplicates(); len(dups) > 0 {
		nums := make([]string, len(dups))
		for i, n := range dups {
			nums[i] = fmt.Sprint(n)
		}
		out = append(out, "duplicate article numbers: "+strings.Join(nums, ", "))
	}
	if gaps := code.Gaps(kb.gapLimit); len(gaps) > 0 {
		parts := make([]string, 0, 3)
		for i, g := range gaps {
			if i == 3 {
				parts = append(parts, "...")
				break
			}
			parts = append(parts, fmt.Sprintf("%d → %d", g.From, g.To))
		}
		out = append(out, "large gaps in article numbering: "+strings.Join(parts, ", "))
	}
	return out
}

// Report returns the outcome of the load. It is empty before Load.
func (kb *KnowledgeBase) Report() LoadReport {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.report
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
