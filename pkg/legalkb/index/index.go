package index

import (
	"fmt"
	"sort"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
)

// CodeIndex holds every article of one legal code plus an exact-match
// index keyed by article number.
//
// Articles are appended in source order, then Build is called once. After
// Build the index is read-only and safe for concurrent use.
type CodeIndex struct {
	CodeID        string
	Name          string
	LawNumber     string
	TotalArticles int // as declared by the source, informational only

	articles []article.Article
	byNumber map[int][]article.Article
	built    bool
}

// New creates an empty index for one code.
func New(codeID, name, lawNumber string) *CodeIndex {
	return &CodeIndex{
		CodeID:    codeID,
		Name:      name,
		LawNumber: lawNumber,
	}
}

// Owner returns the normalization owner for articles of this code.
func (c *CodeIndex) Owner() article.Owner {
	return article.Owner{CodeID: c.CodeID, CodeName: c.Name, LawNumber: c.LawNumber}
}

// Append adds an article. It fails once the index has been built.
func (c *CodeIndex) Append(a article.Article) error {
	if c.built {
		return fmt.Errorf("append to %s: %w", c.CodeID, internalerr.ErrSealed)
	}
	c.articles = append(c.articles, a)
	return nil
}

// Build constructs the number index in one pass. Calling it again is a no-op.
func (c *CodeIndex) Build() {
	if c.built {
		return
	}
	c.byNumber = make(map[int][]article.Article, len(c.articles))
	for _, a := range c.articles {
		c.byNumber[a.Number] = append(c.byNumber[a.Number], a)
	}
	c.built = true
}

// Built reports whether Build has run.
func (c *CodeIndex) Built() bool { return c.built }

// FindExact returns all articles numbered n, in source order. Unknown
// numbers yield an empty result.
func (c *CodeIndex) FindExact(n int) []article.Article {
	return c.byNumber[n]
}

// Articles returns the articles in source order. The slice must not be modified.
func (c *CodeIndex) Articles() []article.Article {
	return c.articles
}

// Len returns the number of loaded articles.
func (c *CodeIndex) Len() int { return len(c.articles) }

// Duplicates lists article numbers shared by more than one article, in
// first-appearance order.
func (c *CodeIndex) Duplicates() []int {
	var dups []int
	seen := make(map[int]bool)
	for _, a := range c.articles {
		if seen[a.Number] {
			continue
		}
		seen[a.Number] = true
		if len(c.byNumber[a.Number]) > 1 {
			dups = append(dups, a.Number)
		}
	}
	return dups
}

// Gap is a jump in article numbering.
type Gap struct {
	From int
	To   int
}

// Gaps reports consecutive distinct article numbers more than threshold
// apart, in ascending order. Large gaps usually mean articles were lost
// during extraction.
func (c *CodeIndex) Gaps(threshold int) []Gap {
	nums := make([]int, 0, len(c.byNumber))
	for n := range c.byNumber {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var gaps []Gap
	for i := 1; i < len(nums); i++ {
		if nums[i]-nums[i-1] > threshold {
			gaps = append(gaps, Gap{From: nums[i-1], To: nums[i]})
		}
	}
	return gaps
}
