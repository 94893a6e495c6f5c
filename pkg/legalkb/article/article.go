package article

import (
	"fmt"
	"strings"
)

// DefaultLabel is the word used for generated titles and citations.
const DefaultLabel = "Artículo"

// Article is the normalized, citable unit of a legal code.
//
// Articles are plain comparable values: two Articles are the same article
// when all six fields are equal, so an Article can be used directly as a
// map key for de-duplication.
type Article struct {
	CodeID    string `json:"code_id"`
	CodeName  string `json:"code_name"`
	LawNumber string `json:"law_number"`
	Number    int    `json:"article_number"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Owner identifies the code an Article is normalized into.
type Owner struct {
	CodeID    string
	CodeName  string
	LawNumber string
}

// Citation renders "Artículo N del <code name> (<law number>)".
func (a Article) Citation() string {
	return a.CitationWith(DefaultLabel)
}

// CitationWith renders the citation using a caller-supplied label. A blank
// label uses DefaultLabel.
func (a Article) CitationWith(label string) string {
	if strings.TrimSpace(label) == "" {
		label = DefaultLabel
	}
	return fmt.Sprintf("%s %d del %s (%s)", label, a.Number, a.CodeName, a.LawNumber)
}

// FullText returns the citation followed by the quoted article body.
func (a Article) FullText() string {
	return a.FullTextWith(DefaultLabel)
}

// FullTextWith is FullText with a caller-supplied citation label.
func (a Article) FullTextWith(label string) string {
	return fmt.Sprintf("%s:\n\"%s\"", a.CitationWith(label), a.Content)
}

// DefaultTitle builds the generated title for an article without one.
func DefaultTitle(label string, number int) string {
	if strings.TrimSpace(label) == "" {
		label = DefaultLabel
	}
	return fmt.Sprintf("%s %d", label, number)
}
