package legalkb

import (
	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/rank"
)

// CodeDescriptor summarizes one loaded code.
type CodeDescriptor struct {
	CodeID       string `json:"code_id"`
	Name         string `json:"name"`
	LawNumber    string `json:"law_number"`
	ArticleCount int    `json:"article_count"`
}

// Stats holds aggregate counts over the loaded base.
type Stats struct {
	TotalCodes    int            `json:"total_codes"`
	TotalArticles int            `json:"total_articles"`
	Codes         map[string]int `json:"codes"`
}

// FindArticle returns every article numbered number in the given code.
// Unknown codes and numbers yield an empty result.
func (kb *KnowledgeBase) FindArticle(codeID string, number int) []article.Article {
	code, ok := kb.byID[codeID]
	if !ok {
		return nil
	}
	return clone(code.FindExact(number))
}

// FindArticleAnyCode returns the articles numbered number across all codes,
// in registry order. The same number in two codes yields two articles.
func (kb *KnowledgeBase) FindArticleAnyCode(number int) []article.Article {
	var out []article.Article
	for _, code := range kb.codes {
		out = append(out, code.FindExact(number)...)
	}
	return out
}

// SearchByKeywords ranks articles by lexical overlap with query. An empty
// codeID searches the whole base, as does a code that is not loaded.
func (kb *KnowledgeBase) SearchByKeywords(query, codeID string, max int) []article.Article {
	return rank.Articles(kb.Explain(query, codeID, max))
}

// SearchByTopic expands topic with related legal vocabulary, then runs a
// keyword search over the result.
func (kb *KnowledgeBase) SearchByTopic(topicLabel, codeID string, max int) []article.Article {
	return kb.SearchByKeywords(kb.expander.Expand(topicLabel), codeID, max)
}

// Explain is SearchByKeywords with the score breakdown of every result.
func (kb *KnowledgeBase) Explain(query, codeID string, max int) []rank.Scored {
	if max <= 0 {
		return nil
	}
	tokens := kb.tokenizer.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	return kb.scorer.Rank(tokens, kb.scope(codeID), max)
}

// ExpandTopic returns the text SearchByTopic would search for.
func (kb *KnowledgeBase) ExpandTopic(topicLabel string) string {
	return kb.expander.Expand(topicLabel)
}

func (kb *KnowledgeBase) scope(codeID string) []rank.Candidate {
	if codeID != "" {
		if c, ok := kb.candidates[codeID]; ok {
			return c
		}
	}
	return kb.all
}

// AvailableCodes lists the loaded codes in registry order.
func (kb *KnowledgeBase) AvailableCodes() []CodeDescriptor {
	out := make([]CodeDescriptor, 0, len(kb.codes))
	for _, c := range kb.codes {
		out = append(out, CodeDescriptor{
			CodeID:       c.CodeID,
			Name:         c.Name,
			LawNumber:    c.LawNumber,
			ArticleCount: c.Len(),
		})
	}
	return out
}

// HasCode reports whether codeID was loaded.
func (kb *KnowledgeBase) HasCode(codeID string) bool {
	_, ok := kb.byID[codeID]
	return ok
}

// Stats returns code and article counts.
func (kb *KnowledgeBase) Stats() Stats {
	s := Stats{
		TotalCodes:    len(kb.codes),
		TotalArticles: len(kb.all),
		Codes:         make(map[string]int, len(kb.codes)),
	}
	for _, c := range kb.codes {
		s.Codes[c.CodeID] = c.Len()
	}
	return s
}

func clone(in []article.Article) []article.Article {
	if len(in) == 0 {
		return nil
	}
	return append([]article.Article(nil), in...)
}
