// Package source supplies raw article records for each registered legal
// code. A Source knows nothing about normalization; it only hands back the
// records a code's document contains.
package source

import (
	"context"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
)

// Document is the raw content of one legal code as read from a source.
// Name and LawNumber are optional; blank values fall back to the registry.
type Document struct {
	Name          string
	LawNumber     string
	TotalArticles int
	Records       []article.Record
}

// Source fetches the document for a code id. A code the source does not
// have yields an error wrapping internalerr.ErrSourceUnavailable.
type Source interface {
	Fetch(ctx context.Context, codeID string) (*Document, error)
}

// Validator is implemented by sources that can detect a broken
// configuration (for example a missing base directory) up front.
type Validator interface {
	Validate() error
}
