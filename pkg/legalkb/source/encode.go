package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
)

type outDocument struct {
	Name          string           `json:"name,omitempty"`
	LawNumber     string           `json:"law_number,omitempty"`
	ExtractedAt   time.Time        `json:"extracted_at"`
	TotalArticles int              `json:"total_articles"`
	Articles      []article.Record `json:"articles"`
}

// EncodeJSON writes doc in the format DecodeJSON reads. TotalArticles is
// the number of records written.
func EncodeJSON(w io.Writer, doc *Document, extractedAt time.Time) error {
	records := doc.Records
	if records == nil {
		records = []article.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(outDocument{
		Name:          doc.Name,
		LawNumber:     doc.LawNumber,
		ExtractedAt:   extractedAt.UTC(),
		TotalArticles: len(records),
		Articles:      records,
	})
}

// WriteFile stores doc as the JSON document for codeID under d's root.
// Only JSON directories can be written.
func (d *Dir) WriteFile(codeID string, doc *Document) (string, error) {
	if d.format != FormatJSON {
		return "", fmt.Errorf("write %s: %s directories are read-only", codeID, d.format)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", err
	}

	path := d.Path(codeID)
	tmp, err := os.CreateTemp(d.root, filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := EncodeJSON(tmp, doc, time.Now()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode %s: %w", codeID, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
