package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
)

// Dir reads one file per code from a base directory, named
// "<code_id><ext>" with the extension given by its Format.
type Dir struct {
	root   string
	format Format
}

// NewDir creates a directory source for the given format.
func NewDir(root string, format Format) *Dir {
	return &Dir{root: root, format: format}
}

// NewJSONDir reads "<root>/<code_id>.json" documents.
func NewJSONDir(root string) *Dir { return NewDir(root, FormatJSON) }

// NewTextDir reads "<root>/<code_id>.txt" statute text.
func NewTextDir(root string) *Dir { return NewDir(root, FormatText) }

// NewHTMLDir reads "<root>/<code_id>.html" statute pages.
func NewHTMLDir(root string) *Dir { return NewDir(root, FormatHTML) }

// Root returns the base directory.
func (d *Dir) Root() string { return d.root }

// Path returns the file a code is read from.
func (d *Dir) Path(codeID string) string {
	return filepath.Join(d.root, codeID+d.format.Ext())
}

// Validate reports a base directory that does not exist or is not a directory.
func (d *Dir) Validate() error {
	info, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("data dir %s: %w", d.root, internalerr.ErrInvalidConfig)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory: %w", d.root, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Fetch implements Source.
func (d *Dir) Fetch(ctx context.Context, codeID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := d.Path(codeID)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found at %s: %w", path, internalerr.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("open %s: %w", path, internalerr.ErrSourceUnavailable)
	}
	defer f.Close()

	doc, err := Decode(d.format, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}
