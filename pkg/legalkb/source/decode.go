package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
)

// Format is the on-disk encoding of a code document.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatHTML:
		return ".html"
	default:
		return ".json"
	}
}

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatHTML:
		return f, nil
	case "txt":
		return FormatText, nil
	case "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown document format %q", s)
	}
}

// Decode reads one document in the given format.
func Decode(format Format, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatText:
		return &Document{Records: ParseArticles(string(data))}, nil
	case FormatHTML:
		text, err := ExtractText(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Document{Records: ParseArticles(text)}, nil
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
}

// wireDocument is the JSON shape produced by the article extraction scripts.
type wireDocument struct {
	Name          string            `json:"name"`
	LawNumber     string            `json:"law_number"`
	TotalArticles any               `json:"total_articles"`
	Articles      []json.RawMessage `json:"articles"`
}

// DecodeJSON parses a JSON code document. Article entries that are not JSON
// objects are kept as empty records so the loader counts them as discarded.
func DecodeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var wire wireDocument
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &Document{
		Name:          strings.TrimSpace(wire.Name),
		LawNumber:     strings.TrimSpace(wire.LawNumber),
		TotalArticles: intValue(wire.TotalArticles),
		Records:       make([]article.Record, 0, len(wire.Articles)),
	}
	for _, raw := range wire.Articles {
		doc.Records = append(doc.Records, decodeRecord(raw))
	}
	return doc, nil
}

func decodeRecord(raw json.RawMessage) article.Record {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec article.Record
	if err := dec.Decode(&rec); err != nil {
		return article.Record{}
	}
	if rec == nil {
		return article.Record{}
	}
	return rec
}

func intValue(v any) int {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return 0
}

var (
	// An article header starts a line: "Artículo 1.-", "ARTÍCULO 2:", "Articulo 3 ".
	// The delimiter after the number is optional.
	headerPattern = regexp.MustCompile(`(?im)^[ \t]*art[ií]culo[ \t]+(\d+)(?:\D|\z)`)
	headerPrefix  = regexp.MustCompile(`(?i)^art[ií]culo[ \t]+\d+[.\-:º°\s]*`)
	blankRuns     = regexp.MustCompile(`[ \t]+`)
	newlineRuns   = regexp.MustCompile(`\n{3,}`)
)

// ParseArticles splits statute text into article records. Each record runs
// from its header to the next header; text before the first header is
// ignored. The wording of each article is preserved apart from whitespace
// runs.
func ParseArticles(text string) []article.Record {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	matches := headerPattern.FindAllStringSubmatchIndex(text, -1)

	records := make([]article.Record, 0, len(matches))
	for i, m := range matches {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[0]:end])

		title := article.DefaultTitle("", number)
		if h := headerPrefix.FindString(body); h != "" {
			title = strings.TrimSpace(h)
			body = body[len(h):]
		}

		body = blankRuns.ReplaceAllString(body, " ")
		body = newlineRuns.ReplaceAllString(body, "\n\n")

		records = append(records, article.Record{
			"article": number,
			"title":   title,
			"text":    strings.TrimSpace(body),
		})
	}
	return records
}

// blockElements end a line when their text is extracted.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "pre": true,
}

// ExtractText returns the visible text of an HTML page, with block
// elements separated by newlines so article headers start their own line.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "head") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String()), nil
}
