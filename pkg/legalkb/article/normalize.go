package article

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one raw article record as decoded from a source document.
//
// Two field-naming schemes are accepted and may be mixed:
//
//	{"number": "123", "title": "Artículo 123", "content": "..."}
//	{"article": 123, "title": "artículo 123", "text": "..."}
type Record map[string]any

// Reason explains why a record was discarded.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonNoNumber
	ReasonBadNumber
	ReasonEmptyBody
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonNoNumber:
		return "missing article number"
	case ReasonBadNumber:
		return "article number is not a non-negative integer"
	case ReasonEmptyBody:
		return "empty article body"
	default:
		return "unknown"
	}
}

// Field lookup order per kind. The first present number key wins, even when
// it holds null. The first body key holding a non-empty value wins and is
// trimmed afterwards, so a whitespace-only text does not fall back to content.
var (
	numberFields = []string{"article", "number"}
	bodyFields   = []string{"text", "content"}
)

// Normalize converts a raw record into an Article owned by the given code.
// Records that cannot be normalized are reported with ok == false; they are
// never an error.
func Normalize(rec Record, owner Owner, label string) (Article, bool) {
	a, reason := normalize(rec, owner, label)
	return a, reason == ReasonOK
}

// Classify normalizes a record and reports the discard reason, if any.
func Classify(rec Record, owner Owner, label string) (Article, Reason) {
	return normalize(rec, owner, label)
}

func normalize(rec Record, owner Owner, label string) (Article, Reason) {
	raw, ok := firstPresent(rec, numberFields)
	if !ok {
		return Article{}, ReasonNoNumber
	}
	number, ok := coerceNumber(raw)
	if !ok {
		return Article{}, ReasonBadNumber
	}

	content := firstBody(rec, bodyFields)
	if content == "" {
		return Article{}, ReasonEmptyBody
	}

	title, _ := rec["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle(label, number)
	}

	return Article{
		CodeID:    owner.CodeID,
		CodeName:  owner.CodeName,
		LawNumber: owner.LawNumber,
		Number:    number,
		Title:     title,
		Content:   content,
	}, ReasonOK
}

func firstPresent(rec Record, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// firstBody skips missing, null and empty-string values. A chosen value
// that is not a string yields an empty body.
func firstBody(rec Record, keys []string) string {
	for _, k := range keys {
		v := rec[k]
		if v == nil || v == "" {
			continue
		}
		s, _ := v.(string)
		return strings.TrimSpace(s)
	}
	return ""
}

// coerceNumber accepts integers, integral floats and decimal integer strings.
func coerceNumber(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) || x < 0 || x > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return coerceNumber(n)
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return coerceNumber(f)
	case string:
		return coerceString(x)
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// coerceString accepts only integer text; "7.0" and "1e2" are rejected.
func coerceString(s string) (int, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return coerceNumber(n)
}
