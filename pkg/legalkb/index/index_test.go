package index

import (
	"errors"
	"testing"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
)

func art(n int, content string) article.Article {
	return article.Article{CodeID: "codigo-civil", Number: n, Title: article.DefaultTitle("", n), Content: content}
}

func TestFindExact(t *testing.T) {
	idx := New("codigo-civil", "Código Civil", "Ley N° 63")
	for _, a := range []article.Article{art(1, "uno"), art(2, "dos"), art(1, "uno bis")} {
		if err := idx.Append(a); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	idx.Build()

	got := idx.FindExact(1)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles numbered 1, got %d", len(got))
	}
	if got[0].Content != "uno" || got[1].Content != "uno bis" {
		t.Errorf("duplicates should keep insertion order, got %q, %q", got[0].Content, got[1].Content)
	}

	if res := idx.FindExact(99); len(res) != 0 {
		t.Errorf("unknown number should be empty, got %d", len(res))
	}

	if dups := idx.Duplicates(); len(dups) != 1 || dups[0] != 1 {
		t.Errorf("Duplicates() = %v, want [1]", dups)
	}
}

func TestFindExactBeforeBuild(t *testing.T) {
	idx := New("c", "n", "l")
	idx.Append(art(1, "x"))
	if res := idx.FindExact(1); len(res) != 0 {
		t.Error("unbuilt index should not answer lookups")
	}
}

func TestAppendAfterBuild(t *testing.T) {
	idx := New("c", "n", "l")
	idx.Build()
	err := idx.Append(art(1, "x"))
	if !errors.Is(err, internalerr.ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
	if idx.Len() != 0 {
		t.Error("rejected append must not change the index")
	}
}

func TestArticlesOrder(t *testing.T) {
	idx := New("c", "n", "l")
	for i := 5; i > 0; i-- {
		idx.Append(art(i, "x"))
	}
	idx.Build()

	arts := idx.Articles()
	for i, a := range arts {
		if a.Number != 5-i {
			t.Errorf("position %d: got article %d", i, a.Number)
		}
	}
}

func TestGaps(t *testing.T) {
	idx := New("c", "n", "l")
	for _, n := range []int{1, 2, 3, 20, 21, 40} {
		idx.Append(art(n, "x"))
	}
	idx.Build()

	gaps := idx.Gaps(10)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %v", gaps)
	}
	if gaps[0] != (Gap{From: 3, To: 20}) || gaps[1] != (Gap{From: 21, To: 40}) {
		t.Errorf("unexpected gaps %v", gaps)
	}
	if len(idx.Gaps(100)) != 0 {
		t.Error("no gap exceeds 100")
	}
}
