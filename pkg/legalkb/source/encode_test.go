package source

import (
	"context"
	"strings"
	"testing"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
)

func TestDirWriteFileReadBack(t *testing.T) {
	text := "Artículo 1.- La ley es obligatoria.\nArtículo 2.- Las leyes no tienen <efecto> retroactivo.\n"
	doc := &Document{
		Name:      "Código Civil",
		LawNumber: "Ley N° 63",
		Records:   ParseArticles(text),
	}

	dir := NewJSONDir(t.TempDir())
	path, err := dir.WriteFile("codigo-civil", doc)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !strings.HasSuffix(path, "codigo-civil.json") {
		t.Errorf("unexpected path %s", path)
	}

	got, err := dir.Fetch(context.Background(), "codigo-civil")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Name != "Código Civil" || got.LawNumber != "Ley N° 63" || got.TotalArticles != 2 {
		t.Errorf("metadata = %+v", got)
	}

	owner := article.Owner{CodeID: "codigo-civil", CodeName: got.Name, LawNumber: got.LawNumber}
	a, ok := article.Normalize(got.Records[1], owner, "")
	if !ok {
		t.Fatal("written record should normalize")
	}
	if a.Number != 2 || a.Content != "Las leyes no tienen <efecto> retroactivo." {
		t.Errorf("article = %+v", a)
	}
}

func TestWriteFileRejectsTextDir(t *testing.T) {
	if _, err := NewTextDir(t.TempDir()).WriteFile("codigo-civil", &Document{}); err == nil {
		t.Error("text directories should not be writable")
	}
}
