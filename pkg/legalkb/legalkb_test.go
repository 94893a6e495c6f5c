package legalkb

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fixtureSource() *source.Memory {
	mem := source.NewMemory()
	mem.Put("codigo-civil", &source.Document{
		Records: []article.Record{
			{"article": 1, "title": "Artículo 1", "text": "La ley es obligatoria para todos los habitantes."},
			{"article": 2, "text": "El contrato obliga a las partes contratantes."},
			{"number": "abc", "content": "x"},
		},
	})
	mem.Put("codigo-trabajo", &source.Document{
		Name:      "Código de Trabajo",
		LawNumber: "Ley N° 2",
		Records: []article.Record{
			{"number": 1, "content": "El trabajo es un derecho del individuo."},
			{"number": 29, "title": "Indemnización", "content": "El patrono pagará la indemnización correspondiente al trabajador."},
		},
	})
	return mem
}

func loadFixture(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb := New(Options{Source: fixtureSource(), Logger: quietLogger()})
	if _, err := kb.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return kb
}

func TestLoadIdempotent(t *testing.T) {
	kb := New(Options{Source: fixtureSource(), Logger: quietLogger()})

	first, err := kb.Load(context.Background())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	firstStats := first.Stats()
	firstRun := first.Report().RunID

	second, err := kb.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first != second {
		t.Error("second load should return the same instance")
	}
	if !reflect.DeepEqual(firstStats, second.Stats()) {
		t.Errorf("stats changed across loads: %+v vs %+v", firstStats, second.Stats())
	}
	if second.Report().RunID != firstRun {
		t.Error("second load should not start a new run")
	}
}

func TestLoadSkipsMissingCodes(t *testing.T) {
	kb := loadFixture(t)

	stats := kb.Stats()
	if stats.TotalCodes != 2 {
		t.Fatalf("expected 2 loaded codes, got %d", stats.TotalCodes)
	}
	if stats.TotalArticles != 4 {
		t.Errorf("expected 4 articles, got %d", stats.TotalArticles)
	}
	if stats.Codes["codigo-civil"] != 2 || stats.Codes["codigo-trabajo"] != 2 {
		t.Errorf("per-code counts = %v", stats.Codes)
	}

	report := kb.Report()
	if len(report.Codes) != 5 {
		t.Fatalf("report should cover every registered code, got %d", len(report.Codes))
	}
	for _, c := range report.Codes {
		switch c.CodeID {
		case "codigo-civil", "codigo-trabajo":
			if !c.Loaded {
				t.Errorf("%s should be loaded", c.CodeID)
			}
		default:
			if c.Loaded || c.Skipped == "" {
				t.Errorf("%s should be skipped with a reason: %+v", c.CodeID, c)
			}
		}
	}
	if report.RunID == "" {
		t.Error("report should carry a run id")
	}
}

func TestMalformedRecordDropped(t *testing.T) {
	kb := loadFixture(t)

	if got := kb.Stats().Codes["codigo-civil"]; got != 2 {
		t.Errorf("malformed record should not be counted, civil has %d", got)
	}
	civil := kb.Report().Codes[0]
	if civil.CodeID != "codigo-civil" || civil.Discarded != 1 {
		t.Errorf("civil report = %+v", civil)
	}
	if civil.Reasons[article.ReasonBadNumber.String()] != 1 {
		t.Errorf("discard reasons = %v", civil.Reasons)
	}
}

func TestRegistryFallback(t *testing.T) {
	kb := loadFixture(t)

	civil := kb.FindArticle("codigo-civil", 1)
	if len(civil) != 1 {
		t.Fatalf("expected one civil article 1, got %d", len(civil))
	}
	if civil[0].CodeName != "Código Civil de Costa Rica" || civil[0].LawNumber != "Ley N° 63" {
		t.Errorf("civil metadata should come from the registry: %+v", civil[0])
	}
	if want := "Artículo 1 del Código Civil de Costa Rica (Ley N° 63)"; civil[0].Citation() != want {
		t.Errorf("citation = %q, want %q", civil[0].Citation(), want)
	}

	trabajo := kb.FindArticle("codigo-trabajo", 1)
	if len(trabajo) != 1 || trabajo[0].CodeName != "Código de Trabajo" {
		t.Errorf("document name should win over the registry: %+v", trabajo)
	}

	if got := kb.FindArticle("codigo-civil", 2); len(got) != 1 || got[0].Title != "Artículo 2" {
		t.Errorf("missing title should default, got %+v", got)
	}
}

func TestFindArticleAnyCodeOrder(t *testing.T) {
	kb := loadFixture(t)

	got := kb.FindArticleAnyCode(1)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles numbered 1, got %d", len(got))
	}
	if got[0].CodeID != "codigo-civil" || got[1].CodeID != "codigo-trabajo" {
		t.Errorf("order = %s, %s; want civil then trabajo", got[0].CodeID, got[1].CodeID)
	}
	if !strings.HasPrefix(got[0].Content, "La ley es obligatoria") {
		t.Errorf("civil content = %q", got[0].Content)
	}
	if !strings.HasPrefix(got[1].Content, "El trabajo es un derecho") {
		t.Errorf("trabajo content = %q", got[1].Content)
	}
}

func TestExactLookupContainsEveryArticle(t *testing.T) {
	kb := loadFixture(t)

	for _, code := range kb.AvailableCodes() {
		for _, a := range kb.byID[code.CodeID].Articles() {
			if !containsArticle(kb.FindArticle(a.CodeID, a.Number), a) {
				t.Errorf("FindArticle(%s, %d) is missing the article", a.CodeID, a.Number)
			}
			if !containsArticle(kb.FindArticleAnyCode(a.Number), a) {
				t.Errorf("FindArticleAnyCode(%d) is missing %s", a.Number, a.CodeID)
			}
		}
	}
}

func TestFindArticleUnknown(t *testing.T) {
	kb := loadFixture(t)

	if got := kb.FindArticle("codigo-civil", 999); len(got) != 0 {
		t.Errorf("unknown number should be empty, got %d", len(got))
	}
	if got := kb.FindArticle("codigo-inexistente", 1); len(got) != 0 {
		t.Errorf("unknown code should be empty, got %d", len(got))
	}
	if got := kb.FindArticleAnyCode(999); len(got) != 0 {
		t.Errorf("unknown number across codes should be empty, got %d", len(got))
	}
}

func TestSearchAccentInsensitive(t *testing.T) {
	kb := loadFixture(t)

	plain := kb.Explain("contrato", "", 10)
	accented := kb.Explain("contrató", "", 10)
	if len(plain) != 1 || len(accented) != 1 {
		t.Fatalf("expected one result each, got %d and %d", len(plain), len(accented))
	}
	if plain[0].Article != accented[0].Article {
		t.Error("both queries should find the same article")
	}
	if plain[0].Score != accented[0].Score {
		t.Errorf("scores differ: %f vs %f", plain[0].Score, accented[0].Score)
	}
}

func TestSearchScope(t *testing.T) {
	kb := loadFixture(t)

	if got := kb.SearchByKeywords("trabajo", "codigo-civil", 10); len(got) != 0 {
		t.Errorf("scoped search should not leave the code, got %+v", got)
	}
	if got := kb.SearchByKeywords("trabajo", "codigo-trabajo", 10); len(got) == 0 {
		t.Error("scoped search should find trabajo articles")
	}
	// A code that is not loaded searches everything.
	if got := kb.SearchByKeywords("trabajo", "codigo-penal", 10); len(got) == 0 {
		t.Error("unloaded code should fall back to the whole base")
	}
}

func TestSearchTruncation(t *testing.T) {
	mem := source.NewMemory()
	var recs []article.Record
	for i := 1; i <= 6; i++ {
		recs = append(recs, article.Record{"article": i, "text": "Sobre el delito y su pena."})
	}
	mem.Put("codigo-penal", &source.Document{Records: recs})

	kb := New(Options{Source: mem, Logger: quietLogger()})
	if _, err := kb.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := kb.SearchByKeywords("delito", "", 2)
	if len(got) != 2 {
		t.Fatalf("max 2 should return 2 results, got %d", len(got))
	}
	if got[0].Number != 1 || got[1].Number != 2 {
		t.Errorf("equal scores should keep source order, got %d, %d", got[0].Number, got[1].Number)
	}
}

func TestSearchInvalidQuery(t *testing.T) {
	kb := loadFixture(t)

	cases := []struct {
		name  string
		query string
		max   int
	}{
		{"empty", "", 10},
		{"whitespace", "   \t", 10},
		{"only stopwords", "de la con para", 10},
		{"zero max", "contrato", 0},
		{"negative max", "contrato", -3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := kb.SearchByKeywords(tc.query, "", tc.max); len(got) != 0 {
				t.Errorf("expected no results, got %d", len(got))
			}
		})
	}
}

func TestSearchByTopicExpansion(t *testing.T) {
	kb := loadFixture(t)

	if got := kb.SearchByKeywords("despido", "", 10); len(got) != 0 {
		t.Fatalf("fixture should not contain the literal word, got %d", len(got))
	}

	got := kb.SearchByTopic("despido", "", 10)
	if len(got) == 0 {
		t.Fatal("topic search should reach articles through the expansion")
	}
	if got[0].CodeID != "codigo-trabajo" || got[0].Number != 29 {
		t.Errorf("top result = %s %d, want codigo-trabajo 29", got[0].CodeID, got[0].Number)
	}
}

func TestSearchByTopicVerbatim(t *testing.T) {
	kb := loadFixture(t)

	if got := kb.ExpandTopic("habitantes"); got != "habitantes" {
		t.Errorf("unknown topic should be used verbatim, got %q", got)
	}
	if got := kb.SearchByTopic("habitantes", "", 10); len(got) != 1 {
		t.Errorf("verbatim topic should search as keywords, got %d", len(got))
	}
}

func TestAvailableCodesOrder(t *testing.T) {
	kb := loadFixture(t)

	codes := kb.AvailableCodes()
	want := []CodeDescriptor{
		{CodeID: "codigo-civil", Name: "Código Civil de Costa Rica", LawNumber: "Ley N° 63", ArticleCount: 2},
		{CodeID: "codigo-trabajo", Name: "Código de Trabajo", LawNumber: "Ley N° 2", ArticleCount: 2},
	}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("AvailableCodes() = %+v, want %+v", codes, want)
	}
	if !kb.HasCode("codigo-civil") || kb.HasCode("codigo-penal") {
		t.Error("HasCode should reflect loaded codes")
	}
}

func TestLoadMisconfiguredSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	kb := New(Options{Source: source.NewJSONDir(missing), Logger: quietLogger()})

	if _, err := kb.Load(context.Background()); err != nil {
		t.Fatalf("misconfigured source should not fail the load: %v", err)
	}
	if !kb.Loaded() {
		t.Error("base should be marked loaded")
	}
	if kb.Report().ConfigErr == "" {
		t.Error("report should record the configuration error")
	}
	if s := kb.Stats(); s.TotalCodes != 0 || s.TotalArticles != 0 {
		t.Errorf("expected an empty base, got %+v", s)
	}
	if got := kb.SearchByKeywords("contrato", "", 10); len(got) != 0 {
		t.Errorf("empty base should return no results, got %d", len(got))
	}
	if codes := kb.AvailableCodes(); len(codes) != 0 {
		t.Errorf("empty base should list no codes, got %d", len(codes))
	}
}

func TestLoadCancelled(t *testing.T) {
	kb := New(Options{Source: fixtureSource(), Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := kb.Load(ctx); err == nil {
		t.Fatal("expected an error from a cancelled load")
	}
	if kb.Loaded() {
		t.Error("cancelled load must not mark the base loaded")
	}
	if kb.Stats().TotalArticles != 0 {
		t.Error("cancelled load must not expose partial state")
	}

	if _, err := kb.Load(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if kb.Stats().TotalArticles != 4 {
		t.Errorf("retry should load everything, got %d", kb.Stats().TotalArticles)
	}
}

func TestLoadWarnings(t *testing.T) {
	mem := source.NewMemory()
	mem.Put("codigo-comercio", &source.Document{Records: []article.Record{
		{"article": 1, "text": "Primero."},
		{"article": 1, "text": "Primero bis."},
		{"article": 40, "text": "Cuadragésimo."},
	}})

	kb := New(Options{Source: mem, Logger: quietLogger()})
	if _, err := kb.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	for _, c := range kb.Report().Codes {
		if c.CodeID == "codigo-comercio" {
			warnings = c.Warnings
		}
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "duplicate article numbers: 1") {
		t.Errorf("missing duplicate warning: %v", warnings)
	}
	if !strings.Contains(joined, "1 → 40") {
		t.Errorf("missing gap warning: %v", warnings)
	}
	if got := kb.FindArticle("codigo-comercio", 1); len(got) != 2 {
		t.Errorf("duplicates should both be kept, got %d", len(got))
	}
}

func TestConcurrentReads(t *testing.T) {
	kb := loadFixture(t)
	want := kb.SearchByKeywords("trabajador indemnización", "", 10)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := kb.SearchByKeywords("trabajador indemnización", "", 10); !reflect.DeepEqual(got, want) {
				errs <- "search results differ between readers"
			}
			if len(kb.FindArticleAnyCode(1)) != 2 {
				errs <- "exact lookup differs between readers"
			}
			_ = kb.Stats()
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func containsArticle(list []article.Article, a article.Article) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}
