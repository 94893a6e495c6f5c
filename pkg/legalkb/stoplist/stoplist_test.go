package stoplist

import (
	"testing"
)

func TestManagerBasic(t *testing.T) {
	mgr := NewManager([]string{"el", "La", " de "})

	for _, w := range []string{"el", "la", "de"} {
		if !mgr.IsStop(w) {
			t.Errorf("%q should be a stopword", w)
		}
	}

	if mgr.IsStop("contrato") {
		t.Error("'contrato' should not be a stopword")
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"el"})

	mgr.Add("Articulo")
	if !mgr.IsStop("articulo") {
		t.Error("'articulo' should be stopword after adding")
	}

	mgr.Remove("articulo")
	if mgr.IsStop("articulo") {
		t.Error("'articulo' should not be stopword after removing")
	}
}

func TestManagerAllSorted(t *testing.T) {
	mgr := NewManager([]string{"sin", "con", "para"})

	all := mgr.All()
	want := []string{"con", "para", "sin"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d stopwords, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}

func TestDefaultSpanish(t *testing.T) {
	mgr := Default()
	if mgr.Len() != len(Spanish) {
		t.Errorf("Default() has %d words, want %d", mgr.Len(), len(Spanish))
	}
	for _, w := range []string{"del", "para", "sobre", "puede"} {
		if !mgr.IsStop(w) {
			t.Errorf("%q should be in the default list", w)
		}
	}
}
