package scamdb

import (
	"testing"

	"scamtrap/internal/models"
)

func TestCatalogCoversAllScamTypes(t *testing.T) {
	templates := Catalog()
	if len(templates) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(templates))
	}
	seen := make(map[models.ScamType]bool)
	for _, tpl := range templates {
		if !models.ValidScamType(tpl.Type) {
			t.Fatalf("catalog holds unknown type %q", tpl.Type)
		}
		if seen[tpl.Type] {
			t.Fatalf("duplicate category %q", tpl.Type)
		}
		seen[tpl.Type] = true
		if len(tpl.Messages) == 0 {
			t.Fatalf("category %q has no openers", tpl.Type)
		}
		if tpl.Label == "" {
			t.Fatalf("category %q has no label", tpl.Type)
		}
	}
}

func TestRandomRespectsTypeFilter(t *testing.T) {
	for i := 0; i < 20; i++ {
		pick, ok := Random(models.ScamTypeBanking)
		if !ok {
			t.Fatalf("expected a pick for banking")
		}
		if pick.Type != models.ScamTypeBanking {
			t.Fatalf("filtered pick has type %q", pick.Type)
		}
		found := false
		for _, msg := range bankingScams {
			if msg == pick.Message {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("pick not from banking openers: %q", pick.Message)
		}
	}
}

func TestRandomUnfiltered(t *testing.T) {
	pick, ok := Random("")
	if !ok || !models.ValidScamType(pick.Type) || pick.Message == "" {
		t.Fatalf("unexpected pick: %+v ok=%v", pick, ok)
	}
}

func TestRandomUnknownType(t *testing.T) {
	if _, ok := Random("romance"); ok {
		t.Fatalf("expected no pick for unknown type")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(models.ScamTypeBanking); got != "Banking/Financial" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label("romance"); got != "romance" {
		t.Fatalf("expected raw passthrough for unknown type, got %q", got)
	}
}
