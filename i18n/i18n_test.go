package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("en_US.UTF-8") != "en" {
		t.Fatalf("expected en for POSIX locale")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "fr" {
		t.Fatalf("expected fr fallback")
	}
	if DetectLanguage("") != "fr" {
		t.Fatalf("expected default fr")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to fr translation if exists
	if T("es", "required") != "Requis" {
		t.Fatalf("expected fr fallback for es lang")
	}
	if got := Tf("fr", "ok.invoice", 3); got != "Facture #3 créée avec succès!" {
		t.Fatalf("unexpected Tf: %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for code := range messages["fr"] {
		if _, ok := messages["en"][code]; !ok {
			t.Errorf("en is missing %q", code)
		}
	}
	for code := range messages["en"] {
		if _, ok := messages["fr"][code]; !ok {
			t.Errorf("fr is missing %q", code)
		}
	}
}

func TestLangContext(t *testing.T) {
	ctx := context.Background()
	if LangFromContext(ctx) != "fr" {
		t.Fatalf("expected default fr")
	}
	if LangFromContext(WithLang(ctx, "en")) != "en" {
		t.Fatalf("expected en from context")
	}
}
