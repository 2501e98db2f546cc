package i18n

import "testing"

func TestT_English(t *testing.T) {
	SetLanguage("en")

	if got := T("title_home"); got != "WiFi" {
		t.Errorf("T(title_home) = %q, want %q", got, "WiFi")
	}
	if got := T("title_default"); got != "Usage" {
		t.Errorf("T(title_default) = %q, want %q", got, "Usage")
	}
}

func TestT_MissingKey(t *testing.T) {
	SetLanguage("en")
	if got := T("nonexistent_key"); got != "nonexistent_key" {
		t.Errorf("T(nonexistent_key) = %q, want %q", got, "nonexistent_key")
	}
}

func TestTf(t *testing.T) {
	SetLanguage("en")
	got := Tf("limit", "24 GB")
	want := "Limit: 24 GB"
	if got != want {
		t.Errorf("Tf(limit, 24 GB) = %q, want %q", got, want)
	}
}

func TestSetLanguage_Fallback(t *testing.T) {
	SetLanguage("si")
	if Current() != LangEN {
		t.Errorf("unknown language should default to EN, got %q", Current())
	}
}
