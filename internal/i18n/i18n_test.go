package i18n

import "testing"

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    Locale
		wantErr bool
	}{
		{"da", Danish, false},
		{"en", English, false},
		{"EN", English, false},
		{" da ", Danish, false},
		{"", Danish, false},
		{"sv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLocale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLocale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLocale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslationsCoverBothLocales(t *testing.T) {
	for key := range translations[Danish] {
		if _, ok := translations[English][key]; !ok {
			t.Errorf("key %q has no English translation", key)
		}
	}
	for key := range translations[English] {
		if _, ok := translations[Danish][key]; !ok {
			t.Errorf("key %q has no Danish translation", key)
		}
	}
}

func TestFallbackToDanish(t *testing.T) {
	if got := T("fr", KeyConfirmYes); got != "Ja, bekræft" {
		t.Errorf("T(fr) = %q, want Danish fallback", got)
	}
}

func TestUnknownKeyRendersKey(t *testing.T) {
	if got := T(Danish, Key("missing")); got != "missing" {
		t.Errorf("T() = %q, want the key itself", got)
	}
}
