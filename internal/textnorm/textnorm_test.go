package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Build complete.", "Build complete."},
		{"smart quotes", "“Hello world”", `"Hello world"`},
		{"smart apostrophe and em dash", "Don’t worry—it's fine", "Don't worry-it's fine"},
		{"ellipsis", "Loading…", "Loading..."},
		{"en dash", "Price: $10–$20", "Price: $10-$20"},
		{"multiple spaces", "  Multiple   spaces   ", "Multiple spaces"},
		{"newlines", "Line1\nLine2\nLine3", "Line1 Line2 Line3"},
		{"tabs", "\tTabbed\ttext", "Tabbed text"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := Normalize(tc.in)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
		})
	}
}

func TestNormalize_UnsupportedCharacterWarns(t *testing.T) {
	got, warnings := Normalize("hello \U0001F600 world \U0001F600")
	if got != "hello world" {
		t.Errorf("expected unsupported rune dropped, got %q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one deduplicated warning, got %v", warnings)
	}
}

func TestNormalize_KeepsAccentedLetters(t *testing.T) {
	got, warnings := Normalize("café naïve")
	if got != "café naïve" {
		t.Errorf("accented Latin letters should survive, got %q", got)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
