package cmd

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"ticket", "tickets", 1},
		{"prodcts", "products", 1},
		{"devcie", "device", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"auth", "device", "purchase", "promo", "products", "tickets", "cache", "version"}

	tests := []struct {
		unknown string
		want    string
	}{
		{"prodcts", "products"},
		{"ticket", "tickets"},
		{"devcie", "device"},
		{"AUTH", "auth"},
		{"zzzzzzzzzz", ""},
	}
	for _, tt := range tests {
		if got := suggestCommand(tt.unknown, commands); got != tt.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", tt.unknown, got, tt.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagNames := []string{"--output", "--json", "--debug", "--quiet", "--no-cache", "--max-retries"}

	tests := []struct {
		unknown string
		want    string
	}{
		{"--outpt", "--output"},
		{"--jsn", "--json"},
		{"--nocache", "--no-cache"},
		{"--completely-different", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := suggestFlag(tt.unknown, flagNames); got != tt.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", tt.unknown, got, tt.want)
		}
	}
}
