package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Home", "home"},
		{"Spring Drop 2026", "spring-drop-2026"},
		{"Défilé Couture", "defile-couture"},
		{"  exhibitions  ", "exhibitions"},
		{"designers & friends", "designers-friends"},
		{"a---b", "a-b"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"home", true},
		{"spring-drop-2026", true},
		{"a", true},
		{"2026", true},
		{"", false},
		{"Home", false},
		{"home page", false},
		{"-home", false},
		{"home-", false},
		{"home--page", false},
		{"home_page", false},
		{"défilé", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
