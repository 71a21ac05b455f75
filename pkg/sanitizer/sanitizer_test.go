package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "    ", ""},
		{"leading and trailing", "  vegetarian menu  ", "vegetarian menu"},
		{"internal runs collapse", "no   onions\t\tplease", "no onions please"},
		{"newlines collapse", "line one\nline two", "line one line two"},
		{"already clean", "clean text", "clean text"},
		{"unicode preserved", "crème brûlée", "crème brûlée"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIngredients(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"dedup case-insensitive", []string{"Basil", "basil", "BASIL"}, []string{"basil"}},
		{"drops empties", []string{" ", "salt", ""}, []string{"salt"}},
		{"preserves order", []string{"tomato", "garlic", "tomato"}, []string{"tomato", "garlic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIngredients(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeIngredients(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
