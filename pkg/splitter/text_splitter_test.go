package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	paragraph := strings.Repeat("Empagliflozin lowers glucose. ", 20)
	long := strings.Repeat(paragraph+"\n\n", 30)

	tests := []struct {
		name     string
		input    string
		maxChars int
	}{
		{"short text unchanged", "Jardiance approved.", 100},
		{"disabled", long, 0},
		{"long text bounded", long, 2000},
		{"tiny limit", long, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxChars)
			if tt.maxChars <= 0 || len(tt.input) <= tt.maxChars {
				if got != tt.input {
					t.Errorf("Truncate() changed input that fits")
				}
				return
			}
			if len(got) > tt.maxChars {
				t.Errorf("Truncate() length = %d, want <= %d", len(got), tt.maxChars)
			}
			if got == "" {
				t.Errorf("Truncate() returned empty string")
			}
			if !strings.HasPrefix(long, got[:10]) {
				t.Errorf("Truncate() did not keep the leading text")
			}
		})
	}
}

func TestHardCutKeepsValidUTF8(t *testing.T) {
	got := hardCut("Ozempic – semaglutide für Typ-2-Diabetes", 12)
	if !utf8.ValidString(got) {
		t.Errorf("hardCut() produced invalid UTF-8: %q", got)
	}
	if len(got) > 12 {
		t.Errorf("hardCut() length = %d, want <= 12", len(got))
	}
}
