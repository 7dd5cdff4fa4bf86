package generate

import (
	"errors"
	"strconv"
	"testing"
)

// TestNormalize tests collapsing raw lexicon entries into ASCII tokens.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain word",
			input: "cat",
			want:  "cat",
		},
		{
			name:  "multi-word entry",
			input: "ice cream",
			want:  "icecream",
		},
		{
			name:  "underscore separator",
			input: "hot_dog",
			want:  "hotdog",
		},
		{
			name:  "hyphenated",
			input: "well-being",
			want:  "wellbeing",
		},
		{
			name:  "apostrophe",
			input: "o'clock",
			want:  "oclock",
		},
		{
			name:  "accented latin",
			input: "café",
			want:  "cafe",
		},
		{
			name:  "multiple diacritics",
			input: "crème brûlée",
			want:  "cremebrulee",
		},
		{
			name:    "cyrillic",
			input:   "кот",
			wantErr: true,
		},
		{
			name:    "cjk",
			input:   "猫",
			wantErr: true,
		},
		{
			name:    "digits in word",
			input:   "mp3",
			wantErr: true,
		},
		{
			name:    "separators only",
			input:   "-- __",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q, want error", tt.input, got)
				}
				var nonASCII *NonASCIIWordError
				if !errors.As(err, &nonASCII) {
					t.Errorf("Normalize(%q) error = %v, want NonASCIIWordError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestApplyCase tests the three case transforms.
func TestApplyCase(t *testing.T) {
	tests := []struct {
		name string
		word string
		mode Case
		want string
	}{
		{name: "lower", word: "cat", mode: CaseLower, want: "cat"},
		{name: "upper", word: "cat", mode: CaseUpper, want: "CAT"},
		{name: "capitalized", word: "cat", mode: CaseCapitalized, want: "Cat"},
		{name: "lower from mixed", word: "CaT", mode: CaseLower, want: "cat"},
		{name: "capitalized from upper", word: "CAT", mode: CaseCapitalized, want: "Cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyCase(tt.word, tt.mode)
			if got != tt.want {
				t.Errorf("ApplyCase(%q, %v) = %q, want %q", tt.word, tt.mode, got, tt.want)
			}
		})
	}
}

// TestWord_Deterministic tests that formatting without a suffix is a
// pure function of the word and case mode.
func TestWord_Deterministic(t *testing.T) {
	f := NewFormatter()

	first, err := f.Word("café", CaseCapitalized)
	if err != nil {
		t.Fatalf("Word failed: %v", err)
	}
	second, err := f.Word("café", CaseCapitalized)
	if err != nil {
		t.Fatalf("Word failed: %v", err)
	}

	if first != second {
		t.Errorf("Word not deterministic: %q vs %q", first, second)
	}
	if first != "Cafe" {
		t.Errorf("Word = %q, want %q", first, "Cafe")
	}
}

// TestDrawSuffix tests suffix widths and value ranges.
func TestDrawSuffix(t *testing.T) {
	f := NewSeededFormatter(1)

	if got := f.DrawSuffix(SuffixNone); got != "" {
		t.Errorf("DrawSuffix(none) = %q, want empty", got)
	}

	widths := []struct {
		mode  Suffix
		width int
		max   int
	}{
		{SuffixOne, 1, 9},
		{SuffixTwo, 2, 99},
		{SuffixThree, 3, 999},
	}

	for _, w := range widths {
		for i := 0; i < 200; i++ {
			got := f.DrawSuffix(w.mode)
			if len(got) != w.width {
				t.Fatalf("DrawSuffix(%v) = %q, want %d digits", w.mode, got, w.width)
			}
			n, err := strconv.Atoi(got)
			if err != nil {
				t.Fatalf("DrawSuffix(%v) = %q, not numeric: %v", w.mode, got, err)
			}
			if n < 0 || n > w.max {
				t.Fatalf("DrawSuffix(%v) = %q, out of range 0-%d", w.mode, got, w.max)
			}
		}
	}
}

// TestParseCase tests case mode parsing.
func TestParseCase(t *testing.T) {
	tests := []struct {
		input   string
		want    Case
		wantErr bool
	}{
		{input: "lower", want: CaseLower},
		{input: "UPPER", want: CaseUpper},
		{input: "capitalized", want: CaseCapitalized},
		{input: "cap", want: CaseCapitalized},
		{input: "", want: CaseLower},
		{input: "shouty", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCase(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCase(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCase(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCase(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestParseSuffix tests suffix mode parsing.
func TestParseSuffix(t *testing.T) {
	tests := []struct {
		input   string
		want    Suffix
		wantErr bool
	}{
		{input: "none", want: SuffixNone},
		{input: "", want: SuffixNone},
		{input: "1", want: SuffixOne},
		{input: "2-digit", want: SuffixTwo},
		{input: "three", want: SuffixThree},
		{input: "4", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSuffix(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSuffix(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSuffix(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSuffix(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
