package chunker

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	ten := "one two three four five six seven eight nine ten"

	tests := []struct {
		name      string
		text      string
		opts      Options
		wantTexts []string
	}{
		{"empty", "", Options{MaxWords: 10}, nil},
		{"fits in one", "one two", Options{MaxWords: 10}, []string{"one two"}},
		{"overlap", ten, Options{MaxWords: 4, Overlap: 1}, []string{
			"one two three four", "four five six seven", "seven eight nine ten",
		}},
		{"no overlap", "one two three four five six", Options{MaxWords: 3}, []string{
			"one two three", "four five six",
		}},
		{"overlap not smaller than window", "a b c d", Options{MaxWords: 2, Overlap: 5}, []string{"a b", "c d"}},
		{"negative overlap", "a b c d", Options{MaxWords: 2, Overlap: -1}, []string{"a b", "c d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, tt.opts)
			if len(chunks) != len(tt.wantTexts) {
				t.Fatalf("expected %d chunks, got %d: %+v", len(tt.wantTexts), len(chunks), chunks)
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				if c.Text != tt.wantTexts[i] {
					t.Errorf("chunk %d: got %q, want %q", i, c.Text, tt.wantTexts[i])
				}
				if c.WordCount != len(strings.Fields(c.Text)) {
					t.Errorf("chunk %d: word count %d does not match text", i, c.WordCount)
				}
			}
		})
	}
}

func TestChunkTextDefaultWindow(t *testing.T) {
	text := strings.Repeat("word ", 1000)
	chunks := ChunkText(text, Options{})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks of at most %d words, got %d", defaultMaxWords, len(chunks))
	}
	for _, c := range chunks {
		if c.WordCount > defaultMaxWords {
			t.Errorf("chunk %d exceeded default window: %d words", c.Index, c.WordCount)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single without punctuation", "hello world", []string{"hello world"}},
		{"mixed terminals", "One. Two! Three? Four", []string{"One.", "Two!", "Three?", "Four"}},
		{"decimals stay intact", "Pi is 3.14 roughly. Yes.", []string{"Pi is 3.14 roughly.", "Yes."}},
		{"extra whitespace", "  A.   B.  ", []string{"A.", "B."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
