package chunker

import (
	"strings"
	"unicode"
)

// Options bounds each chunk. Sizes are counted in whitespace-delimited words.
type Options struct {
	MaxWords int
	Overlap  int
}

// Chunk is one window of the input.
type Chunk struct {
	Index     int
	Text      string
	WordCount int
}

const defaultMaxWords = 400

// ChunkText slides a window of opts.MaxWords words over text, repeating
// opts.Overlap words between neighbours.
func ChunkText(text string, opts Options) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	size := opts.MaxWords
	if size <= 0 {
		size = defaultMaxWords
	}
	step := size - max(opts.Overlap, 0)
	if step <= 0 {
		step = size
	}

	var chunks []Chunk
	for start := 0; ; start += step {
		end := min(start+size, len(words))
		chunks = append(chunks, Chunk{
			Index:     len(chunks),
			Text:      strings.Join(words[start:end], " "),
			WordCount: end - start,
		})
		if end == len(words) {
			return chunks
		}
	}
}

// SplitSentences breaks text on terminal punctuation (. ! ? and their
// full-width forms) followed by whitespace or end of input. Sentences keep
// their punctuation and are trimmed.
func SplitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if !isTerminal(r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
