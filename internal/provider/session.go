package provider

import (
	"context"
	"fmt"
	"strings"

	"text-assist/internal/capability"
)

// readiness is the ready signal shared by every session type here. It is
// closed once the backing model is usable.
type readiness struct {
	done chan struct{}
	err  error
}

func readyNow() *readiness {
	r := &readiness{done: make(chan struct{})}
	close(r.done)
	return r
}

func (r *readiness) Ready(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// languageSet is a normalized set of supported language codes.
type languageSet map[string]bool

func newLanguageSet(codes []string) languageSet {
	set := make(languageSet, len(codes))
	for _, c := range codes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			set[c] = true
		}
	}
	return set
}

func (s languageSet) pair(source, target string) bool {
	source, target = strings.ToLower(source), strings.ToLower(target)
	return source != target && s[source] && s[target]
}

// summaryInstructions renders summarizer options as a prompt suffix.
func summaryInstructions(opts capability.SummarizerOptions) string {
	var b strings.Builder
	switch opts.Type {
	case capability.SummaryTypeTLDR:
		b.WriteString("Write a TL;DR.")
	default:
		b.WriteString("List the key points.")
	}
	switch opts.Length {
	case capability.SummaryLengthShort:
		b.WriteString(" Keep it to at most 3 points or 1 sentence.")
	case capability.SummaryLengthLong:
		b.WriteString(" Use up to 7 points or 5 sentences.")
	default:
		b.WriteString(" Use up to 5 points or 3 sentences.")
	}
	if opts.Format == capability.SummaryFormatMD {
		b.WriteString(" Format the answer as markdown.")
	} else {
		b.WriteString(" Reply in plain text without markdown.")
	}
	return b.String()
}

func progressTo(mon capability.Monitor) func(loaded, total int64) {
	return func(loaded, total int64) {
		if mon != nil {
			mon(capability.Progress{Loaded: loaded, Total: total})
		}
	}
}

func errNilClient(name string) error {
	return fmt.Errorf("%s provider: nil client", name)
}
