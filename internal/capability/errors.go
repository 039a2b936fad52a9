package capability

import (
	"errors"
	"fmt"
)

var (
	ErrCapabilityAbsent                 = errors.New("capability absent")
	ErrModelDownloadFailed              = errors.New("model download failed")
	ErrDetectionUnreliable              = errors.New("language detection unreliable")
	ErrSourceLanguageUndetermined       = errors.New("source language could not be determined")
	ErrTranslationUnsupportedPair       = errors.New("language pair not supported")
	ErrSummarizationUnsupportedLanguage = errors.New("summarization only supports english")
)

// Manager level failures. Each wraps one of the causes above or a host error.
var (
	ErrDetectorUnavailable    = errors.New("language detector unavailable")
	ErrTranslationUnsupported = errors.New("translation unsupported")
	ErrSummarizerUnavailable  = errors.New("summarizer unavailable")
)

// PairError reports a language pair the translator refuses.
type PairError struct {
	Source string
	Target string
}

func (e *PairError) Error() string {
	return fmt.Sprintf("translation unsupported for %s -> %s", e.Source, e.Target)
}

func (e *PairError) Is(target error) bool {
	return target == ErrTranslationUnsupported || target == ErrTranslationUnsupportedPair
}
