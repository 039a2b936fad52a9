package capability

import "context"

// Name identifies one of the language capabilities a Provider may expose.
type Name string

const (
	Detection     Name = "detection"
	Translation   Name = "translation"
	Summarization Name = "summarization"
)

// State is the availability of a capability as reported by its factory.
type State string

const (
	Unavailable   State = "no"
	Readily       State = "readily"
	AfterDownload State = "after-download"
)

// PairAvailability reports whether a source/target pair can be translated.
type PairAvailability string

const (
	PairNo            PairAvailability = "no"
	PairAfterDownload PairAvailability = "after-download"
	PairAvailable     PairAvailability = "available"
)

// state maps a pair answer onto the generic three-state protocol.
func (p PairAvailability) state() State {
	switch p {
	case PairAvailable:
		return Readily
	case PairAfterDownload:
		return AfterDownload
	default:
		return Unavailable
	}
}

// UndeterminedLanguage is the code detectors return when they cannot tell.
const UndeterminedLanguage = "und"

// Progress is a model download tick in bytes.
type Progress struct {
	Loaded int64 `json:"loaded"`
	Total  int64 `json:"total"`
}

// Monitor receives download progress while a session is being created.
type Monitor func(Progress)

// DetectionResult is one ranked candidate returned by a Detector.
type DetectionResult struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Session is an initialized capability instance.
type Session interface {
	// Ready blocks until the session is usable. Sessions that did not need a
	// download return immediately.
	Ready(ctx context.Context) error
}

type Detector interface {
	Session
	// Detect returns candidates ranked best first.
	Detect(ctx context.Context, text string) ([]DetectionResult, error)
}

type Translator interface {
	Session
	Translate(ctx context.Context, text string) (string, error)
}

type Summarizer interface {
	Session
	Summarize(ctx context.Context, text string) (string, error)
}

type DetectorOptions struct {
	Monitor Monitor
}

type TranslatorOptions struct {
	Source  string
	Target  string
	Monitor Monitor
}

// Summary shaping options accepted by summarizer factories.
const (
	SummaryTypeKeyPoints = "key-points"
	SummaryTypeTLDR      = "tl;dr"
	SummaryFormatPlain   = "plain-text"
	SummaryFormatMD      = "markdown"
	SummaryLengthShort   = "short"
	SummaryLengthMedium  = "medium"
	SummaryLengthLong    = "long"
)

type SummarizerOptions struct {
	Type    string
	Format  string
	Length  string
	Monitor Monitor
}

// DetectorFactory creates language detection sessions.
type DetectorFactory interface {
	Availability(ctx context.Context) (State, error)
	Create(ctx context.Context, opts DetectorOptions) (Detector, error)
}

// TranslatorFactory creates translation sessions for a language pair.
type TranslatorFactory interface {
	Availability(ctx context.Context) (State, error)
	PairAvailability(ctx context.Context, source, target string) (PairAvailability, error)
	Create(ctx context.Context, opts TranslatorOptions) (Translator, error)
}

// SummarizerFactory creates summarization sessions.
type SummarizerFactory interface {
	Availability(ctx context.Context) (State, error)
	Create(ctx context.Context, opts SummarizerOptions) (Summarizer, error)
}

// Provider is the capability namespace. A nil factory means the capability is
// absent from this environment.
type Provider interface {
	Detection() DetectorFactory
	Translation() TranslatorFactory
	Summarization() SummarizerFactory
}
