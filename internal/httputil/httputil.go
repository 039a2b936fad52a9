package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"text-assist/internal/capability"
)

// NewRouter creates a chi router with standard middleware (RequestID, RealIP, Timeout, Recoverer, Logger).
// timeout bounds each request, including any model download it waits for.
func NewRouter(log *slog.Logger, timeout time.Duration) *chi.Mux {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))

	return r
}

// WriteJSON writes a JSON response with proper headers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Warn("healthz write failed", "err", err)
		}
	}
}

// ServeHealth runs a health-only server for services without an API.
func ServeHealth(log *slog.Logger, port int, service string) error {
	r := chi.NewRouter()
	r.Get("/healthz", HealthHandler(log))
	addr := fmt.Sprintf(":%d", port)
	log.Info("health server listening", "service", service, "addr", addr)
	return http.ListenAndServe(addr, r)
}

// RequestLogger is a lightweight HTTP logger that uses slog.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Recoverer logs panics via slog while preserving chi's Recoverer behavior.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", "panic", rec, "path", r.URL.Path, "method", r.Method, "request_id", middleware.GetReqID(r.Context()))
					WriteJSON(w, http.StatusInternalServerError, ErrorBody{
						Error:   "internal",
						Message: "Something went wrong. Please try again.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Fail writes an error response with consistent logging.
func Fail(log *slog.Logger, w http.ResponseWriter, message string, err error, status int) {
	log.Error(message, "err", err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, ErrorBody{Error: strings.ToLower(http.StatusText(status)), Message: message})
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Problem is a surfaced failure translated for the UI.
type Problem struct {
	Status  int
	Code    string
	Message string
}

// DescribeError maps a core failure to a status code and one human-readable
// message. Unknown errors become a generic 500.
func DescribeError(err error) Problem {
	var pair *capability.PairError
	switch {
	case errors.Is(err, capability.ErrSourceLanguageUndetermined):
		return Problem{http.StatusUnprocessableEntity, "source_language_undetermined",
			"We couldn't tell which language this text is in. Try a longer sentence."}
	case errors.As(err, &pair):
		return Problem{http.StatusUnprocessableEntity, "unsupported_language_pair",
			fmt.Sprintf("Translating from %q to %q isn't supported.", pair.Source, pair.Target)}
	case errors.Is(err, capability.ErrTranslationUnsupportedPair):
		return Problem{http.StatusUnprocessableEntity, "unsupported_language_pair",
			"This language pair isn't supported."}
	case errors.Is(err, capability.ErrModelDownloadFailed):
		return Problem{http.StatusServiceUnavailable, "model_download_failed",
			"The language model could not be downloaded. Please try again later."}
	case errors.Is(err, capability.ErrCapabilityAbsent):
		return Problem{http.StatusServiceUnavailable, "capability_absent",
			"This feature isn't available in the current environment."}
	case errors.Is(err, capability.ErrSummarizationUnsupportedLanguage):
		return Problem{http.StatusUnprocessableEntity, "unsupported_language",
			"Summaries are only available for English text."}
	case errors.Is(err, capability.ErrDetectionUnreliable):
		return Problem{http.StatusUnprocessableEntity, "detection_unreliable",
			"The detected language is not reliable enough."}
	case errors.Is(err, context.DeadlineExceeded):
		return Problem{http.StatusGatewayTimeout, "timeout",
			"The request took too long. Please try again."}
	default:
		return Problem{http.StatusInternalServerError, "internal",
			"Something went wrong. Please try again."}
	}
}

// WriteError logs err and writes its description.
func WriteError(log *slog.Logger, w http.ResponseWriter, err error) {
	p := DescribeError(err)
	if p.Status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err, "status", p.Status)
	} else {
		log.Warn("request rejected", "err", err, "status", p.Status)
	}
	WriteJSON(w, p.Status, ErrorBody{Error: p.Code, Message: p.Message})
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON reads a JSON body into dst and validates its struct tags.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
