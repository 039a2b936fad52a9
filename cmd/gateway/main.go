package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"text-assist/internal/app"
	"text-assist/internal/assistant"
	"text-assist/internal/capability"
	"text-assist/internal/httputil"
)

type textRequest struct {
	Text string `json:"text"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target" validate:"required,oneof=en pt es ru tr fr"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) chi.Router {
	r := httputil.NewRouter(deps.Log, deps.Config.RequestTimeout)

	r.Post("/api/detect", detectHandler(deps))
	r.Post("/api/translate", translateHandler(deps))
	r.Post("/api/summarize", summarizeHandler(deps))
	r.Get("/api/capabilities", capabilitiesHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}

// checkText rejects oversized input before any capability is touched.
func checkText(deps app.Deps, w http.ResponseWriter, text string) bool {
	if limit := deps.Config.MaxTextLength; limit > 0 && utf8.RuneCountInString(text) > limit {
		httputil.Fail(deps.Log, w, fmt.Sprintf("text too long (max %d characters)", limit), nil, http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

func detectHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		if !checkText(deps, w, req.Text) {
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"language": deps.Assistant.DetectLanguage(r.Context(), req.Text),
		})
	}
}

func translateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		if !checkText(deps, w, req.Text) {
			return
		}
		tr, err := deps.Assistant.Translate(r.Context(), req.Text, req.Target)
		if err != nil {
			httputil.WriteError(deps.Log.With("target", req.Target), w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"source":      tr.Source,
			"target":      tr.Target,
			"translation": tr.Text,
			"cached":      tr.Cached,
		})
	}
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		if !checkText(deps, w, req.Text) {
			return
		}
		summary := deps.Assistant.SummarizeText(r.Context(), req.Text)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"summary":    summary,
			"summarized": assistant.Summarized(req.Text, summary),
		})
	}
}

func capabilitiesHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := deps.Assistant.Capabilities()
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{
			"detection":     report[capability.Detection],
			"translation":   report[capability.Translation],
			"summarization": report[capability.Summarization],
		})
	}
}
