package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/clientry/leadintel/internal/config"
	"github.com/clientry/leadintel/internal/dedupe"
	"github.com/clientry/leadintel/internal/filter"
	"github.com/clientry/leadintel/internal/forecast"
	"github.com/clientry/leadintel/internal/model"
	"github.com/clientry/leadintel/internal/nextaction"
	"github.com/clientry/leadintel/internal/scoring"
	"github.com/clientry/leadintel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead intelligence HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, cfg),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API router over the given store.
func newRouter(st store.Store, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(cfg.Server))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/leads", handleListLeads(st))
	r.Post("/leads", handleCreateLead(st, cfg))
	r.Get("/leads/{id}", handleGetLead(st))
	r.Delete("/leads/{id}", handleDeleteLead(st))
	r.Get("/leads/{id}/score", handleScoreLead(st, cfg))
	r.Post("/leads/check-duplicates", handleCheckDuplicates(st, cfg))
	r.Get("/actions", handleActions(st))
	r.Get("/forecast", handleForecast(st, cfg))

	return r
}

// rateLimit applies one shared limiter across all requests.
func rateLimit(cfg config.ServerConfig) func(http.Handler) http.Handler {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = int(rps) * 2
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleListLeads(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads, err := st.ListLeads(r.Context())
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list leads failed")
			return
		}

		spec, err := filterSpecFromQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, filter.Apply(leads, spec))
	}
}

func handleCreateLead(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lead model.Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if lead.Email == "" && lead.Name == "" {
			writeError(w, http.StatusBadRequest, "name or email is required")
			return
		}
		if lead.Status == "" {
			lead.Status = model.StatusNew
		}
		if !lead.Status.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", lead.Status))
			return
		}

		// Report probable duplicates alongside the created lead so the
		// caller can offer a merge.
		existing, err := st.ListLeads(r.Context())
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "create lead failed")
			return
		}
		matches := dedupe.FindDuplicates(lead, existing, cfg.Dedupe)

		created, err := st.CreateLead(r.Context(), lead)
		if err != nil {
			zap.L().Error("create lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "create lead failed")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"lead":       created,
			"duplicates": matches,
		})
	}
}

func handleCheckDuplicates(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var candidate model.Lead
		if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		existing, err := st.ListLeads(r.Context())
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "duplicate check failed")
			return
		}

		matches := dedupe.FindDuplicates(candidate, existing, cfg.Dedupe)
		if matches == nil {
			matches = []dedupe.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func handleActions(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads, err := st.ListLeads(r.Context())
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "rank actions failed")
			return
		}

		suggestions := nextaction.Rank(leads, time.Now())
		if suggestions == nil {
			suggestions = []nextaction.Suggestion{}
		}
		writeJSON(w, http.StatusOK, suggestions)
	}
}

func handleForecast(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads, err := st.ListLeads(r.Context())
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "forecast failed")
			return
		}

		target := cfg.Forecast.MonthlyTarget
		if raw := r.URL.Query().Get("target"); raw != "" {
			if _, err := fmt.Sscanf(raw, "%f", &target); err != nil {
				writeError(w, http.StatusBadRequest, "invalid target")
				return
			}
		}

		writeJSON(w, http.StatusOK, forecast.Project(leads, target, time.Now()))
	}
}

func handleGetLead(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lead, err := st.GetLead(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "lead not found")
				return
			}
			zap.L().Error("get lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "get lead failed")
			return
		}
		writeJSON(w, http.StatusOK, lead)
	}
}

func handleDeleteLead(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := st.DeleteLead(r.Context(), id); err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "lead not found")
				return
			}
			zap.L().Error("delete lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "delete lead failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleScoreLead(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lead, err := st.GetLead(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "lead not found")
				return
			}
			zap.L().Error("get lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "score lead failed")
			return
		}

		writeJSON(w, http.StatusOK, scoredLead{
			Lead:   *lead,
			Result: scoring.Score(*lead, time.Now(), cfg.Scoring),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
