package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
	"github.com/esang-logistics/spectra-cli/internal/match"
	"github.com/esang-logistics/spectra-cli/internal/monitoring"
	"github.com/esang-logistics/spectra-cli/internal/store"
)

var (
	servePort   int
	serveRecord bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the identification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cat, eng, err := initEngine()
		if err != nil {
			return eris.Wrap(err, "serve: load catalog")
		}

		var st store.Store
		if serveRecord {
			sqlite, err := store.NewSQLite(cfg.Store.Path)
			if err != nil {
				return eris.Wrap(err, "serve: open store")
			}
			defer sqlite.Close()
			if err := sqlite.Migrate(ctx); err != nil {
				return eris.Wrap(err, "serve: migrate store")
			}
			st = sqlite
		}

		api := &apiServer{cat: cat, eng: eng, st: st}

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Handler: withRequestID(withRateLimit(limiter, api.routes())),
		}

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return eris.Wrap(err, "serve: listen")
		}

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("grades", cat.Len()),
			zap.String("catalog_version", cat.Version()),
		)
		return serveAndShutdown(ctx, srv, ln, shutdownDrainTimeout)
	},
}

const shutdownDrainTimeout = 10 * time.Second

// serveAndShutdown serves ln until ctx is canceled, then drains in-flight
// requests. The shutdown context must be fresh: the signal context is already
// canceled by then and would abort the drain immediately.
func serveAndShutdown(ctx context.Context, srv *http.Server, ln net.Listener, drain time.Duration) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveRecord, "record", false, "record every identify call in the history store")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	cat *catalog.Catalog
	eng *match.Engine
	st  store.Store
}

// routes builds the API mux.
func (a *apiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/status", a.handleStatus)
	mux.HandleFunc("POST /api/identify", a.handleIdentify)
	mux.HandleFunc("GET /api/stats", a.handleStats)
	mux.HandleFunc("GET /api/grades", a.handleGrades)
	mux.HandleFunc("GET /api/grades/{id}", a.handleGrade)
	return mux
}

// identifyRequest is the wire shape of an identify call. MinConfidence is a
// presentation filter applied after ranking.
type identifyRequest struct {
	match.SampleInput
	MinConfidence int `json:"min_confidence,omitempty"`
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":         "spectra-match",
		"status":          "operational",
		"loaded_grades":   a.cat.Len(),
		"catalog_version": a.cat.Version(),
	})
}

func (a *apiServer) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	results, err := a.eng.Match(req.SampleInput)
	if err != nil {
		// Engine errors at this boundary are caller contract violations.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	results = filterMinConfidence(results, req.MinConfidence)

	if a.st != nil {
		if _, err := a.st.SaveIdentification(r.Context(), req.SampleInput, results); err != nil {
			zap.L().Warn("serve: record identification failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sample":  req.SampleInput,
		"matches": results,
	})
}

func (a *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if a.st == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history recording disabled; start with --record"})
		return
	}
	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hours must be a positive integer"})
			return
		}
		hours = parsed
	}
	snap, err := monitoring.NewCollector(a.st).Collect(r.Context(), hours)
	if err != nil {
		zap.L().Error("serve: collect stats failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats collection failed"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *apiServer) handleGrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grades := a.cat.All()
	switch {
	case q.Get("country") != "":
		grades = a.cat.ByCountry(q.Get("country"))
	case q.Get("type") != "":
		grades = a.cat.ByType(q.Get("type"))
	case q.Get("q") != "":
		grades = a.cat.Search(q.Get("q"))
	}
	writeJSON(w, http.StatusOK, grades)
}

func (a *apiServer) handleGrade(w http.ResponseWriter, r *http.Request) {
	g, ok := a.cat.GetByID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown grade id"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withRateLimit returns 429 once the shared token bucket is exhausted.
func withRateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestID tags each request with an id for log correlation.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		zap.L().Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}
