// Package api serves the production reports over HTTP.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", h.HealthCheck).Methods(http.MethodGet)

	reports := r.PathPrefix("/api/reports").Subrouter()
	reports.HandleFunc("/daily", h.GetDailySummary).Methods(http.MethodGet)
	reports.HandleFunc("/details", h.GetDetails).Methods(http.MethodGet)
	reports.HandleFunc("/monthly", h.GetMonthly).Methods(http.MethodGet)
	reports.HandleFunc("/monthly/chart.png", h.GetMonthlyChart).Methods(http.MethodGet)
	reports.HandleFunc("/stops", h.GetStopReasons).Methods(http.MethodGet)
	reports.HandleFunc("/stops/stats", h.GetStopReasonStats).Methods(http.MethodGet)

	r.HandleFunc("/api/records", h.ListRecords).Methods(http.MethodGet)
	r.HandleFunc("/api/records", h.CreateRecords).Methods(http.MethodPost)
	r.HandleFunc("/api/records/{id}", h.DeleteRecord).Methods(http.MethodDelete)

	return r
}

// CORSMiddleware adds CORS headers for the given origins; empty allows any.
func CORSMiddleware(origins []string) mux.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(next)
	}
}

// LoggingMiddleware logs each request with its status and duration.
func LoggingMiddleware(logger *log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			logger.Printf("%s %s %d %s", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
		})
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
