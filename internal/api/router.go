package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adilezz/botbourse/internal/api/handlers"
	"github.com/adilezz/botbourse/pkg/logger"
)

// NewRouter wires all routes and middleware.
func NewRouter(market *handlers.MarketHandler, stream *RunStream, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", market.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", market.Status).Methods("GET")
	api.HandleFunc("/opportunities", market.Opportunities).Methods("GET")
	api.HandleFunc("/instruments", market.Instruments).Methods("GET")
	api.HandleFunc("/instruments/{symbol}/series", market.Series).Methods("GET")
	api.HandleFunc("/instruments/{symbol}/report", market.InvestorReport).Methods("GET")
	api.HandleFunc("/sync", market.TriggerSync).Methods("POST")

	// live run notifications
	r.HandleFunc("/ws/runs", stream.Handle)

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
