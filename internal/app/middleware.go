package app

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/lineboard/lineboard/internal/config"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

// SetupMiddleware wires router-level HTTP middlewares.
func SetupMiddleware(r *mux.Router, cfg config.Application) {

	// Attach a request ID so log lines of one request can be correlated.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := req.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, req)
		})
	})
}

// withOuterMiddleware wraps the router with recovery, access logging and CORS.
// These sit outside the mux so they also cover 404s and panics in the router itself.
func withOuterMiddleware(r *mux.Router, cfg config.Application) http.Handler {
	var handler http.Handler = r

	handler = handlers.CORS(
		handlers.AllowedOrigins(cfg.Cors.Origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", requestIDHeader}),
		handlers.MaxAge(86400),
	)(handler)

	handler = handlers.LoggingHandler(log.StandardLogger().Writer(), handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)

	return handler
}
