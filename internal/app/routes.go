package app

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lineboard/lineboard/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Stops. The analytics route must be registered before the parameterised one.
	r.HandleFunc("/api/stops/analytics/daily", deps.StatsHandler.GetDailySummary).Methods("GET")
	r.HandleFunc("/api/stops", deps.StopHandler.ListStops).Methods("GET")
	r.HandleFunc("/api/stops", deps.StopHandler.CreateStop).Methods("POST")
	r.HandleFunc("/api/stops/{stopId}", deps.StopHandler.GetStop).Methods("GET")
	r.HandleFunc("/api/stops/{stopId}", deps.StopHandler.UpdateStop).Methods("PATCH")

	// Causes. Same ordering constraint for /stats.
	r.HandleFunc("/api/causes/stats", deps.CauseHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/causes", deps.CauseHandler.ListCauses).Methods("GET")
	r.HandleFunc("/api/causes", deps.CauseHandler.CreateCause).Methods("POST")
	r.HandleFunc("/api/causes/{causeId}", deps.CauseHandler.GetCause).Methods("GET")
	r.HandleFunc("/api/causes/{causeId}", deps.CauseHandler.UpdateCause).Methods("PATCH")

	// Metrage
	r.HandleFunc("/api/metrage", deps.MetrageHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/metrage", deps.MetrageHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/metrage/daily", deps.MetrageHandler.GetDailySeries).Methods("GET")
	r.HandleFunc("/api/metrage/total", deps.MetrageHandler.GetTotal).Methods("GET")

	// Speed
	r.HandleFunc("/api/speed", deps.SpeedHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/speed", deps.SpeedHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/speed/daily", deps.SpeedHandler.GetDailySeries).Methods("GET")
	r.HandleFunc("/api/speed/summary", deps.SpeedHandler.GetSummary).Methods("GET")

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := deps.DB.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
}
