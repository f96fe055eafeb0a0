package app

import (
	"database/sql"

	"github.com/lineboard/lineboard/internal/config"
	"github.com/lineboard/lineboard/internal/utils"
	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/metrage"
	"github.com/lineboard/lineboard/pkg/speed"
	"github.com/lineboard/lineboard/pkg/stats"
	"github.com/lineboard/lineboard/pkg/stop"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CauseRepo    cause.CauseRepo
	CauseService cause.Service
	CauseHandler *cause.Handler

	StopRepo    stop.StopRepo
	StopService stop.Service
	StopHandler *stop.Handler

	StatsService     stats.StatsService
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	MetrageRepo    metrage.MetrageRepo
	MetrageService metrage.Service
	MetrageHandler *metrage.Handler

	SpeedRepo    speed.SpeedRepo
	SpeedService speed.Service
	SpeedHandler *speed.Handler

	DB    *sql.DB
	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.DB = db
	deps.Clock = &utils.SystemClock{}

	deps.CauseRepo = cause.NewCauseRepo(db)
	deps.CauseService = cause.NewCauseService(deps.CauseRepo)
	deps.CauseHandler = cause.NewHandler(deps.CauseService)

	deps.StopRepo = stop.NewStopRepo(db)
	deps.StopService = stop.NewStopService(deps.StopRepo)
	deps.StopHandler = stop.NewHandler(deps.StopService)

	deps.StatsService = stats.NewStatsService(deps.StopRepo, deps.Clock, cfg.Stops.MicroStopThresholdSeconds)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	deps.MetrageRepo = metrage.NewMetrageRepo(db)
	deps.MetrageService = metrage.NewMetrageService(deps.MetrageRepo, deps.Clock)
	deps.MetrageHandler = metrage.NewHandler(deps.MetrageService)

	deps.SpeedRepo = speed.NewSpeedRepo(db)
	deps.SpeedService = speed.NewSpeedService(deps.SpeedRepo, deps.Clock)
	deps.SpeedHandler = speed.NewHandler(deps.SpeedService)

	return deps
}
