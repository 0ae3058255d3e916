package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/backlogbingo/internal/api/handler"
	"github.com/mcoot/backlogbingo/internal/api/middleware"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/metrics"
	sharedmw "github.com/mcoot/backlogbingo/internal/middleware"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/profile"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	ProfileService *profile.Service
	RulesService   *rules.Service
	SourceService  *source.Service
	CardService    *card.Service

	// Metrics, when set, records request durations and serves /metrics
	Metrics *metrics.Metrics

	// CompressMinSize enables gzip for responses of at least this many
	// bytes. Zero disables compression.
	CompressMinSize int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	profileHandler := handler.NewProfileHandler(cfg.ProfileService, cfg.RulesService)
	rulesHandler := handler.NewRulesHandler(cfg.RulesService)
	sourceHandler := handler.NewSourceHandler(cfg.SourceService)
	cardHandler := handler.NewCardHandler(cfg.CardService)

	// Create middleware
	profileMiddleware := middleware.RequireProfile(cfg.ProfileService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		api.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CompressMinSize > 0 {
		compress, err := sharedmw.Compress(cfg.CompressMinSize)
		if err != nil {
			cfg.Logger.Warn("response compression disabled", slog.String("error", err.Error()))
		} else {
			api.Use(compress)
		}
	}

	// Unauthenticated routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/profiles", profileHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/cards/preview", cardHandler.Preview).Methods(http.MethodPost)

	// Everything else acts on the caller's profile
	owned := api.NewRoute().Subrouter()
	owned.Use(profileMiddleware)

	owned.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet)
	owned.HandleFunc("/profile", profileHandler.Delete).Methods(http.MethodDelete)

	owned.HandleFunc("/rules", rulesHandler.Get).Methods(http.MethodGet)
	owned.HandleFunc("/rules", rulesHandler.Patch).Methods(http.MethodPatch)
	owned.HandleFunc("/rules/reset", rulesHandler.Reset).Methods(http.MethodPost)

	owned.HandleFunc("/source", sourceHandler.Upload).Methods(http.MethodPut)
	owned.HandleFunc("/source", sourceHandler.Get).Methods(http.MethodGet)
	owned.HandleFunc("/source", sourceHandler.Delete).Methods(http.MethodDelete)
	owned.HandleFunc("/source/fetch", sourceHandler.Fetch).Methods(http.MethodPost)

	owned.HandleFunc("/card", cardHandler.Generate).Methods(http.MethodPost)
	owned.HandleFunc("/card", cardHandler.Get).Methods(http.MethodGet)
	owned.HandleFunc("/card", cardHandler.Clear).Methods(http.MethodDelete)
	owned.HandleFunc("/card/entries/{index:[0-9]+}", cardHandler.SetEntry).Methods(http.MethodPut)
	owned.HandleFunc("/card/export", cardHandler.Export).Methods(http.MethodGet)
	owned.HandleFunc("/card/import", cardHandler.Import).Methods(http.MethodPost)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
