package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/tombench/internal/api/handlers"
	mw "github.com/Harshitk-cp/tombench/internal/api/middleware"
	"github.com/Harshitk-cp/tombench/internal/buildconfig"
	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/llm"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/Harshitk-cp/tombench/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	DB          Pinger
	Tenants     domain.TenantStore
	Batches     domain.BatchStore
	Stories     domain.StoryStore
	QASets      domain.QASetStore
	Evaluations domain.EvaluationStore
	// Answerer may be nil; evaluation endpoints then answer 503.
	Answerer domain.Answerer
	World    domain.WorldDefinition

	RateLimitRPS    float64
	RateLimitBurst  int
	EvalConcurrency int
	EvalRPS         float64
}

// App holds the router and the pieces main needs for lifecycle management.
type App struct {
	Router      *chi.Mux
	RateLimiter *mw.RateLimiter
	metrics     *mw.Metrics
	startTime   time.Time
}

// NewApp wires Postgres stores, the configured model and the world catalog.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	provider := config.LLMProvider()
	answerer, err := llm.NewClient(provider, config.LLMAPIKey(), config.LLMModel())
	if err != nil {
		logger.Warn("LLM client initialization failed, evaluations disabled",
			zap.String("provider", provider), zap.Error(err))
		answerer = nil
	} else {
		logger.Info("LLM client initialized",
			zap.String("provider", provider), zap.String("model", answerer.Model()))
	}

	world, err := filestore.LoadWorld(config.WorldPath(), logger)
	if err != nil {
		logger.Warn("world catalog invalid, using synthetic identifiers",
			zap.String("path", config.WorldPath()), zap.Error(err))
		world = domain.SyntheticWorld(filestore.SyntheticWorldSize)
	}

	return NewAppWithDeps(Deps{
		DB:              db,
		Tenants:         store.NewTenantStore(db),
		Batches:         store.NewBatchStore(db),
		Stories:         store.NewStoryStore(db),
		QASets:          store.NewQASetStore(db),
		Evaluations:     store.NewEvaluationStore(db),
		Answerer:        answerer,
		World:           world,
		RateLimitRPS:    config.RateLimitRPS(),
		RateLimitBurst:  config.RateLimitBurst(),
		EvalConcurrency: config.EvalConcurrency(),
		EvalRPS:         config.EvalRPS(),
	}, logger)
}

func NewAppWithDeps(d Deps, logger *zap.Logger) *App {
	generatorSvc := service.NewGeneratorService(logger)
	qaSvc := service.NewQAService(logger)
	evaluationSvc := service.NewEvaluationService(d.Answerer, d.EvalConcurrency, d.EvalRPS, logger)
	analysisSvc := service.NewAnalysisService(logger)

	tenantHandler := handlers.NewTenantHandler(d.Tenants)
	storyHandler := handlers.NewStoryHandler(d.Stories, generatorSvc, d.World)
	qaHandler := handlers.NewQAHandler(d.Stories, d.QASets, qaSvc)
	batchHandler := handlers.NewBatchHandler(d.Batches, d.Stories, d.QASets, generatorSvc, qaSvc, d.World, logger)
	evaluationHandler := handlers.NewEvaluationHandler(d.Batches, d.QASets, d.Evaluations, evaluationSvc)
	analysisHandler := handlers.NewAnalysisHandler(d.Batches, d.Stories, d.Evaluations, analysisSvc)

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		RateLimiter: mw.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst),
		metrics:     &mw.Metrics{},
		startTime:   time.Now(),
	}

	// Order matters: request IDs and metrics wrap everything below them.
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiter.Middleware)

	r.Get("/health", healthHandler(d.DB))
	r.Get("/metrics", app.metricsHandler())

	// Bootstrap endpoint, no auth.
	r.Post("/v1/tenants", tenantHandler.Create)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(d.Tenants))

		r.Route("/stories", func(r chi.Router) {
			r.Post("/", storyHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", storyHandler.GetByID)
				r.Post("/qa", qaHandler.Build)
				r.Get("/qa", qaHandler.Get)
			})
		})

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", batchHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", batchHandler.GetByID)
				r.Get("/stories", batchHandler.ListStories)
				r.Post("/evaluations", evaluationHandler.Run)
				r.Get("/evaluations/summary", evaluationHandler.Summary)
				r.Get("/patterns", analysisHandler.Patterns)
			})
		})
	})

	return app
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		snap := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  snap.Requests,
			"error_count":    snap.Errors,
			"in_flight":      snap.InFlight,
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.Current(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

var (
	_ domain.TenantStore     = (*store.TenantStore)(nil)
	_ domain.BatchStore      = (*store.BatchStore)(nil)
	_ domain.StoryStore      = (*store.StoryStore)(nil)
	_ domain.QASetStore      = (*store.QASetStore)(nil)
	_ domain.EvaluationStore = (*store.EvaluationStore)(nil)
	_ domain.Answerer        = (*llm.OpenAIClient)(nil)
	_ domain.Answerer        = (*llm.AnthropicClient)(nil)
	_ domain.Answerer        = (*llm.GeminiClient)(nil)
	_ domain.Answerer        = (*llm.CerebrasClient)(nil)
	_ domain.Answerer        = (*llm.MockClient)(nil)
)
