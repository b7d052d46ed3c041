package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-optimizer/internal/analysis"
	googleauth "resume-optimizer/internal/auth"
	"resume-optimizer/internal/catalog"
	"resume-optimizer/internal/events"
	"resume-optimizer/internal/extract"
	"resume-optimizer/internal/health"
	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/llm/gemini"
	"resume-optimizer/internal/llm/openai"
	"resume-optimizer/internal/payments"
	"resume-optimizer/internal/resumes"
	"resume-optimizer/internal/shared/config"
	"resume-optimizer/internal/shared/server"
	"resume-optimizer/internal/shared/storage/db"
	"resume-optimizer/internal/shared/storage/object"
	localstore "resume-optimizer/internal/shared/storage/object/local"
	s3store "resume-optimizer/internal/shared/storage/object/s3"
	"resume-optimizer/internal/shared/telemetry"
	"resume-optimizer/internal/stats"
	"resume-optimizer/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	LLM       llm.Client
	Events    events.Publisher
	Catalog   *catalog.Catalog
	Analyzer  *analysis.Analyzer
	Optimizer *analysis.Optimizer

	ResumesRepo  resumes.Repo
	StatsStore   stats.Store
	UsersRepo    users.Repo
	PaymentsRepo payments.Recorder

	ResumesService *resumes.Service
	UsersService   *users.Service
	Health         *health.Service

	ResumeHandler  *resumes.Handler
	StatsHandler   *stats.Handler
	CatalogHandler *catalog.Handler
	UsersHandler   *users.Handler
	PaymentHandler *payments.Handler
	GoogleAuth     *googleauth.GoogleService

	closers []func() error
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg, Catalog: catalog.Default()}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
	}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, app.fail(err)
	}
	if app.LLM, err = buildLLM(ctx, cfg); err != nil {
		return nil, app.fail(err)
	}
	eventsName, err := app.buildEvents(ctx, cfg)
	if err != nil {
		return nil, app.fail(err)
	}

	app.buildServices()

	app.Health = &health.Service{
		LLMProvider: cfg.LLMProvider,
		ObjectStore: cfg.ObjectStoreType,
		Events:      eventsName,
	}
	if app.DB != nil {
		app.Health.DB = app.DB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Health:         app.Health,
		ResumeHandler:  app.ResumeHandler,
		StatsHandler:   app.StatsHandler,
		CatalogHandler: app.CatalogHandler,
		UserHandler:    app.UsersHandler,
		PaymentHandler: app.PaymentHandler,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

// Close releases the database pool and the event broker connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) fail(err error) error {
	if cerr := a.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM picks the provider client. Outside production a missing key
// degrades to the placeholder, which routes every analysis to the heuristic.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil
	case "gemini":
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		var opts []openai.Option
		if strings.TrimSpace(cfg.OpenAIBaseURL) != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, opts...)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": cfg.LLMProvider, "error": err})
			return llm.PlaceholderClient{}, nil
		}
		return nil, err
	}
	return client, nil
}

// buildEvents prefers AMQP, then SQS. Outside production a broker that
// cannot be reached disables publishing instead of failing startup.
func (a *App) buildEvents(ctx context.Context, cfg config.Config) (string, error) {
	a.Events = events.NopPublisher{}
	switch {
	case strings.TrimSpace(cfg.AMQPURL) != "":
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return a.eventsUnavailable(cfg, "amqp", err)
		}
		a.Events = pub
		a.closers = append(a.closers, pub.Close)
		return "amqp", nil
	case strings.TrimSpace(cfg.EventsSQSQueueURL) != "":
		pub, err := events.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.EventsSQSQueueURL)
		if err != nil {
			return a.eventsUnavailable(cfg, "sqs", err)
		}
		a.Events = pub
		return "sqs", nil
	default:
		return "disabled", nil
	}
}

func (a *App) eventsUnavailable(cfg config.Config, backend string, err error) (string, error) {
	if !cfg.IsDevLike() {
		return "", err
	}
	telemetry.Warn("bootstrap.events_disabled", map[string]any{"backend": backend, "error": err})
	return "disabled", nil
}

func (a *App) buildServices() {
	cfg := a.Config

	if a.DB != nil {
		a.ResumesRepo = &resumes.PGRepo{DB: a.DB}
		a.StatsStore = stats.NewPGStore(a.DB)
		a.UsersRepo = &users.PGRepo{DB: a.DB}
		a.PaymentsRepo = &payments.PGRecorder{DB: a.DB}
	} else {
		a.ResumesRepo = resumes.NewMemoryRepo()
		a.StatsStore = stats.NewMemoryStore()
		a.UsersRepo = users.NewMemoryRepo()
		a.PaymentsRepo = payments.NewMemoryRecorder()
	}

	opts := []analysis.Option{
		analysis.WithExtractor(extract.New()),
		analysis.WithCatalog(a.Catalog),
		analysis.WithTimeout(cfg.AnalysisTimeout),
	}
	if cfg.HeuristicSeed > 0 {
		opts = append(opts, analysis.WithRand(analysis.NewSeededRand(cfg.HeuristicSeed)))
	}
	a.Analyzer = analysis.NewAnalyzer(a.LLM, opts...)
	a.Optimizer = analysis.NewOptimizer(a.LLM, cfg.AnalysisTimeout)

	a.ResumesService = &resumes.Service{
		Store:          a.Store,
		Repo:           a.ResumesRepo,
		Analyzer:       a.Analyzer,
		Optimizer:      a.Optimizer,
		Stats:          a.StatsStore,
		Events:         a.Events,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	a.UsersService = users.NewService(a.UsersRepo)

	a.ResumeHandler = resumes.NewHandler(a.ResumesService)
	a.StatsHandler = stats.NewHandler(a.StatsStore)
	a.CatalogHandler = catalog.NewHandler(a.Catalog)
	a.UsersHandler = users.NewHandler(a.UsersService)
	a.PaymentHandler = payments.NewHandler(a.PaymentsRepo)
	a.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		a.UsersService,
	)
}
