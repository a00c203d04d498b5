package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/edu-api/internal/config"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/gemini"
	"github.com/phrazzld/edu-api/internal/platform/memstore"
	"github.com/phrazzld/edu-api/internal/service"
	"github.com/phrazzld/edu-api/internal/service/auth"
	"github.com/phrazzld/edu-api/internal/service/grading"
	"github.com/phrazzld/edu-api/internal/task"
)

// remote is the optional model-backed generator.
type remote interface {
	generation.RemoteGenerator
	generation.RemoteExplainer
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	batches   *memstore.BatchStore
	taskStore *task.MemoryTaskStore

	jwtService         auth.JWTService
	problemService     service.ProblemService
	explanationService service.ExplanationService
	checker            *grading.Checker

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized and the task runner started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	return newApplicationWithRemote(ctx, cfg, logger, nil)
}

// newApplicationWithRemote is newApplication with an injectable remote
// generator. A nil remote is built from cfg.LLM.
func newApplicationWithRemote(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	rem remote,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		batches:   memstore.NewBatchStore(logger),
		taskStore: task.NewMemoryTaskStore(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	if rem == nil {
		rem, err = newRemote(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
	}

	basic := generation.NewBasicGenerator(nil, logger)
	catalog, err := generation.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load word problem catalog: %w", err)
	}
	words, err := generation.NewWordGenerator(
		catalog, basic, generation.NewDedupWindow(cfg.Generation.DedupWindow), nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create word generator: %w", err)
	}
	wordSource := generation.NewFallbackWordSource(rem, words, logger)

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	factory := task.NewBatchCompletionTaskFactory(app.batches, wordSource, basic, logger)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(factory, app.taskRunner, logger))

	app.problemService, err = service.NewProblemService(
		app.batches,
		basic,
		words,
		app.eventEmitter,
		factory,
		service.ProblemServiceConfig{
			MaxCount:  cfg.Generation.MaxCount,
			AgePolicy: domain.AgePolicy(cfg.Generation.AgePolicy),
		},
		logger,
	)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create problem service: %w", err)
	}

	app.explanationService = service.NewExplanationService(rem, logger)
	app.checker = grading.NewChecker(app.batches, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// newRemote builds the Gemini generator, or the disabled remote when no API
// key is configured.
func newRemote(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (remote, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Info("no Gemini API key configured, serving locally generated problems only")
		return generation.DisabledRemote{}, nil
	}

	g, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully", "model", cfg.ModelName)
	return g, nil
}

// Run starts the HTTP server and blocks until ctx is done or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	app.logger.Info("application shutdown completed")
}
