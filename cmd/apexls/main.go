package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/forcedotcom/apexls-core/internal/config"
	"github.com/forcedotcom/apexls-core/internal/debugserver"
	"github.com/forcedotcom/apexls-core/internal/docsource"
	"github.com/forcedotcom/apexls-core/internal/docstate"
	"github.com/forcedotcom/apexls-core/internal/graphmirror"
	"github.com/forcedotcom/apexls-core/internal/orchestrator"
	"github.com/forcedotcom/apexls-core/internal/scheduler"
	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/internal/validator"
	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graph := symbolgraph.New()

	// Document state cache
	backend := docstate.NewMemoryBackend()
	if cfg.Valkey.Enabled() {
		vkClient, err := docstate.NewValkeyClient(cfg.Valkey)
		if err != nil {
			logger.Warn("valkey unavailable, document state cache runs in-process only", slog.String("error", err.Error()))
		} else {
			backend = docstate.NewValkeyBackend(vkClient)
			logger.Info("document state cache backed by valkey", slog.String("addr", cfg.Valkey.Addr))
		}
	}
	cache := docstate.New(backend)

	// Neo4j durable mirror (optional; never on the read path)
	var mirror *graphmirror.Client
	if cfg.Neo4j.Enabled() {
		mirror, err = graphmirror.NewClient(cfg.Neo4j)
		if err != nil {
			logger.Warn("neo4j mirror unavailable, graph runs in-memory only", slog.String("error", err.Error()))
			mirror = nil
		} else if err := mirror.Verify(ctx); err != nil {
			logger.Warn("neo4j connectivity check failed, graph runs in-memory only", slog.String("error", err.Error()))
			mirror = nil
		} else if err := mirror.EnsureConstraints(ctx); err != nil {
			logger.Warn("neo4j constraint setup failed", slog.String("error", err.Error()))
		} else {
			logger.Info("connected to neo4j mirror")
		}
	}

	registry := validator.NewRegistry()
	registry.Register(validator.NewConflictingModifiersValidator())
	registry.Register(validator.NewDuplicateMethodValidator())
	registry.Register(validator.NewUnresolvedTypeValidator())
	registry.Register(validator.NewCircularDependencyValidator())

	docs := docsource.NewStore()
	exec := scheduler.NewExecutor()
	defer exec.Close()

	orch := orchestrator.New(docs, cache, graph, registry, unconfiguredParse, exec)
	orch.SuppressedURIPrefixes = []string{"apexlib://"}
	orch.CachePollInterval = cfg.Indexer.CachePollInterval
	orch.CachePollAttempts = cfg.Indexer.CachePollAttempts
	orch.HighImpactThreshold = cfg.Indexer.HighImpactThreshold
	orch.EnableReferenceCorrection = cfg.Indexer.EnableReferenceCorrection
	orch.Log = slogWarner{logger}
	_ = orch // wired for the LSP transport layer, supplied by the embedder

	var wg sync.WaitGroup

	if mirror != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runMirrorSyncLoop(ctx, logger, mirror, graph, cfg.Indexer.DiagnosticDebounce)
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      debugserver.NewRouter(logger, graph),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("debug server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server stopped", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("debug server shutdown error", slog.String("error", err.Error()))
	}

	wg.Wait()
	logger.Info("apexls stopped")
}

// unconfiguredParse is the default Parse: the real Apex grammar binding is
// an external dependency of this core (spec §6), supplied by whichever
// binary embeds this module alongside an LSP transport. A standalone
// `go run ./cmd/apexls` exercises the debug server and the mirror sync
// loop without it.
func unconfiguredParse(src []byte, fileURI string) (walker.ParseTree, []models.Diagnostic, error) {
	return nil, nil, errors.New("apexls: no parser configured; inject one via Orchestrator.Parse")
}

func runMirrorSyncLoop(ctx context.Context, logger *slog.Logger, mirror *graphmirror.Client, graph *symbolgraph.Graph, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := mirror.Sync(ctx, graph); err != nil {
				logger.Warn("neo4j sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

type slogWarner struct{ logger *slog.Logger }

func (s slogWarner) Warn(msg string, args ...any) { s.logger.Warn(msg, args...) }
