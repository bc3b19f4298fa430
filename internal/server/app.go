// Package server initializes and runs the back-office API server.
// It wires the database, object storage, field encryption and the HTTP
// layer, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dev-tanvu/mateluxy-backend/internal/cryptox"
	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/blob"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/config"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/httpapi"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/pdf"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	key := cryptox.DeriveKey([]byte(cfg.EncryptionKey), []byte(cfg.EncryptionSalt))
	cipher, err := cryptox.NewAESGCM(key)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	store, err := blob.NewS3Store(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	renderer := pdf.NewRenderer(store.Fetch, logger)

	handlers := &httpapi.Handlers{
		Secrets:    httpapi.NewSecretHandler(services.NewSecretService(db, rm, cipher)),
		AgentCreds: httpapi.NewAgentCredHandler(services.NewAgentCredService(db, rm, cipher)),
		NOCs:       httpapi.NewNOCHandler(services.NewNOCService(db, rm, store, renderer, logger)),
		Watermarks: httpapi.NewWatermarkHandler(services.NewWatermarkService(db, rm, store, logger)),
		Drafts:     httpapi.NewDraftHandler(services.NewDraftService(db, rm)),
		Activity:   httpapi.NewActivityHandler(services.NewActivityService(db, rm)),
		Uploads:    httpapi.NewUploadHandler(services.NewUploadService(store, logger)),
	}

	router := httpapi.NewRouter(handlers, []byte(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              cfg.EndpointAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	return nil
}
