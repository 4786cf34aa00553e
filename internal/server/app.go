// Package server initializes and runs the development API server.
// It opens the SQLite store, wires the services, handles graceful shutdown,
// and starts the HTTP API together with background housekeeping.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/logging"
	"github.com/dmitrijs2005/physiokeeper/internal/server/config"
	"github.com/dmitrijs2005/physiokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/physiokeeper/internal/server/services"
	"github.com/dmitrijs2005/physiokeeper/internal/server/storage"
)

// purgeInterval is how often expired refresh tokens are deleted.
const purgeInterval = time.Hour

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	exerciseService *services.ExerciseService
	reportService   *services.ReportService
	chatService     *services.ChatService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stdout, level)

	db, err := storage.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewSQLiteRepositoryManager()

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		userService:     services.NewUserService(db, m, c),
		exerciseService: services.NewExerciseService(db, m),
		reportService:   services.NewReportService(db, m),
		chatService:     services.NewChatService(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.Addr, app.logger, app.userService, app.exerciseService,
		app.reportService, app.chatService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeExpiredTokens deletes expired refresh tokens until ctx is done.
func (app *App) purgeExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "purge expired tokens", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "purged expired tokens", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeExpiredTokens(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
