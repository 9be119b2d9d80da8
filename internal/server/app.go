// Package server wires the GastroHealth API: storage, services, the AI
// advisor and the HTTP server, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/server/advisor"
	"github.com/dmitrijs2005/gastrohealth/internal/server/config"
	"github.com/dmitrijs2005/gastrohealth/internal/server/httpapi"
	"github.com/dmitrijs2005/gastrohealth/internal/server/images"
	"github.com/dmitrijs2005/gastrohealth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gastrohealth/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	symptomService *services.SymptomService
	advisor        *advisor.Advisor
	images         *images.Store
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us, err := services.NewUserService(db, rm, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := images.NewStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image store init error: %w", err)
	}
	if !store.Enabled() {
		logger.Info(ctx, "food image archive disabled, no bucket configured")
	}

	adv := advisor.New(advisor.NewArkFactory(advisor.Settings{
		Model:   c.AIModel,
		BaseURL: c.AIBaseURL,
		Region:  c.AIRegion,
	}), logger.With("module", "advisor"))

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		symptomService: services.NewSymptomService(db, rm),
		advisor:        adv,
		images:         store,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.symptomService, app.advisor, app.images)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
