package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/gastrohealth/internal/client/client"
	"github.com/dmitrijs2005/gastrohealth/internal/client/config"
	"github.com/dmitrijs2005/gastrohealth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gastrohealth/internal/client/services"
	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
	"github.com/dmitrijs2005/gastrohealth/internal/client/tokenstore"
	"github.com/dmitrijs2005/gastrohealth/internal/client/views"
	"github.com/dmitrijs2005/gastrohealth/internal/filex"
	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

type healthService interface {
	MealPlan(ctx context.Context) (*models.MealPlan, error)
	CheckFood(ctx context.Context, foodName string, image *models.FoodImage) (*models.FoodCheckResult, error)
	AnalyzeTriggers(ctx context.Context) (string, error)
	SuggestRecipe(ctx context.Context, request string) (*models.Recipe, error)
}

type reminderService interface {
	List(ctx context.Context) ([]services.Reminder, error)
	Add(ctx context.Context, at, text string) (*services.Reminder, error)
	Remove(ctx context.Context, id string) error
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	session   *session.Controller
	router    *views.Router
	health    healthService
	reminders reminderService
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp opens local storage and wires the gateway, session controller and
// services together.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	path, err := filex.EnsureParentDir(c.StoragePath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)
	tokens := tokenstore.New(repo)
	gateway := client.NewHTTPClient(c.ServerURL, tokens, client.WithLogger(logger))
	controller := session.NewController(gateway, tokens, logger)
	gateway.SetUnauthorizedHandler(controller.HandleUnauthorized)

	app := newApp(controller, services.NewHealthService(gateway, controller), services.NewReminderService(repo), os.Stdin, os.Stdout)
	app.config = c
	app.logger = logger
	app.db = db
	return app, nil
}

func newApp(ctrl *session.Controller, health healthService, reminders reminderService, in io.Reader, out io.Writer) *App {
	a := &App{
		logger:    logging.NewNopLogger(),
		session:   ctrl,
		router:    views.NewRouter(),
		health:    health,
		reminders: reminders,
		reader:    bufio.NewReader(in),
		out:       out,
	}
	ctrl.Subscribe(a.onSessionEvent)
	return a
}

// Run resolves the stored session and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) state() session.State {
	return a.session.State()
}

// onSessionEvent keeps the router in step with the session. Entering or
// leaving Active starts over from the default screen.
func (a *App) onSessionEvent(ev session.Event) {
	if (ev.From == session.StateActive) != (ev.To == session.StateActive) {
		a.router.Reset()
	}
	if ev.Reason == session.ReasonForcedLogout {
		printlnFn("Your session has expired. Please log in again.")
	}
}
