// Package httpapi exposes the GastroHealth JSON API over chi.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
	"github.com/dmitrijs2005/gastrohealth/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(token string) (string, error)
	Me(ctx context.Context, userID string) (*services.Session, error)
	Profile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) (*models.UserProfile, error)
	SaveAPIKey(ctx context.Context, userID, apiKey string) error
	APIKey(ctx context.Context, userID string) (string, error)
}

type SymptomService interface {
	Add(ctx context.Context, userID string, entry *models.SymptomLog) ([]models.SymptomLog, error)
}

type Advisor interface {
	MealPlan(ctx context.Context, apiKey string, profile *models.UserProfile, symptoms []models.SymptomLog) (*models.MealPlan, error)
	CheckFood(ctx context.Context, apiKey string, profile *models.UserProfile, name string, image *models.FoodImage) (*models.FoodCheckResult, error)
	AnalyzeTriggers(ctx context.Context, apiKey string, profile *models.UserProfile, symptoms []models.SymptomLog) (string, error)
	SuggestRecipe(ctx context.Context, apiKey string, profile *models.UserProfile, request string) (*models.Recipe, error)
}

type ImageStore interface {
	Save(ctx context.Context, userID string, img *models.FoodImage) (string, error)
}

const shutdownTimeout = 10 * time.Second

type Server struct {
	address  string
	users    UserService
	symptoms SymptomService
	advisor  Advisor
	images   ImageStore
	logger   logging.Logger
}

func NewServer(address string, l logging.Logger, us UserService, ss SymptomService, adv Advisor, img ImageStore) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		symptoms: ss,
		advisor:  adv,
		images:   img,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", s.handleRegister)
		api.Post("/login", s.handleLogin)

		api.Group(func(p chi.Router) {
			p.Use(s.requireAuth)

			p.Get("/me", s.handleMe)
			p.Post("/api-key", s.handleAPIKey)
			p.Post("/profile", s.handleProfile)
			p.Post("/symptoms", s.handleSymptom)

			p.Route("/gemini", func(ai chi.Router) {
				ai.Post("/meal-plan", s.handleMealPlan)
				ai.Post("/check-food", s.handleCheckFood)
				ai.Post("/analyze-triggers", s.handleAnalyzeTriggers)
				ai.Post("/suggest-recipe", s.handleSuggestRecipe)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
