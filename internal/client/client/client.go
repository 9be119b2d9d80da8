package client

import (
	"context"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// Client is the full set of calls the terminal client makes to the API.
type Client interface {
	Register(ctx context.Context, email, password string) (*models.MessageResponse, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.MeResponse, error)
	SaveAPIKey(ctx context.Context, apiKey string) (*models.MessageResponse, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	AddSymptom(ctx context.Context, symptom *models.SymptomLog) ([]models.SymptomLog, error)

	GenerateMealPlan(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (*models.MealPlan, error)
	CheckFood(ctx context.Context, profile *models.UserProfile, foodName string, image *models.FoodImage) (*models.FoodCheckResult, error)
	AnalyzeTriggers(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (string, error)
	SuggestRecipe(ctx context.Context, profile *models.UserProfile, request string) (*models.Recipe, error)
}

// TokenStore holds the bearer token attached to every request.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
}

// UnauthorizedHandler is called after a 401/403 response cleared the token.
type UnauthorizedHandler func(ctx context.Context, err error)
