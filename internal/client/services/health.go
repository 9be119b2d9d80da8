package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// maxImageSize bounds photos sent to check-food.
const maxImageSize = 4 << 20

var (
	ErrNotActive  = errors.New("available only with an active session")
	ErrNoSymptoms = fmt.Errorf("%w: log at least one symptom first", session.ErrValidation)
)

// AdvisorAPI is the AI proxy part of the gateway.
type AdvisorAPI interface {
	GenerateMealPlan(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (*models.MealPlan, error)
	CheckFood(ctx context.Context, profile *models.UserProfile, foodName string, image *models.FoodImage) (*models.FoodCheckResult, error)
	AnalyzeTriggers(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (string, error)
	SuggestRecipe(ctx context.Context, profile *models.UserProfile, request string) (*models.Recipe, error)
}

type SessionReader interface {
	Snapshot() session.Session
}

// HealthService backs the meal plan, food checker, health report and recipe
// screens. Profile and symptoms always come from the current session.
type HealthService struct {
	api      AdvisorAPI
	sessions SessionReader
}

func NewHealthService(api AdvisorAPI, sessions SessionReader) *HealthService {
	return &HealthService{api: api, sessions: sessions}
}

func (h *HealthService) active() (session.Session, error) {
	snap := h.sessions.Snapshot()
	if snap.State != session.StateActive || snap.User == nil {
		return snap, ErrNotActive
	}
	return snap, nil
}

func (h *HealthService) MealPlan(ctx context.Context) (*models.MealPlan, error) {
	snap, err := h.active()
	if err != nil {
		return nil, err
	}
	return h.api.GenerateMealPlan(ctx, snap.User.Profile, snap.Symptoms)
}

// CheckFood asks whether foodName suits the user. image is optional.
func (h *HealthService) CheckFood(ctx context.Context, foodName string, image *models.FoodImage) (*models.FoodCheckResult, error) {
	snap, err := h.active()
	if err != nil {
		return nil, err
	}
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return nil, fmt.Errorf("%w: food name is required", session.ErrValidation)
	}
	return h.api.CheckFood(ctx, snap.User.Profile, foodName, image)
}

func (h *HealthService) AnalyzeTriggers(ctx context.Context) (string, error) {
	snap, err := h.active()
	if err != nil {
		return "", err
	}
	if len(snap.Symptoms) == 0 {
		return "", ErrNoSymptoms
	}
	return h.api.AnalyzeTriggers(ctx, snap.User.Profile, snap.Symptoms)
}

func (h *HealthService) SuggestRecipe(ctx context.Context, request string) (*models.Recipe, error) {
	snap, err := h.active()
	if err != nil {
		return nil, err
	}
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, fmt.Errorf("%w: describe the recipe you want", session.ErrValidation)
	}
	return h.api.SuggestRecipe(ctx, snap.User.Profile, request)
}

// LoadFoodImage reads a photo from disk and encodes it for check-food.
func LoadFoodImage(path string) (*models.FoodImage, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", session.ErrValidation, path)
	}
	if st.Size() > maxImageSize {
		return nil, fmt.Errorf("%w: image larger than %d bytes", session.ErrValidation, maxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: %s is not an image (%s)", session.ErrValidation, path, mime)
	}

	return &models.FoodImage{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}
