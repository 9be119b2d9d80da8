package services

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

type staticSession struct{ s session.Session }

func (f staticSession) Snapshot() session.Session { return f.s }

type fakeAdvisor struct {
	calls    []string
	profile  *models.UserProfile
	symptoms []models.SymptomLog
	food     string
	image    *models.FoodImage
	request  string
}

func (f *fakeAdvisor) GenerateMealPlan(_ context.Context, p *models.UserProfile, s []models.SymptomLog) (*models.MealPlan, error) {
	f.calls = append(f.calls, "meal-plan")
	f.profile, f.symptoms = p, s
	return &models.MealPlan{Days: []models.DayPlan{{Day: "Monday"}}}, nil
}

func (f *fakeAdvisor) CheckFood(_ context.Context, p *models.UserProfile, name string, img *models.FoodImage) (*models.FoodCheckResult, error) {
	f.calls = append(f.calls, "check-food")
	f.profile, f.food, f.image = p, name, img
	return &models.FoodCheckResult{FoodName: name, Verdict: models.VerdictSafe}, nil
}

func (f *fakeAdvisor) AnalyzeTriggers(_ context.Context, p *models.UserProfile, s []models.SymptomLog) (string, error) {
	f.calls = append(f.calls, "analyze")
	f.profile, f.symptoms = p, s
	return "coffee", nil
}

func (f *fakeAdvisor) SuggestRecipe(_ context.Context, p *models.UserProfile, req string) (*models.Recipe, error) {
	f.calls = append(f.calls, "recipe")
	f.profile, f.request = p, req
	return &models.Recipe{Name: "Rice bowl"}, nil
}

func activeSession(symptoms ...models.SymptomLog) staticSession {
	return staticSession{session.Session{
		State:    session.StateActive,
		Token:    "t",
		User:     &models.User{Email: "a@b.c", Profile: &models.UserProfile{Condition: "GERD"}, HasAPIKey: true},
		Symptoms: symptoms,
	}}
}

func TestHealthService_RequiresActive(t *testing.T) {
	api := &fakeAdvisor{}
	h := NewHealthService(api, staticSession{session.Session{State: session.StateAPIKeyRequired}})
	ctx := context.Background()

	_, err := h.MealPlan(ctx)
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = h.CheckFood(ctx, "rice", nil)
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = h.AnalyzeTriggers(ctx)
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = h.SuggestRecipe(ctx, "soup")
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Empty(t, api.calls)
}

func TestHealthService_MealPlanUsesSession(t *testing.T) {
	api := &fakeAdvisor{}
	sym := models.SymptomLog{ID: "1", Symptoms: []string{"heartburn"}, Severity: 3}
	h := NewHealthService(api, activeSession(sym))

	plan, err := h.MealPlan(context.Background())
	require.NoError(t, err)
	assert.Len(t, plan.Days, 1)
	assert.Equal(t, "GERD", api.profile.Condition)
	assert.Equal(t, []models.SymptomLog{sym}, api.symptoms)
}

func TestHealthService_CheckFoodValidation(t *testing.T) {
	api := &fakeAdvisor{}
	h := NewHealthService(api, activeSession())

	_, err := h.CheckFood(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, session.ErrValidation)
	assert.Empty(t, api.calls)

	img := &models.FoodImage{MimeType: "image/jpeg", Data: "AA=="}
	res, err := h.CheckFood(context.Background(), " onion ", img)
	require.NoError(t, err)
	assert.Equal(t, "onion", res.FoodName)
	assert.Same(t, img, api.image)
}

func TestHealthService_AnalyzeNeedsSymptoms(t *testing.T) {
	api := &fakeAdvisor{}
	h := NewHealthService(api, activeSession())

	_, err := h.AnalyzeTriggers(context.Background())
	assert.ErrorIs(t, err, ErrNoSymptoms)
	assert.ErrorIs(t, err, session.ErrValidation)

	h = NewHealthService(api, activeSession(models.SymptomLog{Symptoms: []string{"gas"}, Severity: 2}))
	got, err := h.AnalyzeTriggers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "coffee", got)
}

func TestHealthService_SuggestRecipe(t *testing.T) {
	api := &fakeAdvisor{}
	h := NewHealthService(api, activeSession())

	_, err := h.SuggestRecipe(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrValidation)

	r, err := h.SuggestRecipe(context.Background(), " low fodmap dinner ")
	require.NoError(t, err)
	assert.Equal(t, "Rice bowl", r.Name)
	assert.Equal(t, "low fodmap dinner", api.request)
}

func TestLoadFoodImage(t *testing.T) {
	dir := t.TempDir()
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	imgPath := filepath.Join(dir, "meal.png")
	require.NoError(t, os.WriteFile(imgPath, png, 0o600))

	img, err := LoadFoodImage(imgPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	decoded, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	assert.Equal(t, png, decoded)

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o600))
	_, err = LoadFoodImage(txtPath)
	assert.ErrorIs(t, err, session.ErrValidation)

	_, err = LoadFoodImage(dir)
	assert.ErrorIs(t, err, session.ErrValidation)

	_, err = LoadFoodImage(filepath.Join(dir, "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
