package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  logging.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *HTTPClient) { c.onUnauthorized = h }
}

// NewHTTPClient builds a gateway rooted at baseURL, e.g. "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetUnauthorizedHandler replaces the handler fired on 401/403.
func (c *HTTPClient) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

func (c *HTTPClient) unauthorizedHandler() UnauthorizedHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	in := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/register", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	in := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.MeResponse, error) {
	var out models.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SaveAPIKey(ctx context.Context, apiKey string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	in := models.APIKeyRequest{APIKey: apiKey}
	if err := c.do(ctx, http.MethodPost, "/api/api-key", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SaveProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	var out models.UserProfile
	in := models.ProfileRequest{Profile: profile}
	if err := c.do(ctx, http.MethodPost, "/api/profile", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddSymptom(ctx context.Context, symptom *models.SymptomLog) ([]models.SymptomLog, error) {
	var out []models.SymptomLog
	in := models.SymptomRequest{Symptom: symptom}
	if err := c.do(ctx, http.MethodPost, "/api/symptoms", &in, &out); err != nil {
		return nil, err
	}
	return models.CloneSymptoms(out), nil
}

func (c *HTTPClient) GenerateMealPlan(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (*models.MealPlan, error) {
	var out models.MealPlan
	in := models.MealPlanRequest{Profile: profile, Symptoms: symptoms}
	if err := c.do(ctx, http.MethodPost, "/api/gemini/meal-plan", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CheckFood(ctx context.Context, profile *models.UserProfile, foodName string, image *models.FoodImage) (*models.FoodCheckResult, error) {
	var out models.FoodCheckResult
	in := models.CheckFoodRequest{Profile: profile, FoodName: foodName, FoodImage: image}
	if err := c.do(ctx, http.MethodPost, "/api/gemini/check-food", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AnalyzeTriggers(ctx context.Context, profile *models.UserProfile, symptoms []models.SymptomLog) (string, error) {
	var out models.AnalyzeTriggersResponse
	in := models.AnalyzeTriggersRequest{Profile: profile, Symptoms: symptoms}
	if err := c.do(ctx, http.MethodPost, "/api/gemini/analyze-triggers", &in, &out); err != nil {
		return "", err
	}
	return out.Analysis, nil
}

func (c *HTTPClient) SuggestRecipe(ctx context.Context, profile *models.UserProfile, request string) (*models.Recipe, error) {
	var out models.Recipe
	in := models.SuggestRecipeRequest{Profile: profile, Request: request}
	if err := c.do(ctx, http.MethodPost, "/api/gemini/suggest-recipe", &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do is the single path every call takes. in may be nil (no body), out may
// be nil (body ignored).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", common.ContentTypeJSON)

	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return unavailable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable(err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return c.handleUnauthorized(ctx, resp.StatusCode, data)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) handleUnauthorized(ctx context.Context, status int, data []byte) error {
	authErr := &AuthError{Status: status, Message: errorMessage(status, data)}

	if err := c.tokens.Set(ctx, ""); err != nil {
		c.logger.Warn(ctx, "failed to clear token", "error", err)
	}

	if h := c.unauthorizedHandler(); h != nil {
		h(ctx, authErr)
	}
	return authErr
}

func errorMessage(status int, data []byte) string {
	var e struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return msgUnknownServerError
	}
	if e.Error == nil || *e.Error == "" {
		return fmt.Sprintf(msgHTTPErrorFormat, status)
	}
	return *e.Error
}
