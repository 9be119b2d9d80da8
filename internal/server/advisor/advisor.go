// Package advisor runs the AI requests of the API through an eino chain built
// per call with the caller's own model key.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

var (
	// ErrMalformedResponse is returned when the model output holds no usable JSON object.
	ErrMalformedResponse = errors.New("malformed model response")
	ErrEmptyResponse     = errors.New("empty model response")
)

// ModelFactory builds a chat model authenticated with apiKey.
type ModelFactory func(ctx context.Context, apiKey string) (model.BaseChatModel, error)

// Settings selects the Ark endpoint and model used by NewArkFactory.
type Settings struct {
	Model   string
	BaseURL string
	Region  string
}

func NewArkFactory(s Settings) ModelFactory {
	return func(ctx context.Context, apiKey string) (model.BaseChatModel, error) {
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:  apiKey,
			Model:   s.Model,
			BaseURL: s.BaseURL,
			Region:  s.Region,
		})
	}
}

type Advisor struct {
	newModel ModelFactory
	logger   logging.Logger
}

func New(factory ModelFactory, logger logging.Logger) *Advisor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Advisor{newModel: factory, logger: logger}
}

func (a *Advisor) MealPlan(ctx context.Context, apiKey string, profile *models.UserProfile, symptoms []models.SymptomLog) (*models.MealPlan, error) {
	out, err := a.run(ctx, apiKey, mealPlanPrompt, schema.UserMessage(describe(profile, symptoms)))
	if err != nil {
		return nil, err
	}

	var plan models.MealPlan
	if err := extractJSON(out, &plan); err != nil {
		return nil, err
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("%w: no days in meal plan", ErrMalformedResponse)
	}
	return &plan, nil
}

// CheckFood rates a food for the user. When image is set the photo is sent to
// the model along with the name.
func (a *Advisor) CheckFood(ctx context.Context, apiKey string, profile *models.UserProfile, name string, image *models.FoodImage) (*models.FoodCheckResult, error) {
	text := describe(profile, nil) + "\nFood to check: " + name
	msg := schema.UserMessage(text)
	if image != nil {
		msg = &schema.Message{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{Type: schema.ChatMessagePartTypeText, Text: text},
				{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL:      "data:" + image.MimeType + ";base64," + image.Data,
						MIMEType: image.MimeType,
					},
				},
			},
		}
	}

	out, err := a.run(ctx, apiKey, checkFoodPrompt, msg)
	if err != nil {
		return nil, err
	}

	var res models.FoodCheckResult
	if err := extractJSON(out, &res); err != nil {
		return nil, err
	}
	if res.FoodName == "" {
		res.FoodName = name
	}
	res.Verdict = normalizeVerdict(res.Verdict)
	return &res, nil
}

// AnalyzeTriggers returns the model's free-text analysis of the diary.
func (a *Advisor) AnalyzeTriggers(ctx context.Context, apiKey string, profile *models.UserProfile, symptoms []models.SymptomLog) (string, error) {
	out, err := a.run(ctx, apiKey, triggersPrompt, schema.UserMessage(describe(profile, symptoms)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (a *Advisor) SuggestRecipe(ctx context.Context, apiKey string, profile *models.UserProfile, request string) (*models.Recipe, error) {
	text := describe(profile, nil) + "\nRecipe request: " + request
	out, err := a.run(ctx, apiKey, recipePrompt, schema.UserMessage(text))
	if err != nil {
		return nil, err
	}

	var r models.Recipe
	if err := extractJSON(out, &r); err != nil {
		return nil, err
	}
	if r.Name == "" {
		return nil, fmt.Errorf("%w: recipe has no name", ErrMalformedResponse)
	}
	return &r, nil
}

func (a *Advisor) run(ctx context.Context, apiKey, system string, input *schema.Message) (string, error) {
	chatModel, err := a.newModel(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to create chat model: %w", err)
	}

	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("input", false),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to compile chat chain: %w", err)
	}

	resp, err := runnable.Invoke(ctx, map[string]any{
		"system": system,
		"input":  []*schema.Message{input},
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}

	a.logger.Debug(ctx, "model responded", "length", len(resp.Content))
	return resp.Content, nil
}

// extractJSON decodes the text between the first '{' and the last '}' of s,
// which drops code fences and chatter around the object.
func extractJSON(s string, v any) error {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func normalizeVerdict(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case models.VerdictSafe, models.VerdictCaution, models.VerdictAvoid:
		return v
	default:
		return models.VerdictCaution
	}
}
