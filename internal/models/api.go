package models

// Credentials is the body of /api/register and /api/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *User        `json:"user"`
	Symptoms []SymptomLog `json:"symptoms"`
}

type MeResponse struct {
	User     *User        `json:"user"`
	Symptoms []SymptomLog `json:"symptoms"`
}

type APIKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type ProfileRequest struct {
	Profile *UserProfile `json:"profile"`
}

type SymptomRequest struct {
	Symptom *SymptomLog `json:"symptom"`
}

type MealPlanRequest struct {
	Profile  *UserProfile `json:"profile"`
	Symptoms []SymptomLog `json:"symptoms"`
}

type CheckFoodRequest struct {
	Profile   *UserProfile `json:"profile"`
	FoodName  string       `json:"foodName"`
	FoodImage *FoodImage   `json:"foodImage,omitempty"`
}

type AnalyzeTriggersRequest struct {
	Profile  *UserProfile `json:"profile"`
	Symptoms []SymptomLog `json:"symptoms"`
}

type AnalyzeTriggersResponse struct {
	Analysis string `json:"analysis"`
}

type SuggestRecipeRequest struct {
	Profile *UserProfile `json:"profile"`
	Request string       `json:"request"`
}
