// Package models holds the JSON wire types shared by the GastroHealth client
// and server. Field names follow the public HTTP API.
package models

import "time"

// UserProfile is the onboarding survey result. The session logic only cares
// whether it is present; the AI endpoints consume the individual answers.
type UserProfile struct {
	Name          string   `json:"name,omitempty"`
	Age           int      `json:"age,omitempty"`
	Condition     string   `json:"condition"`
	DietaryGoal   string   `json:"dietaryGoal"`
	Allergies     []string `json:"allergies,omitempty"`
	DislikedFoods []string `json:"dislikedFoods,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// User is the account snapshot returned by /api/login and /api/me.
// Profile is nil until the onboarding survey has been saved.
type User struct {
	Email     string       `json:"email"`
	Profile   *UserProfile `json:"profile"`
	HasAPIKey bool         `json:"hasApiKey"`
}

// Severity bounds for a SymptomLog.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// SymptomLog is a single diary entry.
type SymptomLog struct {
	ID       string    `json:"id,omitempty"`
	Date     time.Time `json:"date"`
	Symptoms []string  `json:"symptoms"`
	Severity int       `json:"severity"`
	Foods    string    `json:"foods,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Meal is one dish of a day plan.
type Meal struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DayPlan groups the meals suggested for one day.
type DayPlan struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

type MealPlan struct {
	Days  []DayPlan `json:"days"`
	Notes string    `json:"notes,omitempty"`
}

// Food check verdicts.
const (
	VerdictSafe    = "safe"
	VerdictCaution = "caution"
	VerdictAvoid   = "avoid"
)

type FoodCheckResult struct {
	FoodName     string   `json:"foodName"`
	Verdict      string   `json:"verdict"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives,omitempty"`
}

type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	WhyItHelps   string   `json:"whyItHelps,omitempty"`
}

// FoodImage is an inline photo, Data is base64 encoded.
type FoodImage struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}
