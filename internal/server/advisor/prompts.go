package advisor

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

const baseRole = "You are a dietitian who specialises in digestive health. " +
	"Tailor every answer to the user's condition, dietary goal, allergies and disliked foods. " +
	"You are not a doctor; suggest seeing one for severe or persistent symptoms."

const mealPlanPrompt = baseRole + `
Create a 3-day meal plan. Reply with a single JSON object and nothing else:
{"days":[{"day":"Day 1","meals":[{"type":"breakfast","name":"...","description":"..."}]}],"notes":"..."}
Each day has breakfast, lunch, dinner and one snack.`

const checkFoodPrompt = baseRole + `
Judge whether the food is suitable for the user. If a photo is attached, identify the food from it.
Reply with a single JSON object and nothing else:
{"foodName":"...","verdict":"safe|caution|avoid","reason":"...","alternatives":["..."]}`

const triggersPrompt = baseRole + `
Look for patterns between the logged foods and the symptoms that followed.
Name the most likely trigger foods, how confident you are, and what to try next.
Answer in short plain-text paragraphs, no JSON.`

const recipePrompt = baseRole + `
Suggest one recipe for the request. Reply with a single JSON object and nothing else:
{"name":"...","description":"...","ingredients":["..."],"instructions":["..."],"whyItHelps":"..."}`

// describe renders the profile and diary as the user turn of a prompt.
func describe(p *models.UserProfile, symptoms []models.SymptomLog) string {
	var b strings.Builder

	if p == nil {
		b.WriteString("No profile provided.\n")
	} else {
		if p.Name != "" {
			fmt.Fprintf(&b, "Name: %s\n", p.Name)
		}
		if p.Age > 0 {
			fmt.Fprintf(&b, "Age: %d\n", p.Age)
		}
		fmt.Fprintf(&b, "Condition: %s\n", orNone(p.Condition))
		fmt.Fprintf(&b, "Dietary goal: %s\n", orNone(p.DietaryGoal))
		fmt.Fprintf(&b, "Allergies: %s\n", orNone(strings.Join(p.Allergies, ", ")))
		fmt.Fprintf(&b, "Disliked foods: %s\n", orNone(strings.Join(p.DislikedFoods, ", ")))
		if p.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", p.Notes)
		}
	}

	if symptoms != nil {
		if len(symptoms) == 0 {
			b.WriteString("Symptom diary: empty.\n")
		} else {
			b.WriteString("Symptom diary:\n")
		}
		for _, s := range symptoms {
			fmt.Fprintf(&b, "- %s severity %d/%d: %s",
				s.Date.Format("2006-01-02 15:04"), s.Severity, models.MaxSeverity, strings.Join(s.Symptoms, ", "))
			if s.Foods != "" {
				fmt.Fprintf(&b, "; ate: %s", s.Foods)
			}
			if s.Notes != "" {
				fmt.Fprintf(&b, "; notes: %s", s.Notes)
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
