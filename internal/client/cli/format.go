package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

func formatMealPlan(p *models.MealPlan) string {
	var b strings.Builder
	for _, d := range p.Days {
		fmt.Fprintf(&b, "%s\n", d.Day)
		for _, m := range d.Meals {
			fmt.Fprintf(&b, "  %-10s %s", m.Type+":", m.Name)
			if m.Description != "" {
				fmt.Fprintf(&b, " - %s", m.Description)
			}
			b.WriteString("\n")
		}
	}
	if p.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", p.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFoodCheck(r *models.FoodCheckResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.FoodName, strings.ToUpper(r.Verdict))
	if r.Reason != "" {
		fmt.Fprintf(&b, "%s\n", r.Reason)
	}
	if len(r.Alternatives) > 0 {
		fmt.Fprintf(&b, "Try instead: %s\n", strings.Join(r.Alternatives, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRecipe(r *models.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("Ingredients:\n")
		for _, i := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s\n", i)
		}
	}
	if len(r.Instructions) > 0 {
		b.WriteString("Steps:\n")
		for n, s := range r.Instructions {
			fmt.Fprintf(&b, "  %d. %s\n", n+1, s)
		}
	}
	if r.WhyItHelps != "" {
		fmt.Fprintf(&b, "Why it helps: %s\n", r.WhyItHelps)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSymptom(s models.SymptomLog) string {
	line := fmt.Sprintf("%s  [%d/%d] %s", s.Date.Local().Format("2006-01-02 15:04"), s.Severity, models.MaxSeverity, strings.Join(s.Symptoms, ", "))
	if s.Foods != "" {
		line += " | ate: " + s.Foods
	}
	if s.Notes != "" {
		line += " | " + s.Notes
	}
	return line
}
