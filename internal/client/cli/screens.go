package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/client/services"
	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
	"github.com/dmitrijs2005/gastrohealth/internal/client/views"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// Menu toggles the navigation drawer and lists the screens when it opens.
func (a *App) Menu() {
	if a.state() != session.StateActive {
		printlnFn("The menu is available once your profile and API key are set up.")
		return
	}
	if !a.router.ToggleDrawer() {
		return
	}
	current, _ := a.router.Current(a.state())
	for _, v := range views.All() {
		marker := " "
		if v == current {
			marker = "*"
		}
		printlnFn(fmt.Sprintf(" %s %-10s %s", marker, v.Name(), v))
	}
}

// Open navigates to the named view and renders it.
func (a *App) Open(ctx context.Context, name string) error {
	v, err := views.ParseView(name)
	if err != nil {
		return err
	}
	if err := a.router.Navigate(a.state(), v); err != nil {
		return err
	}
	return a.render(ctx, v)
}

// Show renders the current screen for the session state.
func (a *App) Show(ctx context.Context) error {
	v, ok := a.router.Current(a.state())
	if !ok {
		printlnFn(helpByState[a.state()])
		return nil
	}
	return a.render(ctx, v)
}

func (a *App) render(ctx context.Context, v views.View) error {
	printlnFn(fmt.Sprintf("== %s ==", v))

	switch v {
	case views.MealPlan:
		return a.mealPlanScreen(ctx)
	case views.FoodChecker:
		return a.foodCheckerScreen(ctx)
	case views.SymptomLogger:
		a.symptomScreen()
		return nil
	case views.HealthReport:
		return a.healthReportScreen(ctx)
	case views.RecipeLibrary:
		return a.recipeScreen(ctx)
	case views.Reminders:
		return a.remindersScreen(ctx)
	default:
		return views.ErrUnknownView
	}
}

func (a *App) mealPlanScreen(ctx context.Context) error {
	printlnFn("Generating a meal plan...")
	plan, err := a.health.MealPlan(ctx)
	if err != nil {
		return err
	}
	printlnFn(formatMealPlan(plan))
	return nil
}

func (a *App) foodCheckerScreen(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Which food should I check?", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Photo path (optional, Enter to skip)", a.out)
	if err != nil {
		return err
	}

	var image *models.FoodImage
	if path != "" {
		if image, err = services.LoadFoodImage(path); err != nil {
			return err
		}
	}

	res, err := a.health.CheckFood(ctx, name, image)
	if err != nil {
		return err
	}
	printlnFn(formatFoodCheck(res))
	return nil
}

func (a *App) symptomScreen() {
	list := a.session.Snapshot().Symptoms
	if len(list) == 0 {
		printlnFn("No symptoms logged yet. Type 'log' to add one.")
		return
	}
	for _, s := range list {
		printlnFn(formatSymptom(s))
	}
	printlnFn("Type 'log' to add another entry.")
}

func (a *App) healthReportScreen(ctx context.Context) error {
	printlnFn("Analyzing your symptom history...")
	analysis, err := a.health.AnalyzeTriggers(ctx)
	if err != nil {
		return err
	}
	printlnFn(analysis)
	return nil
}

func (a *App) recipeScreen(ctx context.Context) error {
	req, err := getSimpleText(a.reader, "What would you like to cook?", a.out)
	if err != nil {
		return err
	}
	recipe, err := a.health.SuggestRecipe(ctx, req)
	if err != nil {
		return err
	}
	printlnFn(formatRecipe(recipe))
	return nil
}

func (a *App) remindersScreen(ctx context.Context) error {
	list, err := a.reminders.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No reminders. Type 'remind' to add one.")
		return nil
	}
	for _, r := range list {
		printlnFn(fmt.Sprintf("%s  %s  (%s)", r.At, r.Text, r.ID))
	}
	return nil
}

// LogSymptom records a diary entry. It needs an active session.
func (a *App) LogSymptom(ctx context.Context) error {
	if a.state() != session.StateActive {
		return session.ErrInvalidTransition
	}

	symptoms, err := getSimpleText(a.reader, "Symptoms (comma separated, e.g. bloating, cramps)", a.out)
	if err != nil {
		return err
	}
	sev, err := getSimpleText(a.reader, fmt.Sprintf("Severity %d-%d", models.MinSeverity, models.MaxSeverity), a.out)
	if err != nil {
		return err
	}
	severity, err := strconv.Atoi(sev)
	if err != nil {
		return fmt.Errorf("%w: severity must be a number", session.ErrValidation)
	}
	foods, err := getSimpleText(a.reader, "What did you eat? (optional)", a.out)
	if err != nil {
		return err
	}
	notes, err := getMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	entry := &models.SymptomLog{
		Symptoms: splitList(symptoms),
		Severity: severity,
		Foods:    foods,
		Notes:    notes,
	}
	if err := a.session.AddSymptom(ctx, entry); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Logged. %d entries in your diary.", len(a.session.Snapshot().Symptoms)))
	return nil
}

func (a *App) AddReminder(ctx context.Context) error {
	if a.state() != session.StateActive {
		return session.ErrInvalidTransition
	}
	at, err := getSimpleText(a.reader, "Time of day (HH:MM)", a.out)
	if err != nil {
		return err
	}
	text, err := getSimpleText(a.reader, "Reminder", a.out)
	if err != nil {
		return err
	}
	r, err := a.reminders.Add(ctx, at, text)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Reminder set for %s.", r.At))
	return nil
}

func (a *App) RemoveReminder(ctx context.Context, id string) error {
	if a.state() != session.StateActive {
		return session.ErrInvalidTransition
	}
	if err := a.reminders.Remove(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	printlnFn("Reminder removed.")
	return nil
}
