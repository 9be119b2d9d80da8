package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/client/client"
	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// Input indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline
var getPassword = GetPassword

func (a *App) readCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

// Register creates an account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	if a.state() != session.StateUnauthenticated {
		return session.ErrInvalidTransition
	}
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	msg, err := a.session.Register(ctx, email, password)
	if err != nil {
		return err
	}

	printlnFn(msg)
	printlnFn("You can now log in.")
	return nil
}

// Login authenticates and then walks a new user through whatever setup is
// still missing.
func (a *App) Login(ctx context.Context) error {
	if a.state() != session.StateUnauthenticated {
		return session.ErrInvalidTransition
	}
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			printlnFn("Login failed:", err.Error())
			return nil
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", email))
	a.advance(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// advance runs the onboarding survey and the API key prompt when the
// session is parked on them. A failed step leaves the user at the prompt.
func (a *App) advance(ctx context.Context) {
	for {
		var err error
		switch a.state() {
		case session.StateOnboarding:
			printlnFn("Let's set up your health profile.")
			err = a.Survey(ctx)
		case session.StateAPIKeyRequired:
			printlnFn("An AI API key is required to generate advice.")
			err = a.APIKey(ctx)
		case session.StateActive:
			printlnFn("All set. Type 'menu' to see the screens.")
			return
		default:
			return
		}
		if err != nil {
			report(err)
			return
		}
	}
}

// Survey collects the profile answers. Existing answers are offered as
// defaults; Enter keeps them.
func (a *App) Survey(ctx context.Context) error {
	switch a.state() {
	case session.StateOnboarding, session.StateAPIKeyRequired, session.StateActive:
	default:
		return session.ErrInvalidTransition
	}

	cur := &models.UserProfile{}
	if u := a.session.Snapshot().User; u != nil && u.Profile != nil {
		cur = u.Profile
	}
	next := *cur

	var err error
	if next.Name, err = a.ask("Your name", cur.Name); err != nil {
		return err
	}
	age, err := a.ask("Age", ageString(cur.Age))
	if err != nil {
		return err
	}
	if age != "" {
		if next.Age, err = strconv.Atoi(age); err != nil || next.Age < 0 {
			return fmt.Errorf("%w: age must be a positive number", session.ErrValidation)
		}
	}
	if next.Condition, err = a.ask("Condition (e.g. IBS, GERD, Crohn's)", cur.Condition); err != nil {
		return err
	}
	if next.DietaryGoal, err = a.ask("Dietary goal", cur.DietaryGoal); err != nil {
		return err
	}
	allergies, err := a.ask("Allergies (comma separated)", strings.Join(cur.Allergies, ", "))
	if err != nil {
		return err
	}
	next.Allergies = splitList(allergies)
	disliked, err := a.ask("Foods you dislike (comma separated)", strings.Join(cur.DislikedFoods, ", "))
	if err != nil {
		return err
	}
	next.DislikedFoods = splitList(disliked)
	if next.Notes, err = a.askMultiline("Anything else?", cur.Notes); err != nil {
		return err
	}

	if err := a.session.SaveProfile(ctx, &next); err != nil {
		return err
	}
	printlnFn("Profile saved.")
	return nil
}

func (a *App) APIKey(ctx context.Context) error {
	switch a.state() {
	case session.StateAPIKeyRequired, session.StateActive:
	default:
		return session.ErrInvalidTransition
	}

	key, err := getSimpleText(a.reader, "Enter your AI API key", a.out)
	if err != nil {
		return err
	}
	if err := a.session.SaveAPIKey(ctx, key); err != nil {
		return err
	}
	printlnFn("API key saved.")
	return nil
}

// ask prompts with an optional default shown in brackets.
func (a *App) ask(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// askMultiline is ask for free text spanning several lines.
func (a *App) askMultiline(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getMultiline(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func ageString(age int) string {
	if age <= 0 {
		return ""
	}
	return strconv.Itoa(age)
}
