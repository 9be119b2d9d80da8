// Package views selects which feature screen is shown while the session is
// Active.
package views

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
)

type View int

const (
	MealPlan View = iota
	FoodChecker
	SymptomLogger
	HealthReport
	RecipeLibrary
	Reminders
)

// Default is the screen shown right after reaching Active.
const Default = MealPlan

var (
	ErrNotActive   = errors.New("navigation requires an active session")
	ErrUnknownView = errors.New("unknown view")
)

type viewInfo struct {
	name  string
	title string
}

var viewTable = map[View]viewInfo{
	MealPlan:      {"mealplan", "Meal Plan"},
	FoodChecker:   {"food", "Food Checker"},
	SymptomLogger: {"symptoms", "Symptom Logger"},
	HealthReport:  {"report", "Health Report"},
	RecipeLibrary: {"recipes", "Recipe Library"},
	Reminders:     {"reminders", "Reminders"},
}

// All lists the views in navigation order.
func All() []View {
	return []View{MealPlan, FoodChecker, SymptomLogger, HealthReport, RecipeLibrary, Reminders}
}

func (v View) Valid() bool {
	_, ok := viewTable[v]
	return ok
}

// Name is the command-line identifier, e.g. "food".
func (v View) Name() string {
	if info, ok := viewTable[v]; ok {
		return info.name
	}
	return fmt.Sprintf("view(%d)", int(v))
}

func (v View) String() string {
	if info, ok := viewTable[v]; ok {
		return info.title
	}
	return fmt.Sprintf("View(%d)", int(v))
}

func ParseView(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range All() {
		if viewTable[v].name == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Router holds the selected view and the navigation drawer flag.
type Router struct {
	mu         sync.Mutex
	current    View
	drawerOpen bool
}

func NewRouter() *Router {
	return &Router{current: Default}
}

// Navigate switches to v and closes the drawer. It only succeeds while the
// session is Active.
func (r *Router) Navigate(state session.State, v View) error {
	if state != session.StateActive {
		return ErrNotActive
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownView, int(v))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = v
	r.drawerOpen = false
	return nil
}

// Current returns the view to render. ok is false outside Active, where the
// state's own screen takes precedence.
func (r *Router) Current(state session.State) (View, bool) {
	if state != session.StateActive {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, true
}

func (r *Router) ToggleDrawer() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawerOpen = !r.drawerOpen
	return r.drawerOpen
}

func (r *Router) DrawerOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawerOpen
}

// Reset goes back to the default view with the drawer closed.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Default
	r.drawerOpen = false
}
