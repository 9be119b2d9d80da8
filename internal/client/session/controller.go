package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gastrohealth/internal/logging"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// API is the part of the gateway the controller drives.
type API interface {
	Register(ctx context.Context, email, password string) (*models.MessageResponse, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.MeResponse, error)
	SaveAPIKey(ctx context.Context, apiKey string) (*models.MessageResponse, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	AddSymptom(ctx context.Context, symptom *models.SymptomLog) ([]models.SymptomLog, error)
}

type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
}

// Controller owns the Session. Network calls run without the lock held, so
// a forced logout raised by the gateway mid-call can always get through.
// When two mutations race the one applied last wins.
type Controller struct {
	api    API
	tokens TokenStore
	logger logging.Logger

	mu        sync.Mutex
	s         Session
	listeners map[int]func(Event)
	nextID    int
}

func NewController(api API, tokens TokenStore, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Controller{
		api:       api,
		tokens:    tokens,
		logger:    logger,
		s:         Session{State: StateLoading},
		listeners: make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every Event. Listeners run synchronously after
// the change is applied and must not block. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.State
}

// Snapshot returns a deep copy of the session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.clone()
}

// Bootstrap resolves the initial state from a persisted token, verifying it
// against the server. Any verification failure ends in Unauthenticated.
func (c *Controller) Bootstrap(ctx context.Context) error {
	if err := c.require(StateLoading); err != nil {
		return err
	}

	token, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to read persisted token", "error", err)
		c.logout(ctx, ReasonNoToken, err)
		return nil
	}
	if token == "" {
		c.logout(ctx, ReasonNoToken, nil)
		return nil
	}

	resp, err := c.api.Me(ctx)
	if err == nil && (resp == nil || resp.User == nil) {
		err = errors.New("empty user in response")
	}
	if err != nil {
		c.logger.Info(ctx, "persisted token rejected", "error", err)
		if err := c.tokens.Set(ctx, ""); err != nil {
			c.logger.Warn(ctx, "failed to clear token", "error", err)
		}
		c.logout(ctx, ReasonVerifyFailed, err)
		return nil
	}

	c.authenticate(ctx, StateLoading, token, resp.User, resp.Symptoms, ReasonBootstrap)
	return nil
}

// Register creates an account and returns the server's message. The state
// does not change: the user still has to log in.
func (c *Controller) Register(ctx context.Context, email, password string) (string, error) {
	if err := c.require(StateUnauthenticated); err != nil {
		return "", err
	}
	email, err := validateCredentials(email, password)
	if err != nil {
		return "", err
	}

	resp, err := c.api.Register(ctx, email, password)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.require(StateUnauthenticated); err != nil {
		return err
	}
	email, err := validateCredentials(email, password)
	if err != nil {
		return err
	}

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if resp.Token == "" || resp.User == nil {
		return errors.New("malformed login response")
	}

	if err := c.tokens.Set(ctx, resp.Token); err != nil {
		return err
	}

	c.authenticate(ctx, StateUnauthenticated, resp.Token, resp.User, resp.Symptoms, ReasonLogin)
	return nil
}

// SaveProfile stores the survey answers. From Onboarding it advances to the
// API key prompt or straight to Active, elsewhere it only updates data.
func (c *Controller) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := c.require(StateOnboarding, StateAPIKeyRequired, StateActive); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: profile is required", ErrValidation)
	}

	saved, err := c.api.SaveProfile(ctx, profile)
	if err != nil {
		return err
	}

	c.update(ctx, ReasonProfileSaved, func(s *Session) {
		s.User.Profile = saved.Clone()
	})
	return nil
}

func (c *Controller) SaveAPIKey(ctx context.Context, apiKey string) error {
	if err := c.require(StateAPIKeyRequired, StateActive); err != nil {
		return err
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: API key is required", ErrValidation)
	}

	if _, err := c.api.SaveAPIKey(ctx, apiKey); err != nil {
		return err
	}

	c.update(ctx, ReasonAPIKeySaved, func(s *Session) {
		s.User.HasAPIKey = true
	})
	return nil
}

// AddSymptom logs one entry and replaces the local list with the server's.
func (c *Controller) AddSymptom(ctx context.Context, symptom *models.SymptomLog) error {
	if err := c.require(StateActive); err != nil {
		return err
	}
	if err := validateSymptom(symptom); err != nil {
		return err
	}

	entry := *symptom
	entry.Symptoms = slices.Clone(symptom.Symptoms)
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	list, err := c.api.AddSymptom(ctx, &entry)
	if err != nil {
		return err
	}

	c.update(ctx, ReasonSymptomLogged, func(s *Session) {
		s.Symptoms = models.CloneSymptoms(list)
	})
	return nil
}

// Logout clears the token and all session data. It never fails; a token
// that cannot be removed from disk is logged.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.tokens.Set(ctx, ""); err != nil {
		c.logger.Warn(ctx, "failed to clear token", "error", err)
	}
	c.logout(ctx, ReasonLogout, nil)
}

// HandleUnauthorized is installed as the gateway's 401/403 hook. The gateway
// has already cleared the token.
func (c *Controller) HandleUnauthorized(ctx context.Context, err error) {
	c.logout(ctx, ReasonForcedLogout, err)
}

func (c *Controller) require(allowed ...State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.Contains(allowed, c.s.State) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, c.s.State)
}

// authenticate installs a verified user, provided the state is still from.
func (c *Controller) authenticate(ctx context.Context, from State, token string, user *models.User, symptoms []models.SymptomLog, reason Reason) {
	c.mu.Lock()
	if c.s.State != from {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dropping stale authentication", "expected", from.String())
		return
	}

	u := user.Clone()
	c.s = Session{
		State:    resolve(u),
		Token:    token,
		User:     u,
		Symptoms: models.CloneSymptoms(symptoms),
	}
	ev := Event{From: from, To: c.s.State, Reason: reason}
	c.mu.Unlock()

	c.emit(ctx, ev)
}

// update applies fn to a signed-in session and re-resolves the state when
// the user was still onboarding or missing a key. Results that arrive after
// a logout are dropped.
func (c *Controller) update(ctx context.Context, reason Reason, fn func(s *Session)) {
	c.mu.Lock()
	if c.s.User == nil {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dropping update for signed-out session", "reason", reason)
		return
	}

	from := c.s.State
	fn(&c.s)
	if from == StateOnboarding || from == StateAPIKeyRequired {
		c.s.State = resolve(c.s.User)
	}
	ev := Event{From: from, To: c.s.State, Reason: reason}
	c.mu.Unlock()

	c.emit(ctx, ev)
}

func (c *Controller) logout(ctx context.Context, reason Reason, cause error) {
	c.mu.Lock()
	from := c.s.State
	if from == StateUnauthenticated && c.s.User == nil && c.s.Token == "" {
		c.mu.Unlock()
		return
	}
	c.s = Session{State: StateUnauthenticated}
	ev := Event{From: from, To: StateUnauthenticated, Reason: reason, Err: cause}
	c.mu.Unlock()

	c.emit(ctx, ev)
}

func (c *Controller) emit(ctx context.Context, ev Event) {
	c.logger.Info(ctx, "session state changed", "from", ev.From.String(), "to", ev.To.String(), "reason", string(ev.Reason))

	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	return email, nil
}

func validateSymptom(s *models.SymptomLog) error {
	if s == nil {
		return fmt.Errorf("%w: symptom is required", ErrValidation)
	}
	if len(s.Symptoms) == 0 {
		return fmt.Errorf("%w: select at least one symptom", ErrValidation)
	}
	if s.Severity < models.MinSeverity || s.Severity > models.MaxSeverity {
		return fmt.Errorf("%w: severity must be between %d and %d", ErrValidation, models.MinSeverity, models.MaxSeverity)
	}
	return nil
}
