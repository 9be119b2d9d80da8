package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

var errAuth = errors.New("Invalid token")

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) Get(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) Set(_ context.Context, t string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = t
	return nil
}

// fakeAPI records calls. Each hook, when set, replaces the default reply.
type fakeAPI struct {
	calls []string

	register    func(email, password string) (*models.MessageResponse, error)
	login       func(email, password string) (*models.LoginResponse, error)
	me          func() (*models.MeResponse, error)
	saveAPIKey  func(key string) (*models.MessageResponse, error)
	saveProfile func(p *models.UserProfile) (*models.UserProfile, error)
	addSymptom  func(s *models.SymptomLog) ([]models.SymptomLog, error)
}

func (f *fakeAPI) Register(_ context.Context, email, password string) (*models.MessageResponse, error) {
	f.calls = append(f.calls, "register")
	if f.register != nil {
		return f.register(email, password)
	}
	return &models.MessageResponse{Message: "User registered successfully"}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.LoginResponse, error) {
	f.calls = append(f.calls, "login")
	return f.login(email, password)
}

func (f *fakeAPI) Me(context.Context) (*models.MeResponse, error) {
	f.calls = append(f.calls, "me")
	return f.me()
}

func (f *fakeAPI) SaveAPIKey(_ context.Context, key string) (*models.MessageResponse, error) {
	f.calls = append(f.calls, "api-key")
	if f.saveAPIKey != nil {
		return f.saveAPIKey(key)
	}
	return &models.MessageResponse{Message: "ok"}, nil
}

func (f *fakeAPI) SaveProfile(_ context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	f.calls = append(f.calls, "profile")
	if f.saveProfile != nil {
		return f.saveProfile(p)
	}
	return p, nil
}

func (f *fakeAPI) AddSymptom(_ context.Context, s *models.SymptomLog) ([]models.SymptomLog, error) {
	f.calls = append(f.calls, "symptom")
	return f.addSymptom(s)
}

func profile() *models.UserProfile {
	return &models.UserProfile{Name: "Ann", Condition: "IBS", Allergies: []string{"nuts"}}
}

func newController(api *fakeAPI, token string) (*Controller, *fakeTokens, *[]Event) {
	tokens := &fakeTokens{token: token}
	c := NewController(api, tokens, nil)
	events := &[]Event{}
	c.Subscribe(func(ev Event) { *events = append(*events, ev) })
	return c, tokens, events
}

// activeController returns a controller already in Active.
func activeController(t *testing.T, api *fakeAPI) (*Controller, *fakeTokens, *[]Event) {
	t.Helper()
	api.me = func() (*models.MeResponse, error) {
		return &models.MeResponse{
			User:     &models.User{Email: "a@b.c", Profile: profile(), HasAPIKey: true},
			Symptoms: []models.SymptomLog{{ID: "1", Symptoms: []string{"bloating"}, Severity: 2}},
		}, nil
	}
	c, tokens, events := newController(api, "tok")
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, StateActive, c.State())
	*events = nil
	api.calls = nil
	return c, tokens, events
}

func TestResolve(t *testing.T) {
	assert.Equal(t, StateOnboarding, resolve(nil))
	assert.Equal(t, StateOnboarding, resolve(&models.User{HasAPIKey: true}))
	assert.Equal(t, StateAPIKeyRequired, resolve(&models.User{Profile: profile()}))
	assert.Equal(t, StateActive, resolve(&models.User{Profile: profile(), HasAPIKey: true}))
}

func TestBootstrap_NoToken(t *testing.T) {
	api := &fakeAPI{}
	c, _, events := newController(api, "")

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, api.calls)
	require.Len(t, *events, 1)
	assert.Equal(t, Event{From: StateLoading, To: StateUnauthenticated, Reason: ReasonNoToken}, (*events)[0])
}

func TestBootstrap_VerifiedToken(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		want State
	}{
		{"no profile", &models.User{Email: "a@b.c"}, StateOnboarding},
		{"no key", &models.User{Email: "a@b.c", Profile: profile()}, StateAPIKeyRequired},
		{"complete", &models.User{Email: "a@b.c", Profile: profile(), HasAPIKey: true}, StateActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{me: func() (*models.MeResponse, error) {
				return &models.MeResponse{User: tc.user}, nil
			}}
			c, _, events := newController(api, "tok")

			require.NoError(t, c.Bootstrap(context.Background()))
			snap := c.Snapshot()
			assert.Equal(t, tc.want, snap.State)
			assert.Equal(t, "tok", snap.Token)
			assert.Equal(t, "a@b.c", snap.User.Email)
			assert.NotNil(t, snap.Symptoms)
			assert.Equal(t, []string{"me"}, api.calls)
			require.Len(t, *events, 1)
			assert.Equal(t, ReasonBootstrap, (*events)[0].Reason)
		})
	}
}

func TestBootstrap_VerificationFailureLogsOut(t *testing.T) {
	api := &fakeAPI{me: func() (*models.MeResponse, error) {
		return nil, errors.New("server unavailable")
	}}
	c, tokens, events := newController(api, "tok")

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, tokens.token)
	require.Len(t, *events, 1)
	assert.Equal(t, ReasonVerifyFailed, (*events)[0].Reason)
	assert.Error(t, (*events)[0].Err)
}

func TestBootstrap_OnlyFromLoading(t *testing.T) {
	c, _, _ := newController(&fakeAPI{}, "")
	require.NoError(t, c.Bootstrap(context.Background()))
	assert.ErrorIs(t, c.Bootstrap(context.Background()), ErrInvalidTransition)
}

func TestLogin_Validation(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newController(api, "")
	require.NoError(t, c.Bootstrap(context.Background()))

	assert.ErrorIs(t, c.Login(context.Background(), "  ", "pw"), ErrValidation)
	assert.ErrorIs(t, c.Login(context.Background(), "a@b.c", ""), ErrValidation)
	_, err := c.Register(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, api.calls)
}

func TestLogin_Success(t *testing.T) {
	api := &fakeAPI{login: func(email, password string) (*models.LoginResponse, error) {
		assert.Equal(t, "a@b.c", email)
		return &models.LoginResponse{
			Token: "new-token",
			User:  &models.User{Email: email},
		}, nil
	}}
	c, tokens, events := newController(api, "")
	require.NoError(t, c.Bootstrap(context.Background()))

	require.NoError(t, c.Login(context.Background(), " a@b.c ", "pw"))
	assert.Equal(t, StateOnboarding, c.State())
	assert.Equal(t, "new-token", tokens.token)
	assert.Equal(t, "new-token", c.Snapshot().Token)
	last := (*events)[len(*events)-1]
	assert.Equal(t, Event{From: StateUnauthenticated, To: StateOnboarding, Reason: ReasonLogin}, last)
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	api := &fakeAPI{login: func(string, string) (*models.LoginResponse, error) {
		return nil, errors.New("Invalid credentials")
	}}
	c, tokens, _ := newController(api, "")
	require.NoError(t, c.Bootstrap(context.Background()))

	err := c.Login(context.Background(), "a@b.c", "bad")
	require.EqualError(t, err, "Invalid credentials")
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, tokens.token)
}

func TestRegister_KeepsUnauthenticated(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newController(api, "")
	require.NoError(t, c.Bootstrap(context.Background()))

	msg, err := c.Register(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)
	assert.Equal(t, StateUnauthenticated, c.State())
}

func TestLogin_NotAllowedWhenActive(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := activeController(t, api)

	assert.ErrorIs(t, c.Login(context.Background(), "a@b.c", "pw"), ErrInvalidTransition)
	assert.Empty(t, api.calls)
}

func TestSaveProfile_AdvancesFromOnboarding(t *testing.T) {
	for _, hasKey := range []bool{false, true} {
		api := &fakeAPI{me: func() (*models.MeResponse, error) {
			return &models.MeResponse{User: &models.User{Email: "a@b.c", HasAPIKey: hasKey}}, nil
		}}
		c, _, events := newController(api, "tok")
		require.NoError(t, c.Bootstrap(context.Background()))
		require.Equal(t, StateOnboarding, c.State())

		require.NoError(t, c.SaveProfile(context.Background(), profile()))

		want := StateAPIKeyRequired
		if hasKey {
			want = StateActive
		}
		assert.Equal(t, want, c.State())
		assert.Equal(t, "Ann", c.Snapshot().User.Profile.Name)
		last := (*events)[len(*events)-1]
		assert.Equal(t, Event{From: StateOnboarding, To: want, Reason: ReasonProfileSaved}, last)
	}
}

func TestSaveProfile_RejectsNilAndWrongState(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := newController(api, "")
	require.NoError(t, c.Bootstrap(context.Background()))
	assert.ErrorIs(t, c.SaveProfile(context.Background(), profile()), ErrInvalidTransition)

	c, _, _ = activeController(t, api)
	assert.ErrorIs(t, c.SaveProfile(context.Background(), nil), ErrValidation)
	assert.Empty(t, api.calls)
}

func TestSaveProfile_FailureKeepsData(t *testing.T) {
	api := &fakeAPI{saveProfile: func(*models.UserProfile) (*models.UserProfile, error) {
		return nil, errors.New("boom")
	}}
	c, _, events := activeController(t, api)

	require.Error(t, c.SaveProfile(context.Background(), &models.UserProfile{Name: "Bob"}))
	assert.Equal(t, "Ann", c.Snapshot().User.Profile.Name)
	assert.Empty(t, *events)
}

func TestSaveAPIKey(t *testing.T) {
	api := &fakeAPI{me: func() (*models.MeResponse, error) {
		return &models.MeResponse{User: &models.User{Email: "a@b.c", Profile: profile()}}, nil
	}}
	c, _, _ := newController(api, "tok")
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, StateAPIKeyRequired, c.State())

	assert.ErrorIs(t, c.SaveAPIKey(context.Background(), "   "), ErrValidation)
	assert.Equal(t, []string{"me"}, api.calls)

	var sent string
	api.saveAPIKey = func(key string) (*models.MessageResponse, error) {
		sent = key
		return &models.MessageResponse{Message: "saved"}, nil
	}
	require.NoError(t, c.SaveAPIKey(context.Background(), "  key-123 "))
	assert.Equal(t, "key-123", sent)
	assert.Equal(t, StateActive, c.State())
	assert.True(t, c.Snapshot().User.HasAPIKey)
}

func TestAddSymptom_ReplacesList(t *testing.T) {
	api := &fakeAPI{}
	c, _, events := activeController(t, api)

	api.addSymptom = func(s *models.SymptomLog) ([]models.SymptomLog, error) {
		assert.False(t, s.Date.IsZero())
		return []models.SymptomLog{
			{ID: "1", Symptoms: []string{"bloating"}, Severity: 2},
			{ID: "2", Symptoms: s.Symptoms, Severity: s.Severity},
		}, nil
	}

	require.NoError(t, c.AddSymptom(context.Background(), &models.SymptomLog{Symptoms: []string{"cramps"}, Severity: 3}))
	snap := c.Snapshot()
	require.Len(t, snap.Symptoms, 2)
	assert.Equal(t, "2", snap.Symptoms[1].ID)
	assert.Equal(t, StateActive, snap.State)
	require.Len(t, *events, 1)
	assert.Equal(t, ReasonSymptomLogged, (*events)[0].Reason)
}

func TestAddSymptom_Validation(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := activeController(t, api)
	ctx := context.Background()

	assert.ErrorIs(t, c.AddSymptom(ctx, nil), ErrValidation)
	assert.ErrorIs(t, c.AddSymptom(ctx, &models.SymptomLog{Severity: 3}), ErrValidation)
	assert.ErrorIs(t, c.AddSymptom(ctx, &models.SymptomLog{Symptoms: []string{"gas"}, Severity: 0}), ErrValidation)
	assert.ErrorIs(t, c.AddSymptom(ctx, &models.SymptomLog{Symptoms: []string{"gas"}, Severity: 6}), ErrValidation)
	assert.Empty(t, api.calls)
}

func TestForcedLogout_DiscardsSession(t *testing.T) {
	api := &fakeAPI{}
	c, tokens, events := activeController(t, api)

	// Simulates the gateway: clear the token, fire the hook, return the error.
	api.addSymptom = func(*models.SymptomLog) ([]models.SymptomLog, error) {
		_ = tokens.Set(context.Background(), "")
		c.HandleUnauthorized(context.Background(), errAuth)
		return nil, errAuth
	}

	err := c.AddSymptom(context.Background(), &models.SymptomLog{Symptoms: []string{"gas"}, Severity: 1})
	require.ErrorIs(t, err, errAuth)

	snap := c.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.Empty(t, snap.Symptoms)
	require.Len(t, *events, 1)
	assert.Equal(t, ReasonForcedLogout, (*events)[0].Reason)
	assert.Equal(t, StateActive, (*events)[0].From)
	assert.ErrorIs(t, (*events)[0].Err, errAuth)
}

func TestForcedLogout_DuringBootstrapEmitsOnce(t *testing.T) {
	api := &fakeAPI{}
	c, _, events := newController(api, "stale")
	api.me = func() (*models.MeResponse, error) {
		c.HandleUnauthorized(context.Background(), errAuth)
		return nil, errAuth
	}

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Equal(t, StateUnauthenticated, c.State())
	require.Len(t, *events, 1)
	assert.Equal(t, ReasonForcedLogout, (*events)[0].Reason)
}

func TestLogout_ClearsEverything(t *testing.T) {
	c, tokens, events := activeController(t, &fakeAPI{})

	c.Logout(context.Background())
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, tokens.token)
	assert.Nil(t, c.Snapshot().User)
	require.Len(t, *events, 1)
	assert.Equal(t, ReasonLogout, (*events)[0].Reason)

	c.Logout(context.Background())
	assert.Len(t, *events, 1)
}

func TestLateResultAfterLogoutIsDropped(t *testing.T) {
	api := &fakeAPI{}
	c, _, _ := activeController(t, api)

	api.saveProfile = func(p *models.UserProfile) (*models.UserProfile, error) {
		c.Logout(context.Background())
		return p, nil
	}

	require.NoError(t, c.SaveProfile(context.Background(), profile()))
	snap := c.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	c, _, _ := activeController(t, &fakeAPI{})

	snap := c.Snapshot()
	snap.User.Profile.Allergies[0] = "changed"
	snap.Symptoms[0].Symptoms[0] = "changed"

	again := c.Snapshot()
	assert.Equal(t, "nuts", again.User.Profile.Allergies[0])
	assert.Equal(t, "bloating", again.Symptoms[0].Symptoms[0])
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	c := NewController(&fakeAPI{}, &fakeTokens{}, nil)
	count := 0
	unsubscribe := c.Subscribe(func(Event) { count++ })

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Equal(t, 1, count)

	unsubscribe()
	c.HandleUnauthorized(context.Background(), errAuth)
	assert.Equal(t, 1, count)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "api-key-required", StateAPIKeyRequired.String())
	assert.Equal(t, "unknown", State(42).String())
}
