// Package session owns the client's authentication lifecycle.
//
// A Controller moves between a fixed set of states:
//
//	Loading ──► Unauthenticated ──► Onboarding ──► ApiKeyRequired ──► Active
//	                 ▲                   │                                 │
//	                 └──────── logout / 401 / 403 from any state ──────────┘
//
// Every change goes through a transition method and is announced to
// subscribers as an Event.
package session

import (
	"errors"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateOnboarding
	StateAPIKeyRequired
	StateActive
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateOnboarding:
		return "onboarding"
	case StateAPIKeyRequired:
		return "api-key-required"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

type Reason string

const (
	ReasonBootstrap     Reason = "bootstrap"
	ReasonNoToken       Reason = "no-token"
	ReasonVerifyFailed  Reason = "verification-failed"
	ReasonLogin         Reason = "login"
	ReasonProfileSaved  Reason = "profile-saved"
	ReasonAPIKeySaved   Reason = "api-key-saved"
	ReasonLogout        Reason = "logout"
	ReasonForcedLogout  Reason = "forced-logout"
	ReasonSymptomLogged Reason = "symptom-logged"
)

// Event describes one state change. Data-only updates (a new symptom, an
// edited profile) are emitted with From == To.
type Event struct {
	From   State
	To     State
	Reason Reason
	Err    error
}

// Session is the client-held view of the signed-in user.
// User is only set while Token is non-empty.
type Session struct {
	State    State
	Token    string
	User     *models.User
	Symptoms []models.SymptomLog
}

func (s Session) clone() Session {
	s.User = s.User.Clone()
	s.Symptoms = models.CloneSymptoms(s.Symptoms)
	return s
}

var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrValidation        = errors.New("invalid input")
)

// resolve picks the post-authentication state for user.
func resolve(user *models.User) State {
	switch {
	case user == nil || user.Profile == nil:
		return StateOnboarding
	case !user.HasAPIKey:
		return StateAPIKeyRequired
	default:
		return StateActive
	}
}
