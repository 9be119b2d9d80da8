package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	RespondError(w, status, msg)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.users.Register(r.Context(), req.Email, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if status, _ := statusOf(err); status == http.StatusUnauthorized {
			RespondError(w, status, "invalid email or password")
			return
		}
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.LoginResponse{Token: sess.Token, User: sess.User, Symptoms: sess.Symptoms})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.users.Me(r.Context(), UserID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.MeResponse{User: sess.User, Symptoms: sess.Symptoms})
}

func (s *Server) handleAPIKey(w http.ResponseWriter, r *http.Request) {
	var req models.APIKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.users.SaveAPIKey(r.Context(), UserID(r.Context()), req.APIKey); err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.MessageResponse{Message: "API key saved"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.users.SaveProfile(r.Context(), UserID(r.Context()), req.Profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, p)
}

func (s *Server) handleSymptom(w http.ResponseWriter, r *http.Request) {
	var req models.SymptomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	list, err := s.symptoms.Add(r.Context(), UserID(r.Context()), req.Symptom)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, list)
}

// aiContext resolves the caller's model key and the profile to use, the one
// in the request or else the stored one.
func (s *Server) aiContext(r *http.Request, profile *models.UserProfile) (string, *models.UserProfile, error) {
	userID := UserID(r.Context())

	key, err := s.users.APIKey(r.Context(), userID)
	if err != nil {
		return "", nil, err
	}
	if profile != nil {
		return key, profile, nil
	}

	stored, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		return "", nil, err
	}
	return key, stored, nil
}

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	var req models.MealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	key, profile, err := s.aiContext(r, req.Profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	plan, err := s.advisor.MealPlan(r.Context(), key, profile, nonNil(req.Symptoms))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCheckFood(w http.ResponseWriter, r *http.Request) {
	var req models.CheckFoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	name := strings.TrimSpace(req.FoodName)
	if name == "" && req.FoodImage == nil {
		s.fail(w, r, fmt.Errorf("%w: foodName or foodImage is required", common.ErrorValidation))
		return
	}

	key, profile, err := s.aiContext(r, req.Profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.FoodImage != nil {
		objKey, err := s.images.Save(r.Context(), UserID(r.Context()), req.FoodImage)
		if err != nil {
			status, _ := statusOf(err)
			if status == http.StatusBadRequest {
				s.fail(w, r, err)
				return
			}
			s.logger.Warn(r.Context(), "food image not archived", "error", err)
		} else if objKey != "" {
			s.logger.Debug(r.Context(), "food image archived", "key", objKey)
		}
	}

	res, err := s.advisor.CheckFood(r.Context(), key, profile, name, req.FoodImage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyzeTriggers(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTriggersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	key, profile, err := s.aiContext(r, req.Profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	analysis, err := s.advisor.AnalyzeTriggers(r.Context(), key, profile, nonNil(req.Symptoms))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.AnalyzeTriggersResponse{Analysis: analysis})
}

func (s *Server) handleSuggestRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	request := strings.TrimSpace(req.Request)
	if request == "" {
		s.fail(w, r, fmt.Errorf("%w: request is required", common.ErrorValidation))
		return
	}

	key, profile, err := s.aiContext(r, req.Profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	recipe, err := s.advisor.SuggestRecipe(r.Context(), key, profile, request)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, recipe)
}

func nonNil(in []models.SymptomLog) []models.SymptomLog {
	if in == nil {
		return []models.SymptomLog{}
	}
	return in
}
