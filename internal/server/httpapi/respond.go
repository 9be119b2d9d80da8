package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
	"github.com/dmitrijs2005/gastrohealth/internal/server/advisor"
	"github.com/dmitrijs2005/gastrohealth/internal/server/images"
)

const maxBodyBytes = 8 << 20

var errBadBody = fmt.Errorf("%w: invalid request body", common.ErrorValidation)

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, models.ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}

// statusOf maps service errors to the status and message sent to the client.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, images.ErrInvalidImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, common.ErrorNoAPIKey):
		// Never 401/403 here, those force a client logout.
		return http.StatusPreconditionRequired, "API key is not configured"
	case errors.Is(err, advisor.ErrMalformedResponse), errors.Is(err, advisor.ErrEmptyResponse):
		return http.StatusInternalServerError, "AI returned an unusable response"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
