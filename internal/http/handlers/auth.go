package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"giveflow/internal/middleware"
)

type tokenRequest struct {
	DisplayName string `json:"displayName"`
}

// AuthToken issues a development bearer token for a display name, so
// donations carry a donor identity instead of "Anonymous".
func (a *App) AuthToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "displayName is required")
		return
	}
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:  uuid.NewString(),
		Name: name,
		Exp:  time.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"token": token})
}
