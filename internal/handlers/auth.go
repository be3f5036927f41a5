package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bytemc-uz/bytemc-backend/internal/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Login validates credentials and issues a bearer token. Unknown usernames
// and wrong passwords are indistinguishable from outside.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	admin, err := accountsService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	token, err := tokenService.Issue(admin.ID, admin.Username, admin.Role)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Role:     admin.Role,
		Username: admin.Username,
	})
}
