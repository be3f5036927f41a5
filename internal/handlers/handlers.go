package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bytemc-uz/bytemc-backend/internal/services"
)

var (
	recordsService  *services.Records
	accountsService *services.Accounts
	tokenService    *services.TokenService
	statusService   *services.StatusService
	uploadsService  *services.Uploads
)

// Init wires the handler package to its services. Called once from main.
func Init(records *services.Records, accounts *services.Accounts, tokens *services.TokenService, status *services.StatusService, uploads *services.Uploads) {
	recordsService = records
	accountsService = accounts
	tokenService = tokens
	statusService = status
	uploadsService = uploads
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeErrorDetails attaches a best-effort diagnostic string. Never pass
// errors that may carry credentials.
func writeErrorDetails(w http.ResponseWriter, code int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, code, resp)
}
