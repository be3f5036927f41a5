package handlers

import (
	"log"
	"net/http"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// ListEntries returns the public listing handler for one punishment type.
// Listings prefer degraded-but-valid records over failing; only a total
// inability to reach the backing store produces an error.
func ListEntries(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := recordsService.List(r.Context(), typ)
		if err != nil {
			log.Printf("/api/public/%ss error: %v", typ, err)
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to load "+typ+"s", err)
			return
		}
		if entries == nil {
			entries = []models.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GetStats serves the public counters.
func GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := recordsService.Stats(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetServerStatus probes the game server and reports the players-seen tally.
func GetServerStatus(w http.ResponseWriter, r *http.Request) {
	payload, err := statusService.Snapshot(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Unable to fetch server status", err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
