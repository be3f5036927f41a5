package services

import (
	"time"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// FilterAfter hides entries created at or before the soft-purge cutoff
// (epoch ms). Zero cutoff is the identity. Entries whose created_at cannot
// be parsed are retained: a parse failure must never hide history.
func FilterAfter(cutoffMillis int64, entries []models.Entry) []models.Entry {
	if cutoffMillis == 0 {
		return entries
	}
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		t, err := time.Parse(time.RFC3339, e.CreatedAt)
		if err != nil || t.UnixMilli() > cutoffMillis {
			out = append(out, e)
		}
	}
	return out
}
