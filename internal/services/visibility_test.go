package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

func entryCreatedAt(millis int64) models.Entry {
	return models.Entry{CreatedAt: time.UnixMilli(millis).UTC().Format(isoFormat)}
}

func TestFilterAfterCutoffBoundary(t *testing.T) {
	cutoff := int64(1_700_000_000_000)
	entries := []models.Entry{
		entryCreatedAt(cutoff - 1),
		entryCreatedAt(cutoff),
		entryCreatedAt(cutoff + 1),
	}

	out := FilterAfter(cutoff, entries)

	assert.Len(t, out, 1, "only the record strictly after the cutoff survives")
	assert.Equal(t, entries[2].CreatedAt, out[0].CreatedAt)
}

func TestFilterAfterZeroCutoffIsIdentity(t *testing.T) {
	entries := []models.Entry{entryCreatedAt(1), entryCreatedAt(2)}
	assert.Equal(t, entries, FilterAfter(0, entries))
}

func TestFilterAfterRetainsUnparseableTimestamps(t *testing.T) {
	entries := []models.Entry{
		{CreatedAt: "not-a-date"},
		{CreatedAt: ""},
		entryCreatedAt(1),
	}

	out := FilterAfter(1_700_000_000_000, entries)

	assert.Len(t, out, 2, "unparseable created_at fails open")
	assert.Equal(t, "not-a-date", out[0].CreatedAt)
}
