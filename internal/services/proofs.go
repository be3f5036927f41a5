package services

import (
	"fmt"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// ProofKey is the join between punishment records and locally-stored proof
// images, regardless of which backend produced the record.
func ProofKey(typ string, id int64) string {
	return fmt.Sprintf("%s:%d", typ, id)
}

// MergeProofs splices stored proof images onto entries that do not already
// carry one. Entries with an image are left untouched.
func MergeProofs(proofs []models.Proof, typ string, entries []models.Entry) []models.Entry {
	if len(proofs) == 0 {
		return entries
	}
	byKey := make(map[string]models.Proof, len(proofs))
	for _, p := range proofs {
		byKey[p.Key] = p
	}
	for i := range entries {
		if entries[i].ImageURL != nil {
			continue
		}
		if p, ok := byKey[ProofKey(typ, entries[i].ID)]; ok {
			url := p.ImageURL
			entries[i].ImageURL = &url
		}
	}
	return entries
}
