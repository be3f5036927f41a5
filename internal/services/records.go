package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/bytemc-uz/bytemc-backend/internal/litebans"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/store"
)

// ErrRelationalDelete is returned for deletes while the LiteBans backend is
// active; rows in the plugin's schema are managed with in-game commands.
var ErrRelationalDelete = errors.New("deletion from LiteBans DB is disabled from panel; use in-game commands")

// Source is the relational punishment backend. Satisfied by
// *litebans.Client; a nil Source means the file fallback is active.
type Source interface {
	Prefix() string
	TableNames(ctx context.Context) ([]string, error)
	ListRows(ctx context.Context, typ string) ([]litebans.RawRow, error)
	Insert(ctx context.Context, typ, player, reason, issuer string, nowMillis int64) (int64, error)
	CountActive(ctx context.Context, typ string) (int64, error)
	Count(ctx context.Context, typ string) (int64, error)
}

// Records serves punishment listings and writes against whichever backend was
// selected at startup: the LiteBans schema when configured, the local JSON
// document otherwise. The proof overlay and visibility cutoff always come
// from the local document.
type Records struct {
	Store    *store.Store
	Litebans Source // nil in file-fallback mode
}

// Stats is the public counters payload.
type Stats struct {
	Bans      int64 `json:"bans"`
	Mutes     int64 `json:"mutes"`
	Kicks     int64 `json:"kicks"`
	TotalSeen int64 `json:"totalSeen"`
}

// UseLitebans reports whether the relational backend is active.
func (r *Records) UseLitebans() bool {
	return r.Litebans != nil
}

// List returns recent punishments of one type with proofs merged and the
// visibility cutoff applied.
//
// In relational mode the local document only supplies the overlay and the
// cutoff: if it cannot be read the listing is served without them rather
// than failing. In file mode the document is the backing store itself, so
// a read failure fails the request.
func (r *Records) List(ctx context.Context, typ string) ([]models.Entry, error) {
	if r.UseLitebans() {
		rows, err := r.Litebans.ListRows(ctx, typ)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, MapRow(typ, row))
		}
		doc, err := r.Store.Read()
		if err != nil {
			log.Printf("WARNING: serving %ss without proof overlay/cutoff: %v", typ, err)
			return entries, nil
		}
		entries = MergeProofs(doc.Proofs, typ, entries)
		return FilterAfter(doc.PurgeAfter, entries), nil
	}

	doc, err := r.Store.Read()
	if err != nil {
		return nil, err
	}
	var entries []models.Entry
	for _, e := range doc.Entries {
		if e.Type == typ {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})

	entries = MergeProofs(doc.Proofs, typ, entries)
	return FilterAfter(doc.PurgeAfter, entries), nil
}

// Insert creates a punishment and returns its id. imageURL is stored inline
// in file mode only; the plugin schema has no column for it.
func (r *Records) Insert(ctx context.Context, typ, player, reason, issuer, imageURL string) (int64, error) {
	now := time.Now()

	if r.UseLitebans() {
		return r.Litebans.Insert(ctx, typ, player, reason, issuer, now.UnixMilli())
	}

	var id int64
	err := r.Store.Update(func(doc *models.Document) error {
		id = doc.NextID()
		entry := models.Entry{
			ID:        id,
			Type:      typ,
			Player:    player,
			Reason:    reason,
			CreatedAt: now.UTC().Format(isoFormat),
			Issuer:    &issuer,
		}
		if imageURL != "" {
			entry.ImageURL = &imageURL
		}
		doc.Entries = append(doc.Entries, entry)
		return nil
	})
	return id, err
}

// Delete removes a file-mode entry by id and returns how many were removed.
func (r *Records) Delete(id int64) (int64, error) {
	if r.UseLitebans() {
		return 0, ErrRelationalDelete
	}
	var deleted int64
	err := r.Store.Update(func(doc *models.Document) error {
		kept := doc.Entries[:0]
		for _, e := range doc.Entries {
			if e.ID == id {
				deleted++
				continue
			}
			kept = append(kept, e)
		}
		doc.Entries = kept
		return nil
	})
	return deleted, err
}

// SaveProof upserts the proof attachment for one record, replacing any prior
// image under the same key.
func (r *Records) SaveProof(typ string, id int64, imageURL, addedBy string) error {
	key := ProofKey(typ, id)
	return r.Store.Update(func(doc *models.Document) error {
		proof := models.Proof{
			Key:      key,
			ImageURL: imageURL,
			AddedBy:  addedBy,
			AddedAt:  time.Now().UTC().Format(isoFormat),
		}
		for i := range doc.Proofs {
			if doc.Proofs[i].Key == key {
				doc.Proofs[i] = proof
				return nil
			}
		}
		doc.Proofs = append(doc.Proofs, proof)
		return nil
	})
}

// Stats returns per-type counters. Relational bans/mutes count active rows
// only, kicks count everything; file mode counts all entries by type.
func (r *Records) Stats(ctx context.Context) (Stats, error) {
	doc, err := r.Store.Read()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalSeen: int64(len(doc.PlayersSeen))}

	if r.UseLitebans() {
		if stats.Bans, err = r.Litebans.CountActive(ctx, models.TypeBan); err != nil {
			return Stats{}, err
		}
		if stats.Mutes, err = r.Litebans.CountActive(ctx, models.TypeMute); err != nil {
			return Stats{}, err
		}
		if stats.Kicks, err = r.Litebans.Count(ctx, models.TypeKick); err != nil {
			return Stats{}, err
		}
		return stats, nil
	}

	for _, e := range doc.Entries {
		switch e.Type {
		case models.TypeBan:
			stats.Bans++
		case models.TypeMute:
			stats.Mutes++
		case models.TypeKick:
			stats.Kicks++
		}
	}
	return stats, nil
}
