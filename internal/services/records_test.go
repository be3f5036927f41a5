package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemc-uz/bytemc-backend/internal/litebans"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/store"
)

func newFileRecords(t *testing.T) *Records {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return &Records{Store: st}
}

// fakeSource stands in for the LiteBans client in relational-mode tests.
type fakeSource struct {
	rows map[string][]litebans.RawRow
}

func (f *fakeSource) Prefix() string { return "litebans_" }

func (f *fakeSource) TableNames(context.Context) ([]string, error) { return nil, nil }

func (f *fakeSource) CountActive(_ context.Context, typ string) (int64, error) {
	return int64(len(f.rows[typ])), nil
}
func (f *fakeSource) Count(ctx context.Context, typ string) (int64, error) {
	return f.CountActive(ctx, typ)
}
func (f *fakeSource) Insert(context.Context, string, string, string, string, int64) (int64, error) {
	return 1, nil
}
func (f *fakeSource) ListRows(_ context.Context, typ string) ([]litebans.RawRow, error) {
	return f.rows[typ], nil
}

func TestRecordsInsertAndList(t *testing.T) {
	r := newFileRecords(t)
	ctx := context.Background()

	id1, err := r.Insert(ctx, models.TypeBan, "First", "r1", "mod1", "")
	require.NoError(t, err)
	id2, err := r.Insert(ctx, models.TypeBan, "Second", "r2", "mod1", "/uploads/x.png")
	require.NoError(t, err)
	_, err = r.Insert(ctx, models.TypeMute, "Other", "quiet", "helper1", "")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	bans, err := r.List(ctx, models.TypeBan)
	require.NoError(t, err)
	require.Len(t, bans, 2, "mutes stay out of the ban listing")
	for _, e := range bans {
		require.NotNil(t, e.Issuer)
		assert.Equal(t, "mod1", *e.Issuer)
	}

	var withImage *models.Entry
	for i := range bans {
		if bans[i].ID == id2 {
			withImage = &bans[i]
		}
	}
	require.NotNil(t, withImage)
	require.NotNil(t, withImage.ImageURL)
	assert.Equal(t, "/uploads/x.png", *withImage.ImageURL)
}

func TestRecordsListNewestFirst(t *testing.T) {
	r := newFileRecords(t)
	ctx := context.Background()

	// back-date entries directly so ordering does not depend on wall time
	require.NoError(t, r.Store.Update(func(doc *models.Document) error {
		for i, ts := range []string{
			"2024-01-01T00:00:00.000Z",
			"2024-03-01T00:00:00.000Z",
			"2024-02-01T00:00:00.000Z",
		} {
			doc.Entries = append(doc.Entries, models.Entry{
				ID:        doc.NextID(),
				Type:      models.TypeBan,
				Player:    string(rune('A' + i)),
				Reason:    "r",
				CreatedAt: ts,
			})
		}
		return nil
	}))

	bans, err := r.List(ctx, models.TypeBan)
	require.NoError(t, err)
	require.Len(t, bans, 3)
	assert.Equal(t, "B", bans[0].Player)
	assert.Equal(t, "C", bans[1].Player)
	assert.Equal(t, "A", bans[2].Player)
}

func TestRecordsListAppliesCutoff(t *testing.T) {
	r := newFileRecords(t)
	ctx := context.Background()

	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Store.Update(func(doc *models.Document) error {
		doc.PurgeAfter = cutoff.UnixMilli()
		doc.Entries = []models.Entry{
			{ID: 1, Type: models.TypeBan, Player: "Old", Reason: "r", CreatedAt: "2024-01-01T00:00:00.000Z"},
			{ID: 2, Type: models.TypeBan, Player: "New", Reason: "r", CreatedAt: "2024-07-01T00:00:00.000Z"},
		}
		return nil
	}))

	bans, err := r.List(ctx, models.TypeBan)
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, "New", bans[0].Player)
}

func TestRecordsListSurvivesUnreadableDocumentInLitebansMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	st, err := store.New(path)
	require.NoError(t, err)
	// corrupt the document after open; purge_after is hand-edited at runtime,
	// so a botched edit must not take down the public listings
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))

	r := &Records{Store: st, Litebans: &fakeSource{rows: map[string][]litebans.RawRow{
		models.TypeBan: {{"id": int64(1), "time": int64(1_700_000_000), "name": "Steve", "reason": "x-ray"}},
	}}}

	entries, err := r.List(context.Background(), models.TypeBan)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Steve", entries[0].Player)
	assert.Nil(t, entries[0].ImageURL, "served without the proof overlay")
}

func TestRecordsListOverlayAndCutoffApplyInLitebansMode(t *testing.T) {
	r := newFileRecords(t)
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Store.Update(func(doc *models.Document) error {
		doc.PurgeAfter = cutoff.UnixMilli()
		doc.Proofs = []models.Proof{{Key: "ban:2", ImageURL: "/uploads/p.png"}}
		return nil
	}))
	r.Litebans = &fakeSource{rows: map[string][]litebans.RawRow{
		models.TypeBan: {
			{"id": int64(1), "time": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), "name": "Old"},
			{"id": int64(2), "time": time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), "name": "New"},
		},
	}}

	entries, err := r.List(context.Background(), models.TypeBan)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New", entries[0].Player)
	require.NotNil(t, entries[0].ImageURL)
	assert.Equal(t, "/uploads/p.png", *entries[0].ImageURL)
}

func TestRecordsListFileModeFailsOnUnreadableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	st, err := store.New(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))

	r := &Records{Store: st}
	_, err = r.List(context.Background(), models.TypeBan)
	assert.Error(t, err, "the document is the backing store here")
}

func TestRecordsDelete(t *testing.T) {
	r := newFileRecords(t)
	ctx := context.Background()

	id, err := r.Insert(ctx, models.TypeKick, "Target", "afk", "admin", "")
	require.NoError(t, err)

	deleted, err := r.Delete(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = r.Delete(id)
	require.NoError(t, err)
	assert.Zero(t, deleted, "second delete finds nothing")
}

func TestRecordsSaveProofUpserts(t *testing.T) {
	r := newFileRecords(t)

	require.NoError(t, r.SaveProof(models.TypeBan, 7, "/uploads/a.png", "admin"))
	require.NoError(t, r.SaveProof(models.TypeBan, 7, "/uploads/b.png", "mod1"))

	doc, err := r.Store.Read()
	require.NoError(t, err)
	require.Len(t, doc.Proofs, 1)
	assert.Equal(t, "/uploads/b.png", doc.Proofs[0].ImageURL)
	assert.Equal(t, "mod1", doc.Proofs[0].AddedBy)
}

func TestRecordsStatsFileMode(t *testing.T) {
	r := newFileRecords(t)
	ctx := context.Background()

	for _, typ := range []string{models.TypeBan, models.TypeBan, models.TypeMute} {
		_, err := r.Insert(ctx, typ, "P", "r", "admin", "")
		require.NoError(t, err)
	}
	require.NoError(t, r.Store.Update(func(doc *models.Document) error {
		doc.PlayersSeen = append(doc.PlayersSeen, models.PlayerSeen{ID: 1, Player: "Steve"})
		return nil
	}))

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Bans: 2, Mutes: 1, Kicks: 0, TotalSeen: 1}, stats)
}
