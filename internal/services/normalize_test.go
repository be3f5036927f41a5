package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemc-uz/bytemc-backend/internal/litebans"
)

func TestMapRowTimestampMagnitudeHeuristic(t *testing.T) {
	// the same instant encoded as seconds and as milliseconds
	seconds := litebans.RawRow{"id": int64(1), "time": int64(1_700_000_000)}
	millis := litebans.RawRow{"id": int64(2), "time": int64(1_700_000_000_000)}

	a := MapRow("ban", seconds)
	b := MapRow("ban", millis)

	assert.Equal(t, "2023-11-14T22:13:20.000Z", a.CreatedAt)
	assert.Equal(t, a.CreatedAt, b.CreatedAt)

	// the floor itself still counts as seconds (strict comparison)
	boundary := MapRow("ban", litebans.RawRow{"id": int64(3), "time": int64(10_000_000_000)})
	assert.Equal(t, "2286-11-20T17:46:40.000Z", boundary.CreatedAt)
}

func TestMapRowMySQLTextProtocolValues(t *testing.T) {
	// the mysql driver returns []byte for every column in text protocol
	row := litebans.RawRow{
		"id":     []byte("7"),
		"time":   []byte("1700000000"),
		"name":   []byte("Steve"),
		"reason": []byte("griefing"),
		"active": []byte("1"),
	}
	e := MapRow("mute", row)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, "Steve", e.Player)
	assert.Equal(t, "griefing", e.Reason)
	require.NotNil(t, e.Active)
	assert.True(t, *e.Active)
}

func TestMapRowDurationPresentIffExpiryPresent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		start := int64(1_600_000_000_000 + rng.Intn(1_000_000_000))
		row := litebans.RawRow{"id": int64(i), "time": start}
		if rng.Intn(2) == 0 {
			row["until"] = start + int64(rng.Intn(90*24*3600*1000))
		}
		e := MapRow("ban", row)
		if e.ExpiresAt == nil {
			assert.Nil(t, e.Duration)
		} else {
			assert.NotNil(t, e.Duration)
		}
	}
}

func TestMapRowNinetyMinuteDuration(t *testing.T) {
	start := int64(1_700_000_000_000)
	row := litebans.RawRow{
		"id":    int64(1),
		"time":  start,
		"until": start + 90*60*1000,
	}
	e := MapRow("mute", row)
	require.NotNil(t, e.Duration)
	assert.Equal(t, "1 soat 30 daqiqa", *e.Duration)
}

func TestMapRowZeroDurationSentinel(t *testing.T) {
	start := int64(1_700_000_000_000)
	row := litebans.RawRow{"id": int64(1), "time": start, "until": start}
	e := MapRow("ban", row)
	require.NotNil(t, e.ExpiresAt)
	require.NotNil(t, e.Duration)
	assert.Equal(t, "<1 sekund", *e.Duration)
}

func TestMapRowZeroUntilMeansPermanent(t *testing.T) {
	row := litebans.RawRow{"id": int64(1), "time": int64(1_700_000_000), "until": int64(0)}
	e := MapRow("ban", row)
	assert.Nil(t, e.ExpiresAt)
	assert.Nil(t, e.Duration)
}

func TestMapRowIssuerFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		row  litebans.RawRow
		want string
	}{
		{"type specific wins", litebans.RawRow{"banned_by_name": "Alex", "actor_name": "Nope"}, "Alex"},
		{"generic actor", litebans.RawRow{"actor_name": "Alex"}, "Alex"},
		{"executor", litebans.RawRow{"executor_name": "Alex"}, "Alex"},
		{"staff", litebans.RawRow{"staff": "Alex"}, "Alex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := MapRow("ban", tc.row)
			require.NotNil(t, e.Issuer)
			assert.Equal(t, tc.want, *e.Issuer)
		})
	}

	e := MapRow("ban", litebans.RawRow{"banned_by_name": ""})
	assert.Nil(t, e.Issuer, "absent issuer stays absent, never empty string")
}

func TestMapRowPlayerFallback(t *testing.T) {
	e := MapRow("kick", litebans.RawRow{"uuid": "ab-cd"})
	assert.Equal(t, "ab-cd", e.Player)

	e = MapRow("kick", litebans.RawRow{})
	assert.Equal(t, "unknown", e.Player)
}

func TestMapRowReasonSentinel(t *testing.T) {
	e := MapRow("ban", litebans.RawRow{"reason": ""})
	assert.Equal(t, "No reason", e.Reason)
}

func TestMapRowActiveTriState(t *testing.T) {
	e := MapRow("ban", litebans.RawRow{})
	assert.Nil(t, e.Active, "untracked active stays absent")

	e = MapRow("ban", litebans.RawRow{"active": int64(0)})
	require.NotNil(t, e.Active)
	assert.False(t, *e.Active)

	e = MapRow("ban", litebans.RawRow{"active": true})
	require.NotNil(t, e.Active)
	assert.True(t, *e.Active)
}

func TestMapRowMissingTimestampDefaultsToNow(t *testing.T) {
	before := time.Now().Add(-2 * time.Second)
	e := MapRow("ban", litebans.RawRow{"id": int64(1)})
	created, err := time.Parse(time.RFC3339, e.CreatedAt)
	require.NoError(t, err)
	assert.True(t, created.After(before))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "<1 sekund", HumanDuration(0))
	assert.Equal(t, "45 sekund", HumanDuration(45))
	assert.Equal(t, "2 daqiqa", HumanDuration(120))
	assert.Equal(t, "1 soat 30 daqiqa", HumanDuration(5400))
	assert.Equal(t, "1 kun", HumanDuration(86400))
	assert.Equal(t, "1 kun 1 soat 1 daqiqa 1 sekund", HumanDuration(86400+3661))
	assert.Equal(t, "<1 sekund", HumanDuration(-5), "negative clamps to the sentinel")
}
