package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytemc-uz/bytemc-backend/internal/litebans"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// epochMillisFloor: raw timestamps above this are already milliseconds,
// anything below is seconds. LiteBans writes epoch ms, but forks and older
// schemas store seconds; the magnitude split keeps both readable.
const epochMillisFloor = 10_000_000_000

// isoFormat matches the upstream API contract (millisecond precision, UTC).
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// MapRow converts one raw schema row into the canonical public record.
// It is total: missing or unparseable fields degrade to documented fallbacks
// and never produce an error.
func MapRow(typ string, row litebans.RawRow) models.Entry {
	nowMillis := time.Now().UnixMilli()

	rawTime, ok := rawNumber(row["time"])
	if !ok {
		rawTime, ok = rawNumber(row["created"])
	}
	startMillis := nowMillis
	if ok {
		startMillis = toMillis(rawTime)
	}
	createdAt := time.UnixMilli(startMillis).UTC().Format(isoFormat)

	var issuer *string
	for _, key := range []string{"banned_by_name", "muted_by_name", "kicked_by_name", "actor_name", "executor_name", "staff"} {
		if s := rawString(row[key]); s != "" {
			issuer = &s
			break
		}
	}

	player := "unknown"
	for _, key := range []string{"name", "player", "uuid"} {
		if s := rawString(row[key]); s != "" {
			player = s
			break
		}
	}

	reason := rawString(row["reason"])
	if reason == "" {
		reason = "No reason"
	}

	var id int64
	if n, ok := rawNumber(row["id"]); ok {
		id = n
	} else if n, ok := rawNumber(row["punishment_id"]); ok {
		id = n
	}

	var expiresAt, duration *string
	rawUntil, ok := rawNumber(row["until"])
	if !ok {
		rawUntil, ok = rawNumber(row["expires"])
	}
	if ok && rawUntil > 0 {
		untilMillis := toMillis(rawUntil)
		iso := time.UnixMilli(untilMillis).UTC().Format(isoFormat)
		expiresAt = &iso
		seconds := (untilMillis - startMillis) / 1000
		if seconds < 0 {
			seconds = 0
		}
		phrase := HumanDuration(seconds)
		duration = &phrase
	}

	return models.Entry{
		ID:        id,
		Type:      typ,
		Player:    player,
		Reason:    reason,
		ImageURL:  nil,
		CreatedAt: createdAt,
		Issuer:    issuer,
		ExpiresAt: expiresAt,
		Duration:  duration,
		Active:    rawBool(row["active"]),
	}
}

// HumanDuration renders seconds as an Uzbek phrase of non-zero day, hour,
// minute and second components. Zero renders the "<1 sekund" sentinel.
func HumanDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	seconds -= days * 86400
	hours := seconds / 3600
	seconds -= hours * 3600
	minutes := seconds / 60
	seconds -= minutes * 60

	var parts []string
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+" kun")
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+" soat")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+" daqiqa")
	}
	if seconds > 0 {
		parts = append(parts, strconv.FormatInt(seconds, 10)+" sekund")
	}
	if len(parts) == 0 {
		return "<1 sekund"
	}
	return strings.Join(parts, " ")
}

func toMillis(n int64) int64 {
	// strictly greater: epochMillisFloor itself still reads as seconds,
	// preserving the comparison listings have always used (the boundary
	// value is not a reachable real-world timestamp either way)
	if n > epochMillisFloor {
		return n
	}
	return n * 1000
}

// rawString extracts a non-trivial string from a scanned value. MySQL's text
// protocol hands back []byte for every column, so both forms are handled.
func rawString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	default:
		return ""
	}
}

func rawNumber(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		return parseNumber(string(n))
	case string:
		return parseNumber(n)
	default:
		return 0, false
	}
}

func parseNumber(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// rawBool reads the tri-state active flag: nil means the source does not
// track it, which is distinct from false.
func rawBool(v interface{}) *bool {
	if v == nil {
		return nil
	}
	switch b := v.(type) {
	case bool:
		return &b
	default:
		if n, ok := rawNumber(v); ok {
			val := n != 0
			return &val
		}
		if s := rawString(v); s != "" {
			val := strings.EqualFold(s, "true")
			return &val
		}
		return nil
	}
}
