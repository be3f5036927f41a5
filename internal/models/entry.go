package models

// Punishment types. IDs are unique per type, not globally.
const (
	TypeBan  = "ban"
	TypeMute = "mute"
	TypeKick = "kick"
)

// ValidType reports whether t is one of the three punishment types.
func ValidType(t string) bool {
	return t == TypeBan || t == TypeMute || t == TypeKick
}

// Entry is the canonical public punishment record served by the listing API.
// Issuer and Active are omitted (not null) when the backing source does not
// track them; callers treat a missing Active as "assume active".
type Entry struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Player    string  `json:"player"`
	Reason    string  `json:"reason"`
	ImageURL  *string `json:"image_url"`
	CreatedAt string  `json:"created_at"`
	Issuer    *string `json:"issuer,omitempty"`
	ExpiresAt *string `json:"expires_at"`
	Duration  *string `json:"duration"`
	Active    *bool   `json:"active,omitempty"`
}
