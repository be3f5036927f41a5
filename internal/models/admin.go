package models

// Staff roles, lowest to highest.
const (
	RoleHelper    = "helper"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Admin is a panel account stored in the local document.
type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// Proof is a locally-owned evidence image attached to a punishment.
// Key is "{type}:{id}" and is the only join to the record stores.
type Proof struct {
	Key      string `json:"key"`
	ImageURL string `json:"image_url"`
	AddedBy  string `json:"added_by"`
	AddedAt  string `json:"added_at"`
}

// PlayerSeen tracks players observed in server-status samples.
type PlayerSeen struct {
	ID        int64  `json:"id"`
	Player    string `json:"player"`
	FirstSeen string `json:"first_seen"`
}
