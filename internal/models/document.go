package models

// Document is the whole local JSON store. It is read and rewritten wholesale
// on every mutation; Seq hands out ids across all collections.
type Document struct {
	Admins      []Admin      `json:"admins"`
	Entries     []Entry      `json:"entries"`
	PlayersSeen []PlayerSeen `json:"players_seen"`
	Proofs      []Proof      `json:"proofs"`
	Seq         int64        `json:"seq"`
	// PurgeAfter is an operator-edited epoch-ms cutoff. Entries created at or
	// before it are hidden from all public listings. Zero means no cutoff.
	PurgeAfter int64 `json:"purge_after,omitempty"`
}

// NextID returns the next sequence id and advances the counter.
func (d *Document) NextID() int64 {
	if d.Seq < 1 {
		d.Seq = 1
	}
	id := d.Seq
	d.Seq++
	return id
}
