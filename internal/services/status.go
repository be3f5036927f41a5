package services

import (
	"context"
	"time"

	"github.com/dreamscached/minequery/v2"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/store"
)

// StatusProbeTimeout bounds each server ping.
const StatusProbeTimeout = 5 * time.Second

var statusPinger = minequery.NewPinger(minequery.WithTimeout(StatusProbeTimeout))

// StatusPayload is the public server-status response.
type StatusPayload struct {
	Host          string   `json:"host"`
	Port          int      `json:"port"`
	OnlinePlayers int      `json:"onlinePlayers"`
	MaxPlayers    int      `json:"maxPlayers"`
	SamplePlayers []string `json:"samplePlayers"`
	TotalSeen     int      `json:"totalSeen"`
}

// StatusService probes the game server and keeps the approximate players-seen
// tally (approximate because the server only ever reports a sample).
type StatusService struct {
	Store *store.Store
	Host  string
	Port  int
}

// Snapshot pings the server and records any sample players not seen before.
// The pinger enforces its own probe timeout.
func (s *StatusService) Snapshot(_ context.Context) (*StatusPayload, error) {
	res, err := statusPinger.Ping17(s.Host, s.Port)
	if err != nil {
		return nil, err
	}

	samples := make([]string, 0, len(res.SamplePlayers))
	for _, p := range res.SamplePlayers {
		if p.Nickname != "" {
			samples = append(samples, p.Nickname)
		}
	}

	totalSeen := 0
	err = s.Store.Update(func(doc *models.Document) error {
		now := time.Now().UTC().Format(isoFormat)
		for _, name := range samples {
			if hasSeenPlayer(doc.PlayersSeen, name) {
				continue
			}
			doc.PlayersSeen = append(doc.PlayersSeen, models.PlayerSeen{
				ID:        doc.NextID(),
				Player:    name,
				FirstSeen: now,
			})
		}
		totalSeen = len(doc.PlayersSeen)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &StatusPayload{
		Host:          s.Host,
		Port:          s.Port,
		OnlinePlayers: res.OnlinePlayers,
		MaxPlayers:    res.MaxPlayers,
		SamplePlayers: samples,
		TotalSeen:     totalSeen,
	}, nil
}

func hasSeenPlayer(seen []models.PlayerSeen, name string) bool {
	for _, p := range seen {
		if p.Player == name {
			return true
		}
	}
	return false
}
