package service

import (
	"log"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

// Broadcast event types, fanned out to every viewer of a run channel.
// Every event carries the origin actor in sender_id so the author's
// other sessions can recognize their own echo.
const (
	EventRunUpdated          = "run:updated"
	EventRulesUpdated        = "run:rules_updated"
	EventReordered           = "run:reordered"
	EventTeamUpdated         = "run:team_updated"
	EventLegendaryUpdated    = "run:legendary_updated"
	EventParticipantsUpdated = "run:participants_updated"
)

// EncounterUpdatedEvent carries the committed slot delta, not the full
// run. Team is present only when the mutation also changed the team
// list via auto-enrollment.
type EncounterUpdatedEvent struct {
	Type      string            `json:"type"`
	RunID     string            `json:"run_id"`
	SenderID  string            `json:"sender_id"`
	Encounter *domain.Encounter `json:"encounter"`
	Team      []string          `json:"team,omitempty"`
}

type RulesUpdatedEvent struct {
	Type     string       `json:"type"`
	RunID    string       `json:"run_id"`
	SenderID string       `json:"sender_id"`
	Rules    domain.Rules `json:"rules"`
}

// ReorderedEvent carries the full slot list, re-sorted by sequence.
type ReorderedEvent struct {
	Type       string             `json:"type"`
	RunID      string             `json:"run_id"`
	SenderID   string             `json:"sender_id"`
	Encounters []domain.Encounter `json:"encounters"`
}

type TeamUpdatedEvent struct {
	Type     string   `json:"type"`
	RunID    string   `json:"run_id"`
	SenderID string   `json:"sender_id"`
	Team     []string `json:"team"`
}

type LegendaryUpdatedEvent struct {
	Type      string                      `json:"type"`
	RunID     string                      `json:"run_id"`
	SenderID  string                      `json:"sender_id"`
	Legendary []domain.LegendaryEncounter `json:"legendary_encounters"`
}

type ParticipantsUpdatedEvent struct {
	Type         string   `json:"type"`
	RunID        string   `json:"run_id"`
	SenderID     string   `json:"sender_id"`
	Participants []string `json:"participants"`
	Editors      []string `json:"editors"`
}

// publish hands a committed delta to the broadcaster. A failed fan-out
// never fails the request; the mutation is already committed.
func (s *Service) publish(runID string, event interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastJSON(runID, event); err != nil {
		log.Printf("ERROR: failed to broadcast to run %s: %v", runID, err)
	}
}
