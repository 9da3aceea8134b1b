// Package domain defines the core domain model for tracked runs.
package domain

import "time"

// Mode distinguishes a single-player run from a linked two-player run.
type Mode string

const (
	ModeSolo   Mode = "solo"
	ModePaired Mode = "paired"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSolo || m == ModePaired
}

// Role is a run member's permission level.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleEditor      Role = "editor"
	// RoleSpectator is never stored; it is the implied role of a
	// share-token viewer.
	RoleSpectator Role = "spectator"
)

// Rules is the run's house-rule configuration.
type Rules struct {
	DupesClause bool   `json:"dupes_clause"`
	ShinyClause bool   `json:"shiny_clause"`
	CustomRules string `json:"custom_rules"`
}

// DefaultRules matches the rule set a new run starts with.
func DefaultRules() Rules {
	return Rules{DupesClause: true, ShinyClause: true}
}

// LegendaryEncounter is one entry of the out-of-timeline rare-encounter
// ledger. SpeciesID 0 marks a genericized, species-less tally entry.
type LegendaryEncounter struct {
	EntryID     string    `json:"entry_id"`
	SpeciesID   int       `json:"species_id"`
	SpeciesName string    `json:"species_name"`
	PlayerID    string    `json:"player_id"`
	Method      string    `json:"method,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamCapacity is the maximum number of slots enrolled in the active team.
const TeamCapacity = 6

// Run is the aggregate root for one tracked playthrough.
type Run struct {
	RunID    string `json:"run_id"`
	RunName  string `json:"run_name"`
	Game     string `json:"game"`
	Mode     Mode   `json:"mode"`
	Archived bool   `json:"archived"`

	// InviteCode is the one-time token a second participant joins with.
	// Cleared once the run is full.
	InviteCode       string `json:"invite_code,omitempty"`
	EditorInviteCode string `json:"editor_invite_code,omitempty"`
	SpectatorID      string `json:"spectator_id,omitempty"`

	Rules        Rules    `json:"rules"`
	Participants []string `json:"participants"`
	Editors      []string `json:"editors"`

	// Team holds the ordered slot ids of the active team, capacity 6.
	Team []string `json:"team"`

	Encounters []Encounter          `json:"encounters"`
	Legendary  []LegendaryEncounter `json:"legendary_encounters"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleOf resolves a user's role in the run, or "" for non-members.
func (r *Run) RoleOf(userID string) Role {
	for _, p := range r.Participants {
		if p == userID {
			return RoleParticipant
		}
	}
	for _, e := range r.Editors {
		if e == userID {
			return RoleEditor
		}
	}
	return ""
}

// IsMember reports whether the user is a participant or editor.
func (r *Run) IsMember(userID string) bool {
	return r.RoleOf(userID) != ""
}

// EncounterByID returns a pointer into Encounters, or nil.
func (r *Run) EncounterByID(slotID string) *Encounter {
	for i := range r.Encounters {
		if r.Encounters[i].SlotID == slotID {
			return &r.Encounters[i]
		}
	}
	return nil
}

// OnTeam reports whether the slot id is already enrolled.
func (r *Run) OnTeam(slotID string) bool {
	for _, id := range r.Team {
		if id == slotID {
			return true
		}
	}
	return false
}
