package domain

// Kind determines which statuses and fields are valid for a slot.
type Kind string

const (
	KindStandard Kind = "standard"
	KindStatic   Kind = "static"
	KindGift     Kind = "gift"
	// KindEvent marks a non-capturable story checkpoint. Event slots carry
	// level-cap metadata and no player halves.
	KindEvent Kind = "event"
)

// Status is the per-half state of an encounter slot.
type Status string

const (
	StatusPending Status = "pending"
	StatusCaught  Status = "caught"
	StatusFainted Status = "fainted"
	StatusMissed  Status = "missed"
	// StatusGift is the initial placeholder of gift slots: the creature is
	// guaranteed, a species selection will immediately follow.
	StatusGift Status = "gift"
)

// DefaultStatus is the status a half resets to when its slot is cleared.
func (k Kind) DefaultStatus() Status {
	if k == KindGift {
		return StatusGift
	}
	return StatusPending
}

// transitions is the explicit-transition legality table. Resets to the
// kind default happen only through Clear, so pending and gift never
// appear as targets here.
var transitions = map[Status]map[Status]bool{
	StatusPending: {StatusCaught: true, StatusMissed: true},
	StatusGift:    {StatusCaught: true},
	StatusCaught:  {StatusCaught: true, StatusFainted: true},
	StatusMissed:  {StatusMissed: true, StatusFainted: true},
	StatusFainted: {StatusFainted: true},
}

// CanTransition reports whether an explicit move from one status to
// another is legal.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// PlayerHalf is one player's view of an encounter slot.
type PlayerHalf struct {
	Species    string   `json:"species,omitempty"`
	SpeciesID  int      `json:"species_id,omitempty"`
	Types      []string `json:"types,omitempty"`
	FamilyID   int      `json:"evolution_chain_id,omitempty"`
	Nickname   string   `json:"nickname,omitempty"`
	Status     Status   `json:"status,omitempty"`
	FaintCause string   `json:"faint_cause,omitempty"`
}

// Clear wipes the half back to its kind-appropriate default.
func (h *PlayerHalf) Clear(kind Kind) {
	*h = PlayerHalf{Status: kind.DefaultStatus()}
}

// Resolved reports whether the half holds a kept creature: caught, or a
// gift placeholder whose species has been filled in.
func (h *PlayerHalf) Resolved() bool {
	return (h.Status == StatusCaught || h.Status == StatusGift) && h.SpeciesID != 0
}

// Encounter is one row of the run timeline.
type Encounter struct {
	SlotID     string  `json:"slot_id"`
	Kind       Kind    `json:"kind"`
	LocationDE string  `json:"location_de"`
	LocationEN string  `json:"location_en"`
	Sequence   float64 `json:"sequence"`

	// Event metadata, only meaningful for KindEvent.
	LevelCap   int    `json:"level_cap,omitempty"`
	BadgeImage string `json:"badge_image,omitempty"`

	P1 PlayerHalf `json:"p1"`
	P2 PlayerHalf `json:"p2"`
}

// Half returns the addressed player half; player is 1 or 2.
func (e *Encounter) Half(player int) *PlayerHalf {
	if player == 2 {
		return &e.P2
	}
	return &e.P1
}
