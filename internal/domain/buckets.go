package domain

// PairMember is the display view of one creature inside a pair.
type PairMember struct {
	SpeciesID int      `json:"species_id"`
	Species   string   `json:"species"`
	Nickname  string   `json:"nickname,omitempty"`
	Types     []string `json:"types,omitempty"`
}

// Pair aggregates the one or two player halves of a slot for bucket
// classification.
type Pair struct {
	SlotID string      `json:"slot_id"`
	P1     *PairMember `json:"p1,omitempty"`
	P2     *PairMember `json:"p2,omitempty"`
	// LocationDE/EN are set on missed pairs only, so an empty missed
	// entry still communicates where it was missed.
	LocationDE string `json:"location_de,omitempty"`
	LocationEN string `json:"location_en,omitempty"`
}

// Buckets is the derived partition of a run's encounter list.
type Buckets struct {
	Team    []Pair `json:"team"`
	Box     []Pair `json:"box"`
	Fainted []Pair `json:"fainted"`
	Missed  []Pair `json:"missed"`
}

func member(h *PlayerHalf) *PairMember {
	if h.SpeciesID == 0 {
		return nil
	}
	return &PairMember{
		SpeciesID: h.SpeciesID,
		Species:   h.Species,
		Nickname:  h.Nickname,
		Types:     h.Types,
	}
}

// Partition derives the four disjoint buckets from the encounter list,
// the ordered team-membership list and the run mode. It is pure: no
// bucket membership is persisted except the team id list itself.
//
// Fainted takes priority over every other classification, then missed.
// A pair counts as available only when paired-complete: in solo mode
// half 1 is resolved, in paired mode both halves are. A half-resolved
// paired slot lands in no bucket until the other half resolves or
// fails.
func Partition(encounters []Encounter, team []string, mode Mode) Buckets {
	onTeam := make(map[string]bool, len(team))
	for _, id := range team {
		onTeam[id] = true
	}

	var b Buckets
	byID := make(map[string]Pair)

	for i := range encounters {
		enc := &encounters[i]
		if enc.Kind == KindEvent {
			continue
		}

		p1 := member(&enc.P1)
		var p2 *PairMember
		if mode == ModePaired {
			p2 = member(&enc.P2)
		}
		pair := Pair{SlotID: enc.SlotID, P1: p1, P2: p2}

		switch {
		case enc.P1.Status == StatusFainted || (mode == ModePaired && enc.P2.Status == StatusFainted):
			if p1 != nil || p2 != nil {
				b.Fainted = append(b.Fainted, pair)
			}
		case enc.P1.Status == StatusMissed || (mode == ModePaired && enc.P2.Status == StatusMissed):
			pair.LocationDE = enc.LocationDE
			pair.LocationEN = enc.LocationEN
			b.Missed = append(b.Missed, pair)
		case enc.P1.Resolved():
			if mode == ModePaired && !enc.P2.Resolved() {
				break // half-resolved, no bucket yet
			}
			byID[enc.SlotID] = pair
			if !onTeam[enc.SlotID] {
				b.Box = append(b.Box, pair)
			}
		}
	}

	// Team keeps the membership list's order.
	for _, id := range team {
		if pair, ok := byID[id]; ok {
			b.Team = append(b.Team, pair)
		}
	}
	return b
}
