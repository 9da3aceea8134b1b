// Package gamedata loads the static per-title location/event catalogues
// and generates the initial encounter timeline for a new run.
package gamedata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// Name is a bilingual display name.
type Name struct {
	DE string `json:"de"`
	EN string `json:"en"`
}

// Location is one catalogue entry that can yield encounter slots.
type Location struct {
	Name                 Name     `json:"name"`
	Sequence             float64  `json:"sequence"`
	HasStandardEncounter bool     `json:"hasStandardEncounter"`
	StaticEncounters     []string `json:"staticEncounters"`
	GiftPokemon          []string `json:"giftPokemon"`
}

// Event is a boss/checkpoint catalogue entry.
type Event struct {
	Name       Name    `json:"name"`
	Type       string  `json:"type"`
	LevelCap   int     `json:"levelCap"`
	BadgeImage string  `json:"badgeImage"`
	Sequence   float64 `json:"sequence"`
}

// Catalogue is the full static definition for one game title.
type Catalogue struct {
	Game      string     `json:"game"`
	Locations []Location `json:"locations"`
	Events    []Event    `json:"events"`
}

// Load resolves a game title to its embedded catalogue.
func Load(game string) (*Catalogue, error) {
	raw, err := dataFS.ReadFile("data/" + game + ".json")
	if err != nil {
		return nil, fmt.Errorf("no catalogue for game %q: %w", game, err)
	}
	var cat Catalogue
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("catalogue for game %q is malformed: %w", game, err)
	}
	return &cat, nil
}

const fallbackSequence = 999

func newSlotID() string {
	return "slot_" + uuid.New().String()[:8]
}

// BuildTimeline produces the full ordered encounter-slot list for a new
// run. Per location: one standard slot if it offers a default random
// encounter, one static slot at sequence+0.1 and one gift slot at
// sequence+0.2 so the sub-slots sort directly after their location.
// Gift halves start in the gift status since a gift cannot be missed;
// half 2 only in paired mode. Events default to sequence 999.
func BuildTimeline(cat *Catalogue, mode domain.Mode) []domain.Encounter {
	var timeline []domain.Encounter

	for _, loc := range cat.Locations {
		seq := loc.Sequence
		if seq == 0 {
			seq = fallbackSequence
		}
		if loc.HasStandardEncounter {
			timeline = append(timeline, domain.Encounter{
				SlotID:     newSlotID(),
				Kind:       domain.KindStandard,
				LocationDE: loc.Name.DE,
				LocationEN: loc.Name.EN,
				Sequence:   seq,
				P1:         domain.PlayerHalf{Status: domain.StatusPending},
				P2:         domain.PlayerHalf{Status: domain.StatusPending},
			})
		}
		if len(loc.StaticEncounters) > 0 {
			timeline = append(timeline, domain.Encounter{
				SlotID:     newSlotID(),
				Kind:       domain.KindStatic,
				LocationDE: loc.Name.DE + " (Static)",
				LocationEN: loc.Name.EN + " (Static)",
				Sequence:   seq + 0.1,
				P1:         domain.PlayerHalf{Status: domain.StatusPending},
				P2:         domain.PlayerHalf{Status: domain.StatusPending},
			})
		}
		if len(loc.GiftPokemon) > 0 {
			gift := domain.Encounter{
				SlotID:     newSlotID(),
				Kind:       domain.KindGift,
				LocationDE: loc.Name.DE + " (Geschenk)",
				LocationEN: loc.Name.EN + " (Gift)",
				Sequence:   seq + 0.2,
				P1:         domain.PlayerHalf{Status: domain.StatusGift},
				P2:         domain.PlayerHalf{Status: domain.StatusPending},
			}
			if mode == domain.ModePaired {
				gift.P2.Status = domain.StatusGift
			}
			timeline = append(timeline, gift)
		}
	}

	for _, evt := range cat.Events {
		seq := evt.Sequence
		if seq == 0 {
			seq = fallbackSequence
		}
		timeline = append(timeline, domain.Encounter{
			SlotID:     newSlotID(),
			Kind:       domain.KindEvent,
			LocationDE: evt.Name.DE,
			LocationEN: evt.Name.EN,
			LevelCap:   evt.LevelCap,
			BadgeImage: evt.BadgeImage,
			Sequence:   seq,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Sequence < timeline[j].Sequence
	})
	return timeline
}
