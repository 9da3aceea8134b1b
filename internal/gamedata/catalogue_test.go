package gamedata

import (
	"sort"
	"strings"
	"testing"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

func TestLoadUnknownGame(t *testing.T) {
	if _, err := Load("emerald"); err == nil {
		t.Fatal("expected error for unknown game")
	}
}

func TestLoadPlatinum(t *testing.T) {
	cat, err := Load("platinum")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Game != "platinum" {
		t.Fatalf("game = %q", cat.Game)
	}
	if len(cat.Locations) == 0 || len(cat.Events) == 0 {
		t.Fatalf("catalogue incomplete: %d locations, %d events", len(cat.Locations), len(cat.Events))
	}
}

func TestBuildTimelineOrdering(t *testing.T) {
	cat, err := Load("platinum")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	timeline := BuildTimeline(cat, domain.ModeSolo)

	if !sort.SliceIsSorted(timeline, func(i, j int) bool {
		return timeline[i].Sequence < timeline[j].Sequence
	}) {
		t.Fatal("timeline not sorted by sequence")
	}

	seen := make(map[string]bool, len(timeline))
	for _, enc := range timeline {
		if seen[enc.SlotID] {
			t.Fatalf("duplicate slot id %s", enc.SlotID)
		}
		seen[enc.SlotID] = true
	}
}

func TestBuildTimelineSubSlots(t *testing.T) {
	cat := &Catalogue{
		Game: "test",
		Locations: []Location{
			{
				Name:                 Name{DE: "Windkraftwerk", EN: "Valley Windworks"},
				Sequence:             10,
				HasStandardEncounter: true,
				StaticEncounters:     []string{"drifloon"},
				GiftPokemon:          []string{"eevee"},
			},
		},
	}
	timeline := BuildTimeline(cat, domain.ModeSolo)

	if len(timeline) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(timeline))
	}
	std, static, gift := timeline[0], timeline[1], timeline[2]

	if std.Kind != domain.KindStandard || std.Sequence != 10 {
		t.Fatalf("unexpected standard slot: %+v", std)
	}
	if static.Kind != domain.KindStatic || static.Sequence != 10.1 {
		t.Fatalf("unexpected static slot: %+v", static)
	}
	if !strings.HasSuffix(static.LocationEN, " (Static)") {
		t.Fatalf("static location = %q", static.LocationEN)
	}
	if gift.Kind != domain.KindGift || gift.Sequence != 10.2 {
		t.Fatalf("unexpected gift slot: %+v", gift)
	}
	if !strings.HasSuffix(gift.LocationDE, " (Geschenk)") || !strings.HasSuffix(gift.LocationEN, " (Gift)") {
		t.Fatalf("gift locations = %q / %q", gift.LocationDE, gift.LocationEN)
	}
}

func TestBuildTimelineGiftStatusByMode(t *testing.T) {
	cat := &Catalogue{
		Game: "test",
		Locations: []Location{
			{Name: Name{DE: "Ewigenau", EN: "Eterna City"}, Sequence: 1, GiftPokemon: []string{"togepi-egg"}},
		},
	}

	solo := BuildTimeline(cat, domain.ModeSolo)
	if solo[0].P1.Status != domain.StatusGift {
		t.Fatalf("solo P1 status = %s", solo[0].P1.Status)
	}
	if solo[0].P2.Status != domain.StatusPending {
		t.Fatalf("solo P2 status = %s", solo[0].P2.Status)
	}

	paired := BuildTimeline(cat, domain.ModePaired)
	if paired[0].P2.Status != domain.StatusGift {
		t.Fatalf("paired P2 status = %s", paired[0].P2.Status)
	}
}

func TestBuildTimelineEventFallbackSequence(t *testing.T) {
	cat := &Catalogue{
		Game: "test",
		Locations: []Location{
			{Name: Name{DE: "Route 201", EN: "Route 201"}, Sequence: 1, HasStandardEncounter: true},
		},
		Events: []Event{
			{Name: Name{DE: "Top Vier", EN: "Elite Four"}, Type: "boss", LevelCap: 60},
		},
	}
	timeline := BuildTimeline(cat, domain.ModeSolo)

	last := timeline[len(timeline)-1]
	if last.Kind != domain.KindEvent || last.Sequence != 999 {
		t.Fatalf("event without sequence not pushed to the end: %+v", last)
	}
	if last.LevelCap != 60 {
		t.Fatalf("level cap lost: %+v", last)
	}
}
