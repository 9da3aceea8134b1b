package domain

import "testing"

func caughtHalf(speciesID int, name string) PlayerHalf {
	return PlayerHalf{Species: name, SpeciesID: speciesID, Status: StatusCaught}
}

func TestPartitionSolo(t *testing.T) {
	encounters := []Encounter{
		{SlotID: "a", Kind: KindStandard, P1: caughtHalf(396, "Starly")},
		{SlotID: "b", Kind: KindStandard, P1: caughtHalf(399, "Bidoof")},
		{SlotID: "c", Kind: KindStandard, P1: PlayerHalf{Status: StatusMissed}, LocationEN: "Route 202", LocationDE: "Route 202"},
		{SlotID: "d", Kind: KindStandard, P1: PlayerHalf{Species: "Shinx", SpeciesID: 403, Status: StatusFainted, FaintCause: "crit"}},
		{SlotID: "e", Kind: KindStandard, P1: PlayerHalf{Status: StatusPending}},
		{SlotID: "ev", Kind: KindEvent, LevelCap: 14},
	}

	b := Partition(encounters, []string{"b"}, ModeSolo)

	if len(b.Team) != 1 || b.Team[0].SlotID != "b" {
		t.Fatalf("unexpected team: %+v", b.Team)
	}
	if len(b.Box) != 1 || b.Box[0].SlotID != "a" {
		t.Fatalf("unexpected box: %+v", b.Box)
	}
	if len(b.Fainted) != 1 || b.Fainted[0].SlotID != "d" {
		t.Fatalf("unexpected fainted: %+v", b.Fainted)
	}
	if len(b.Missed) != 1 || b.Missed[0].LocationEN != "Route 202" {
		t.Fatalf("unexpected missed: %+v", b.Missed)
	}
}

func TestPartitionTeamOrder(t *testing.T) {
	encounters := []Encounter{
		{SlotID: "a", Kind: KindStandard, P1: caughtHalf(1, "A")},
		{SlotID: "b", Kind: KindStandard, P1: caughtHalf(2, "B")},
		{SlotID: "c", Kind: KindStandard, P1: caughtHalf(3, "C")},
	}

	b := Partition(encounters, []string{"c", "a"}, ModeSolo)

	if len(b.Team) != 2 || b.Team[0].SlotID != "c" || b.Team[1].SlotID != "a" {
		t.Fatalf("team order not preserved: %+v", b.Team)
	}
	if len(b.Box) != 1 || b.Box[0].SlotID != "b" {
		t.Fatalf("unexpected box: %+v", b.Box)
	}
}

func TestPartitionPairedHalfResolved(t *testing.T) {
	encounters := []Encounter{
		// Only player 1 has caught; the pair is incomplete.
		{SlotID: "a", Kind: KindStandard, P1: caughtHalf(396, "Starly"), P2: PlayerHalf{Status: StatusPending}},
		// Both halves caught.
		{SlotID: "b", Kind: KindStandard, P1: caughtHalf(399, "Bidoof"), P2: caughtHalf(401, "Kricketot")},
	}

	b := Partition(encounters, nil, ModePaired)

	if len(b.Box) != 1 || b.Box[0].SlotID != "b" {
		t.Fatalf("unexpected box: %+v", b.Box)
	}
	if b.Box[0].P2 == nil || b.Box[0].P2.SpeciesID != 401 {
		t.Fatalf("pair missing second member: %+v", b.Box[0])
	}
}

func TestPartitionPairedFaintEitherHalf(t *testing.T) {
	encounters := []Encounter{
		{
			SlotID: "a",
			Kind:   KindStandard,
			P1:     caughtHalf(396, "Starly"),
			P2:     PlayerHalf{Species: "Bidoof", SpeciesID: 399, Status: StatusFainted, FaintCause: "poison"},
		},
	}

	b := Partition(encounters, []string{"a"}, ModePaired)

	if len(b.Fainted) != 1 {
		t.Fatalf("expected fainted pair, got %+v", b)
	}
	if len(b.Team) != 0 || len(b.Box) != 0 {
		t.Fatalf("fainted pair leaked into another bucket: %+v", b)
	}
}

func TestPartitionSoloIgnoresSecondHalf(t *testing.T) {
	encounters := []Encounter{
		{SlotID: "a", Kind: KindStandard, P1: caughtHalf(396, "Starly"), P2: PlayerHalf{Status: StatusMissed}},
	}

	b := Partition(encounters, nil, ModeSolo)

	if len(b.Box) != 1 || len(b.Missed) != 0 {
		t.Fatalf("solo partition consulted player 2: %+v", b)
	}
	if b.Box[0].P2 != nil {
		t.Fatalf("solo pair carries second member: %+v", b.Box[0])
	}
}
