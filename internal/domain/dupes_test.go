package domain

import "testing"

func TestLockedFamilies(t *testing.T) {
	encounters := []Encounter{
		{SlotID: "a", P1: PlayerHalf{SpeciesID: 396, FamilyID: 169, Status: StatusCaught}},
		{SlotID: "b", P1: PlayerHalf{SpeciesID: 399, FamilyID: 170, Status: StatusFainted}},
		{SlotID: "c", P1: PlayerHalf{SpeciesID: 133, FamilyID: 67, Status: StatusGift}},
		{SlotID: "d", P1: PlayerHalf{Status: StatusPending}},
		{SlotID: "e", P2: PlayerHalf{SpeciesID: 403, FamilyID: 171, Status: StatusCaught}},
	}

	locked := LockedFamilies(encounters, 1)

	if !locked[169] || !locked[67] {
		t.Fatalf("caught/gift families missing: %v", locked)
	}
	if locked[170] {
		t.Fatal("fainted half counted as locked")
	}
	if locked[171] {
		t.Fatal("player 2 family leaked into player 1 set")
	}
}

func TestIsDuplicate(t *testing.T) {
	locked := map[int]bool{169: true}

	if !IsDuplicate(true, 169, locked) {
		t.Fatal("locked family not flagged")
	}
	if IsDuplicate(true, 170, locked) {
		t.Fatal("unlocked family flagged")
	}
	if IsDuplicate(false, 169, locked) {
		t.Fatal("flagged while clause is off")
	}
	if IsDuplicate(true, 0, locked) {
		t.Fatal("species without family data flagged")
	}
}
