package domain

// LockedFamilies collects the evolutionary-family ids one player has
// locked in this run: every caught or gift half with a known family.
func LockedFamilies(encounters []Encounter, player int) map[int]bool {
	locked := make(map[int]bool)
	for i := range encounters {
		h := encounters[i].Half(player)
		if (h.Status == StatusCaught || h.Status == StatusGift) && h.FamilyID != 0 {
			locked[h.FamilyID] = true
		}
	}
	return locked
}

// IsDuplicate decides whether selecting a species of the given family
// violates the dupes clause against the opposite player's locked-in
// set. A species without family data is never flagged, and neither is
// anything while the clause is off.
func IsDuplicate(clauseOn bool, familyID int, otherLocked map[int]bool) bool {
	if !clauseOn || familyID == 0 {
		return false
	}
	return otherLocked[familyID]
}
