package domain

import "errors"

var (
	ErrEventSlot          = errors.New("event slots carry no player halves")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrSpeciesRequired    = errors.New("cannot mark caught without a species")
	ErrFaintCauseRequired = errors.New("fainted status requires a cause")
)

// SpeciesSelection is a resolved species choice from the reference data.
type SpeciesSelection struct {
	Name      string   `json:"name"`
	SpeciesID int      `json:"species_id"`
	Types     []string `json:"types"`
	FamilyID  int      `json:"evolution_chain_id"`
}

// HalfUpdate is one committed mutation of a player half. Nil fields are
// left untouched.
type HalfUpdate struct {
	Species    *SpeciesSelection
	Nickname   *string
	Status     *Status
	FaintCause *string
}

// ApplyHalfUpdate mutates one half of a slot under the status state
// machine. Selecting a species while the half is pending or gift
// implicitly marks it caught; an already resolved or failed half keeps
// its status. The returned flag reports whether this update moved the
// half into caught from pending or gift, which is what the team
// auto-enroll hook keys on.
func ApplyHalfUpdate(e *Encounter, player int, upd HalfUpdate) (newlyCaught bool, err error) {
	if e.Kind == KindEvent {
		return false, ErrEventSlot
	}
	h := e.Half(player)
	prev := h.Status

	if upd.Species != nil {
		h.Species = upd.Species.Name
		h.SpeciesID = upd.Species.SpeciesID
		h.Types = upd.Species.Types
		h.FamilyID = upd.Species.FamilyID
	}
	if upd.Nickname != nil {
		h.Nickname = *upd.Nickname
	}
	if upd.FaintCause != nil {
		h.FaintCause = *upd.FaintCause
	}

	target := prev
	if upd.Status != nil {
		target = *upd.Status
	}
	if upd.Species != nil && (target == StatusPending || target == StatusGift) {
		target = StatusCaught
	}

	if target != prev {
		if !CanTransition(prev, target) {
			return false, ErrIllegalTransition
		}
		switch target {
		case StatusCaught:
			if h.SpeciesID == 0 {
				return false, ErrSpeciesRequired
			}
		case StatusFainted:
			if h.FaintCause == "" {
				return false, ErrFaintCauseRequired
			}
		}
		h.Status = target
	}

	return (prev == StatusPending || prev == StatusGift) && h.Status == StatusCaught, nil
}

// ClearHalf resets one half of a slot to its kind default, wiping
// species, nickname and faint cause atomically.
func ClearHalf(e *Encounter, player int) error {
	if e.Kind == KindEvent {
		return ErrEventSlot
	}
	e.Half(player).Clear(e.Kind)
	return nil
}
