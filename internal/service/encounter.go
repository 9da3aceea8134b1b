package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

// EncounterUpdate is one caller-proposed mutation of a single player
// half. ConfirmDupe acknowledges a previously flagged duplicate-family
// warning; without it a flagged selection is rejected.
type EncounterUpdate struct {
	Player      int     `json:"player"`
	SpeciesID   *int    `json:"species_id,omitempty"`
	SpeciesName string  `json:"species_name,omitempty"`
	Nickname    *string `json:"nickname,omitempty"`
	Status      *string `json:"status,omitempty"`
	FaintCause  *string `json:"faint_cause,omitempty"`
	ConfirmDupe bool    `json:"confirm_dupe,omitempty"`
}

func (s *Service) targetHalf(run *domain.Run, player int) (int, error) {
	switch player {
	case 0, 1:
		return 1, nil
	case 2:
		if run.Mode != domain.ModePaired {
			return 0, Invalid("player 2 only exists on paired runs")
		}
		return 2, nil
	default:
		return 0, Invalid("player must be 1 or 2")
	}
}

// UpdateEncounter validates and commits one slot mutation, then hands
// the delta to the broadcaster. The full path is synchronous: a failed
// validation never reaches the channel.
func (s *Service) UpdateEncounter(ctx context.Context, runID, slotID string, upd EncounterUpdate, actorID string) (*domain.Encounter, error) {
	run, err := s.authorize(ctx, runID, actorID, "update_encounter")
	if err != nil {
		return nil, err
	}
	enc := run.EncounterByID(slotID)
	if enc == nil {
		return nil, NotFound("encounter not found")
	}
	player, err := s.targetHalf(run, upd.Player)
	if err != nil {
		return nil, err
	}

	halfUpd := domain.HalfUpdate{
		Nickname:   upd.Nickname,
		FaintCause: upd.FaintCause,
	}
	if upd.Status != nil {
		status := domain.Status(*upd.Status)
		switch status {
		case domain.StatusCaught, domain.StatusFainted, domain.StatusMissed:
		default:
			return nil, Invalid(fmt.Sprintf("cannot set status %q directly", *upd.Status))
		}
		halfUpd.Status = &status
	}

	if upd.SpeciesID != nil {
		selection, err := s.resolveSpecies(ctx, *upd.SpeciesID, upd.SpeciesName)
		if err != nil {
			return nil, err
		}
		if run.Mode == domain.ModePaired {
			other := 3 - player
			locked := domain.LockedFamilies(run.Encounters, other)
			if domain.IsDuplicate(run.Rules.DupesClause, selection.FamilyID, locked) && !upd.ConfirmDupe {
				return nil, &Error{
					Kind:         KindValidation,
					Message:      "species duplicates a family already locked in by the partner",
					DupeConflict: true,
				}
			}
		}
		halfUpd.Species = selection
	}

	newlyCaught, err := domain.ApplyHalfUpdate(enc, player, halfUpd)
	if err != nil {
		return nil, mapDomainErr(err)
	}

	if err := s.store.UpdateEncounter(ctx, runID, enc); err != nil {
		return nil, err
	}

	// Auto-enrollment is a post-commit hook, not state-machine logic.
	event := EncounterUpdatedEvent{
		Type:      EventRunUpdated,
		RunID:     runID,
		SenderID:  actorID,
		Encounter: enc,
	}
	if newlyCaught {
		enrolled, err := s.enrollOnCapture(ctx, run, enc)
		if err != nil {
			return nil, err
		}
		if enrolled {
			event.Team = run.Team
		}
	}

	s.publish(runID, event)
	return enc, nil
}

// enrollOnCapture appends a newly caught slot to the team when the
// team has room and the slot's paired-completion condition is met.
// Idempotent: a slot already on the team is not duplicated.
func (s *Service) enrollOnCapture(ctx context.Context, run *domain.Run, enc *domain.Encounter) (bool, error) {
	if len(run.Team) >= domain.TeamCapacity || run.OnTeam(enc.SlotID) {
		return false, nil
	}
	complete := enc.P1.Resolved()
	if run.Mode == domain.ModePaired {
		complete = complete && enc.P2.Resolved()
	}
	if !complete {
		return false, nil
	}
	run.Team = append(run.Team, enc.SlotID)
	if err := s.store.UpdateTeam(ctx, run.RunID, run.Team); err != nil {
		return false, fmt.Errorf("failed to enroll slot into team: %w", err)
	}
	return true, nil
}

// resolveSpecies verifies a selection against the reference data and
// returns the canonical record. A species id with no resolvable
// metadata aborts the mutation.
func (s *Service) resolveSpecies(ctx context.Context, speciesID int, displayName string) (*domain.SpeciesSelection, error) {
	sp, err := s.dex.SpeciesByID(ctx, speciesID)
	if err != nil {
		return nil, Upstream("reference data lookup failed")
	}
	if sp == nil {
		return nil, Invalid(fmt.Sprintf("unknown species id %d", speciesID))
	}
	name := displayName
	if name == "" {
		name = sp.NameEN
	}
	return &domain.SpeciesSelection{
		Name:      name,
		SpeciesID: sp.ID,
		Types:     sp.Types,
		FamilyID:  sp.EvolutionChainID,
	}, nil
}

// ClearEncounter wipes a slot back to its kind default: species,
// nickname and faint cause gone, status reset. Player 0 clears both
// halves. A cleared slot that no longer holds a kept creature also
// leaves the team.
func (s *Service) ClearEncounter(ctx context.Context, runID, slotID string, player int, actorID string) (*domain.Encounter, error) {
	run, err := s.authorize(ctx, runID, actorID, "clear_encounter")
	if err != nil {
		return nil, err
	}
	enc := run.EncounterByID(slotID)
	if enc == nil {
		return nil, NotFound("encounter not found")
	}

	if player == 0 {
		if err := domain.ClearHalf(enc, 1); err != nil {
			return nil, mapDomainErr(err)
		}
		if run.Mode == domain.ModePaired {
			if err := domain.ClearHalf(enc, 2); err != nil {
				return nil, mapDomainErr(err)
			}
		}
	} else {
		p, err := s.targetHalf(run, player)
		if err != nil {
			return nil, err
		}
		if err := domain.ClearHalf(enc, p); err != nil {
			return nil, mapDomainErr(err)
		}
	}

	if err := s.store.UpdateEncounter(ctx, runID, enc); err != nil {
		return nil, err
	}

	event := EncounterUpdatedEvent{
		Type:      EventRunUpdated,
		RunID:     runID,
		SenderID:  actorID,
		Encounter: enc,
	}
	if run.OnTeam(slotID) && !enc.P1.Resolved() && !enc.P2.Resolved() {
		team := make([]string, 0, len(run.Team))
		for _, id := range run.Team {
			if id != slotID {
				team = append(team, id)
			}
		}
		run.Team = team
		if err := s.store.UpdateTeam(ctx, runID, team); err != nil {
			return nil, err
		}
		event.Team = team
	}

	s.publish(runID, event)
	return enc, nil
}

// Evolve replaces a half's species with the next stage of its
// evolution path, leaving status, nickname and the family id intact.
func (s *Service) Evolve(ctx context.Context, runID, slotID string, player int, actorID string) (*domain.Encounter, error) {
	run, err := s.authorize(ctx, runID, actorID, "evolve_encounter")
	if err != nil {
		return nil, err
	}
	enc := run.EncounterByID(slotID)
	if enc == nil {
		return nil, NotFound("encounter not found")
	}
	p, err := s.targetHalf(run, player)
	if err != nil {
		return nil, err
	}
	half := enc.Half(p)
	if half.SpeciesID == 0 {
		return nil, Invalid("no species to evolve")
	}
	if half.FamilyID == 0 {
		return nil, Invalid("no evolution data for this species")
	}

	stages, err := s.dex.EvolutionChain(ctx, half.FamilyID)
	if err != nil {
		return nil, Upstream("reference data lookup failed")
	}
	if len(stages) == 0 {
		return nil, Invalid("no evolution data for this species")
	}

	next := -1
	for i, stage := range stages {
		if stage.SpeciesID == half.SpeciesID && i+1 < len(stages) {
			next = i + 1
			break
		}
	}
	if next == -1 {
		return nil, Invalid("this is the final evolution stage")
	}

	half.Species = stages[next].NameEN
	half.SpeciesID = stages[next].SpeciesID
	half.Types = stages[next].Types

	if err := s.store.UpdateEncounter(ctx, runID, enc); err != nil {
		return nil, err
	}
	s.publish(runID, EncounterUpdatedEvent{
		Type:      EventRunUpdated,
		RunID:     runID,
		SenderID:  actorID,
		Encounter: enc,
	})
	return enc, nil
}

// ReorderItem assigns a new sequence number to one slot.
type ReorderItem struct {
	SlotID   string  `json:"slot_id"`
	Sequence float64 `json:"sequence"`
}

// Reorder applies new sequence numbers to the named slots only; the
// rest keep their place. All-or-nothing: a malformed payload is
// rejected before any slot is touched.
func (s *Service) Reorder(ctx context.Context, runID string, items []ReorderItem, actorID string) ([]domain.Encounter, error) {
	run, err := s.authorize(ctx, runID, actorID, "reorder_encounters")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, Invalid("no reorder data")
	}

	seqs := make(map[string]float64, len(items))
	for _, item := range items {
		if item.SlotID == "" {
			return nil, Invalid("reorder entries need a slot_id")
		}
		seqs[item.SlotID] = item.Sequence
	}

	if err := s.store.UpdateSequences(ctx, runID, seqs); err != nil {
		return nil, err
	}

	run, err = s.store.GetRun(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	s.publish(runID, ReorderedEvent{
		Type:       EventReordered,
		RunID:      runID,
		SenderID:   actorID,
		Encounters: run.Encounters,
	})
	return run.Encounters, nil
}

// ReplaceTeam swaps the ordered team-membership list. Which of the
// available pairs are active is a user choice, so this is the only
// bucket that is persisted.
func (s *Service) ReplaceTeam(ctx context.Context, runID string, team []string, actorID string) error {
	run, err := s.authorize(ctx, runID, actorID, "replace_team")
	if err != nil {
		return err
	}
	if len(team) > domain.TeamCapacity {
		return Invalid(fmt.Sprintf("team cannot exceed %d members", domain.TeamCapacity))
	}
	seen := make(map[string]bool, len(team))
	for _, slotID := range team {
		if seen[slotID] {
			return Invalid("team contains a slot twice")
		}
		seen[slotID] = true
		enc := run.EncounterByID(slotID)
		if enc == nil {
			return Invalid(fmt.Sprintf("unknown slot %s in team", slotID))
		}
		if !enc.P1.Resolved() && !enc.P2.Resolved() {
			return Invalid(fmt.Sprintf("slot %s holds no kept creature", slotID))
		}
	}
	if team == nil {
		team = []string{}
	}
	if err := s.store.UpdateTeam(ctx, runID, team); err != nil {
		return err
	}
	s.publish(runID, TeamUpdatedEvent{
		Type:     EventTeamUpdated,
		RunID:    runID,
		SenderID: actorID,
		Team:     team,
	})
	return nil
}

// ReplaceRules swaps the run's full rule set.
func (s *Service) ReplaceRules(ctx context.Context, runID string, rules domain.Rules, actorID string) (*domain.Run, error) {
	run, err := s.authorize(ctx, runID, actorID, "replace_rules")
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateRules(ctx, runID, rules); err != nil {
		return nil, err
	}
	run.Rules = rules
	s.publish(runID, RulesUpdatedEvent{
		Type:     EventRulesUpdated,
		RunID:    runID,
		SenderID: actorID,
		Rules:    rules,
	})
	return run, nil
}

// Buckets derives the Team/Box/Fainted/Missed partition for a member.
func (s *Service) Buckets(ctx context.Context, runID, userID string) (*domain.Buckets, error) {
	run, err := s.authorize(ctx, runID, userID, "get_run")
	if err != nil {
		return nil, err
	}
	b := domain.Partition(run.Encounters, run.Team, run.Mode)
	return &b, nil
}

func mapDomainErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrEventSlot),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrSpeciesRequired),
		errors.Is(err, domain.ErrFaintCauseRequired):
		return Invalid(err.Error())
	default:
		return err
	}
}
