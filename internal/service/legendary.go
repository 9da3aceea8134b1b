package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
	"github.com/xDerniexD/nuzlocke-tracker/internal/store"
)

// genericSpeciesName labels ledger entries recorded without picking a
// concrete species.
const genericSpeciesName = "Generic"

// AddLegendary appends one entry to the run's legendary ledger. A
// species id of zero records a generic entry; any other id must
// resolve against the reference data.
func (s *Service) AddLegendary(ctx context.Context, runID string, speciesID int, playerID, method, actorID string) ([]domain.LegendaryEncounter, error) {
	_, err := s.authorize(ctx, runID, actorID, "legendary_add")
	if err != nil {
		return nil, err
	}

	name := genericSpeciesName
	if speciesID != 0 {
		sp, err := s.dex.SpeciesByID(ctx, speciesID)
		if err != nil {
			return nil, Upstream("reference data lookup failed")
		}
		if sp == nil {
			return nil, NotFound(fmt.Sprintf("unknown species id %d", speciesID))
		}
		name = sp.NameEN
	}

	entry := &domain.LegendaryEncounter{
		EntryID:     "entry_" + uuid.NewString()[:8],
		SpeciesID:   speciesID,
		SpeciesName: name,
		PlayerID:    playerID,
		Method:      method,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.AddLegendary(ctx, runID, entry); err != nil {
		return nil, err
	}
	return s.publishLegendary(ctx, runID, actorID)
}

// RemoveLegendary deletes one ledger entry by id.
func (s *Service) RemoveLegendary(ctx context.Context, runID, entryID, actorID string) ([]domain.LegendaryEncounter, error) {
	_, err := s.authorize(ctx, runID, actorID, "legendary_remove")
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveLegendary(ctx, runID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("legendary entry not found")
		}
		return nil, err
	}
	return s.publishLegendary(ctx, runID, actorID)
}

// RemoveGenericLegendary deletes the player's most recently added
// generic tally entry.
func (s *Service) RemoveGenericLegendary(ctx context.Context, runID, playerID, actorID string) ([]domain.LegendaryEncounter, error) {
	_, err := s.authorize(ctx, runID, actorID, "legendary_remove")
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveLatestGenericLegendary(ctx, runID, playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("no generic legendary entry to remove")
		}
		return nil, err
	}
	return s.publishLegendary(ctx, runID, actorID)
}

func (s *Service) publishLegendary(ctx context.Context, runID, actorID string) ([]domain.LegendaryEncounter, error) {
	entries, err := s.store.ListLegendary(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.publish(runID, LegendaryUpdatedEvent{
		Type:      EventLegendaryUpdated,
		RunID:     runID,
		SenderID:  actorID,
		Legendary: entries,
	})
	return entries, nil
}
