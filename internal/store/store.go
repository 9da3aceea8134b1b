// Package store persists run documents and their encounter timelines.
package store

import (
	"context"
	"errors"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

// ErrNotFound is returned by mutations targeting a missing record.
// Getters return nil for missing records instead.
var ErrNotFound = errors.New("record not found")

// Store is the record-store capability the services depend on. Partial
// updates happen at the granularity of one encounter slot, the rules
// sub-document or the team list; overlapping writes to the same unit
// resolve last-write-wins.
type Store interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	GetRunByInviteCode(ctx context.Context, code string) (*domain.Run, error)
	GetRunByEditorInviteCode(ctx context.Context, code string) (*domain.Run, error)
	GetRunBySpectatorID(ctx context.Context, spectatorID string) (*domain.Run, error)
	ListRunsForUser(ctx context.Context, userID string) ([]domain.Run, error)
	DeleteRun(ctx context.Context, runID string) error

	AddMember(ctx context.Context, runID, userID string, role domain.Role) error
	RemoveMember(ctx context.Context, runID, userID string) error
	ClearInviteCode(ctx context.Context, runID string) error
	SetEditorInviteCode(ctx context.Context, runID, code string) error
	SetArchived(ctx context.Context, runID string, archived bool) error

	UpdateEncounter(ctx context.Context, runID string, enc *domain.Encounter) error
	UpdateSequences(ctx context.Context, runID string, seqs map[string]float64) error
	UpdateTeam(ctx context.Context, runID string, team []string) error
	UpdateRules(ctx context.Context, runID string, rules domain.Rules) error

	AddLegendary(ctx context.Context, runID string, entry *domain.LegendaryEncounter) error
	RemoveLegendary(ctx context.Context, runID, entryID string) error
	RemoveLatestGenericLegendary(ctx context.Context, runID, playerID string) error
	ListLegendary(ctx context.Context, runID string) ([]domain.LegendaryEncounter, error)

	Close() error
}
