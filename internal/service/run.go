package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
	"github.com/xDerniexD/nuzlocke-tracker/internal/gamedata"
)

// CreateRunRequest holds the caller's input for a new run.
type CreateRunRequest struct {
	RunName string      `json:"run_name"`
	Game    string      `json:"game"`
	Mode    domain.Mode `json:"mode"`
}

// CreateRun generates the full timeline for the title and persists the
// new run atomically; a missing catalogue leaves nothing behind.
func (s *Service) CreateRun(ctx context.Context, req CreateRunRequest, ownerID string) (*domain.Run, error) {
	if req.RunName == "" {
		return nil, Invalid("run_name is required")
	}
	if req.Game == "" {
		return nil, Invalid("game is required")
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeSolo
	}
	if !mode.Valid() {
		return nil, Invalid("mode must be solo or paired")
	}

	cat, err := gamedata.Load(req.Game)
	if err != nil {
		return nil, Invalid(fmt.Sprintf("unknown game %q", req.Game))
	}

	spectatorID, err := newCode(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate spectator id: %w", err)
	}
	editorCode, err := newCode(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate editor invite code: %w", err)
	}

	now := time.Now()
	run := &domain.Run{
		RunID:            "run_" + uuid.New().String()[:8],
		RunName:          req.RunName,
		Game:             req.Game,
		Mode:             mode,
		Rules:            domain.DefaultRules(),
		Participants:     []string{ownerID},
		Editors:          []string{},
		Team:             []string{},
		Encounters:       gamedata.BuildTimeline(cat, mode),
		SpectatorID:      spectatorID,
		EditorInviteCode: editorCode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if mode == domain.ModePaired {
		invite, err := newCode(6)
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}
		run.InviteCode = invite
	}

	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// JoinRun adds the user as the second participant of a paired run. The
// invite token is invalidated as soon as the run is full.
func (s *Service) JoinRun(ctx context.Context, inviteCode, userID string) (*domain.Run, error) {
	run, err := s.store.GetRunByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, NotFound("no run with this invite code")
	}
	if len(run.Participants) >= 2 {
		return nil, Invalid("this run is already full")
	}
	if run.IsMember(userID) {
		return nil, Invalid("you are already part of this run")
	}

	if err := s.store.AddMember(ctx, run.RunID, userID, domain.RoleParticipant); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	if err := s.store.ClearInviteCode(ctx, run.RunID); err != nil {
		return nil, fmt.Errorf("failed to invalidate invite code: %w", err)
	}

	run, err = s.store.GetRun(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	s.publish(run.RunID, ParticipantsUpdatedEvent{
		Type:         EventParticipantsUpdated,
		RunID:        run.RunID,
		SenderID:     userID,
		Participants: run.Participants,
		Editors:      run.Editors,
	})
	return run, nil
}

// JoinAsEditor adds the user as an editor via the editor invite code.
func (s *Service) JoinAsEditor(ctx context.Context, editorInviteCode, userID string) (*domain.Run, error) {
	if editorInviteCode == "" {
		return nil, Invalid("editor invite code is required")
	}
	run, err := s.store.GetRunByEditorInviteCode(ctx, editorInviteCode)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, NotFound("no run with this invite code")
	}
	if run.IsMember(userID) {
		return nil, Invalid("you are already part of this run")
	}

	if err := s.store.AddMember(ctx, run.RunID, userID, domain.RoleEditor); err != nil {
		return nil, fmt.Errorf("failed to add editor: %w", err)
	}

	run, err = s.store.GetRun(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	s.publish(run.RunID, ParticipantsUpdatedEvent{
		Type:         EventParticipantsUpdated,
		RunID:        run.RunID,
		SenderID:     userID,
		Participants: run.Participants,
		Editors:      run.Editors,
	})
	return run, nil
}

// EditorInviteCode returns the run's editor invite code, minting one on
// first use. Participant-only.
func (s *Service) EditorInviteCode(ctx context.Context, runID, userID string) (string, error) {
	run, err := s.authorize(ctx, runID, userID, "invite_editor")
	if err != nil {
		return "", err
	}
	if run.EditorInviteCode == "" {
		code, err := newCode(8)
		if err != nil {
			return "", fmt.Errorf("failed to generate editor invite code: %w", err)
		}
		if err := s.store.SetEditorInviteCode(ctx, runID, code); err != nil {
			return "", err
		}
		return code, nil
	}
	return run.EditorInviteCode, nil
}

// RemoveEditor drops an editor from the run. Participant-only.
func (s *Service) RemoveEditor(ctx context.Context, runID, editorID, userID string) (*domain.Run, error) {
	run, err := s.authorize(ctx, runID, userID, "remove_editor")
	if err != nil {
		return nil, err
	}
	if run.RoleOf(editorID) != domain.RoleEditor {
		return nil, NotFound("editor not found")
	}
	if err := s.store.RemoveMember(ctx, runID, editorID); err != nil {
		return nil, err
	}
	run, err = s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.publish(runID, ParticipantsUpdatedEvent{
		Type:         EventParticipantsUpdated,
		RunID:        runID,
		SenderID:     userID,
		Participants: run.Participants,
		Editors:      run.Editors,
	})
	return run, nil
}

// ListRuns returns every run the user belongs to.
func (s *Service) ListRuns(ctx context.Context, userID string) ([]domain.Run, error) {
	return s.store.ListRunsForUser(ctx, userID)
}

// GetRun returns the full run for a member.
func (s *Service) GetRun(ctx context.Context, runID, userID string) (*domain.Run, error) {
	return s.authorize(ctx, runID, userID, "get_run")
}

// Spectate resolves a spectator share token to a read-only projection
// of the run: no invite tokens are exposed.
func (s *Service) Spectate(ctx context.Context, spectatorID string) (*domain.Run, error) {
	run, err := s.store.GetRunBySpectatorID(ctx, spectatorID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, NotFound("no run with this spectator id")
	}
	run.InviteCode = ""
	run.EditorInviteCode = ""
	return run, nil
}

// ToggleArchive flips the run's archived flag. Participant-only.
func (s *Service) ToggleArchive(ctx context.Context, runID, userID string) (*domain.Run, error) {
	run, err := s.authorize(ctx, runID, userID, "archive_run")
	if err != nil {
		return nil, err
	}
	if err := s.store.SetArchived(ctx, runID, !run.Archived); err != nil {
		return nil, err
	}
	run.Archived = !run.Archived
	return run, nil
}

// DeleteRun hard-deletes the run. Participant-only.
func (s *Service) DeleteRun(ctx context.Context, runID, userID string) error {
	if _, err := s.authorize(ctx, runID, userID, "delete_run"); err != nil {
		return err
	}
	return s.store.DeleteRun(ctx, runID)
}
