package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedRun(t *testing.T, s *SQLiteStore) *domain.Run {
	t.Helper()
	now := time.Now().UTC()
	run := &domain.Run{
		RunID:        "run_test0001",
		RunName:      "Platin Soullink",
		Game:         "platinum",
		Mode:         domain.ModePaired,
		InviteCode:   "abc123",
		SpectatorID:  "spec456789",
		Rules:        domain.DefaultRules(),
		Participants: []string{"u1"},
		Editors:      []string{},
		Team:         []string{},
		Encounters: []domain.Encounter{
			{
				SlotID: "slot_1", Kind: domain.KindStandard,
				LocationDE: "Route 201", LocationEN: "Route 201", Sequence: 1,
				P1: domain.PlayerHalf{Status: domain.StatusPending},
				P2: domain.PlayerHalf{Status: domain.StatusPending},
			},
			{
				SlotID: "slot_2", Kind: domain.KindStandard,
				LocationDE: "Route 202", LocationEN: "Route 202", Sequence: 2,
				P1: domain.PlayerHalf{Status: domain.StatusPending},
				P2: domain.PlayerHalf{Status: domain.StatusPending},
			},
			{
				SlotID: "slot_ev", Kind: domain.KindEvent,
				LocationDE: "Arena Erzelingen", LocationEN: "Oreburgh Gym",
				Sequence: 3, LevelCap: 14, BadgeImage: "coal-badge.png",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	return run
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	seedRun(t, s)
	ctx := context.Background()

	got, err := s.GetRun(ctx, "run_test0001")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("run not found")
	}
	if got.Mode != domain.ModePaired || got.Game != "platinum" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if len(got.Participants) != 1 || got.Participants[0] != "u1" {
		t.Fatalf("unexpected participants: %v", got.Participants)
	}
	if len(got.Encounters) != 3 {
		t.Fatalf("expected 3 encounters, got %d", len(got.Encounters))
	}
	// Encounters come back ordered by sequence.
	if got.Encounters[0].SlotID != "slot_1" || got.Encounters[2].SlotID != "slot_ev" {
		t.Fatalf("encounters out of order: %v, %v", got.Encounters[0].SlotID, got.Encounters[2].SlotID)
	}
	if got.Encounters[2].LevelCap != 14 {
		t.Fatalf("event metadata lost: %+v", got.Encounters[2])
	}
}

func TestGetRunMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetRun(context.Background(), "run_nope")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestGetRunByCodes(t *testing.T) {
	s := newTestStore(t)
	seedRun(t, s)
	ctx := context.Background()

	byInvite, err := s.GetRunByInviteCode(ctx, "abc123")
	if err != nil || byInvite == nil {
		t.Fatalf("GetRunByInviteCode = %+v, %v", byInvite, err)
	}

	bySpec, err := s.GetRunBySpectatorID(ctx, "spec456789")
	if err != nil || bySpec == nil {
		t.Fatalf("GetRunBySpectatorID = %+v, %v", bySpec, err)
	}

	if err := s.ClearInviteCode(ctx, "run_test0001"); err != nil {
		t.Fatalf("ClearInviteCode failed: %v", err)
	}
	gone, err := s.GetRunByInviteCode(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetRunByInviteCode failed: %v", err)
	}
	if gone != nil {
		t.Fatal("cleared invite code still resolves")
	}
}

func TestMembers(t *testing.T) {
	s := newTestStore(t)
	seedRun(t, s)
	ctx := context.Background()

	if err := s.AddMember(ctx, "run_test0001", "u2", domain.RoleParticipant); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := s.AddMember(ctx, "run_test0001", "e1", domain.RoleEditor); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	run, err := s.GetRun(ctx, "run_test0001")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if len(run.Participants) != 2 || len(run.Editors) != 1 {
		t.Fatalf("unexpected members: %v / %v", run.Participants, run.Editors)
	}

	if err := s.RemoveMember(ctx, "run_test0001", "e1"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if err := s.RemoveMember(ctx, "run_test0001", "e1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	runs, err := s.ListRunsForUser(ctx, "u2")
	if err != nil {
		t.Fatalf("ListRunsForUser failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run for u2, got %d", len(runs))
	}
}

func TestUpdateEncounter(t *testing.T) {
	s := newTestStore(t)
	run := seedRun(t, s)
	ctx := context.Background()

	enc := &run.Encounters[0]
	enc.P1 = domain.PlayerHalf{
		Species:   "Starly",
		SpeciesID: 396,
		Types:     []string{"normal", "flying"},
		FamilyID:  169,
		Nickname:  "Pidge",
		Status:    domain.StatusCaught,
	}
	if err := s.UpdateEncounter(ctx, run.RunID, enc); err != nil {
		t.Fatalf("UpdateEncounter failed: %v", err)
	}

	got, err := s.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	h := got.Encounters[0].P1
	if h.SpeciesID != 396 || h.Nickname != "Pidge" || h.Status != domain.StatusCaught {
		t.Fatalf("round-trip mismatch: %+v", h)
	}
	if len(h.Types) != 2 || h.Types[0] != "normal" {
		t.Fatalf("types lost: %v", h.Types)
	}

	enc.SlotID = "slot_missing"
	if err := s.UpdateEncounter(ctx, run.RunID, enc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSequences(t *testing.T) {
	s := newTestStore(t)
	run := seedRun(t, s)
	ctx := context.Background()

	seqs := map[string]float64{"slot_1": 5, "slot_2": 0.5}
	if err := s.UpdateSequences(ctx, run.RunID, seqs); err != nil {
		t.Fatalf("UpdateSequences failed: %v", err)
	}

	got, err := s.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Encounters[0].SlotID != "slot_2" {
		t.Fatalf("reorder not applied: first slot %s", got.Encounters[0].SlotID)
	}
	// Untouched slot keeps its sequence.
	if got.Encounters[1].SlotID != "slot_ev" {
		t.Fatalf("untouched slot moved: %s", got.Encounters[1].SlotID)
	}
}

func TestUpdateTeamAndRules(t *testing.T) {
	s := newTestStore(t)
	run := seedRun(t, s)
	ctx := context.Background()

	if err := s.UpdateTeam(ctx, run.RunID, []string{"slot_2", "slot_1"}); err != nil {
		t.Fatalf("UpdateTeam failed: %v", err)
	}
	rules := domain.Rules{DupesClause: false, ShinyClause: true, CustomRules: "no items in battle"}
	if err := s.UpdateRules(ctx, run.RunID, rules); err != nil {
		t.Fatalf("UpdateRules failed: %v", err)
	}

	got, err := s.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if len(got.Team) != 2 || got.Team[0] != "slot_2" {
		t.Fatalf("team order lost: %v", got.Team)
	}
	if got.Rules.DupesClause || got.Rules.CustomRules != "no items in battle" {
		t.Fatalf("rules mismatch: %+v", got.Rules)
	}
}

func TestArchiveAndDelete(t *testing.T) {
	s := newTestStore(t)
	run := seedRun(t, s)
	ctx := context.Background()

	if err := s.SetArchived(ctx, run.RunID, true); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	got, _ := s.GetRun(ctx, run.RunID)
	if !got.Archived {
		t.Fatal("archived flag not set")
	}

	if err := s.DeleteRun(ctx, run.RunID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	gone, err := s.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if gone != nil {
		t.Fatal("run still present after delete")
	}
	if err := s.DeleteRun(ctx, run.RunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLegendaryLedger(t *testing.T) {
	s := newTestStore(t)
	run := seedRun(t, s)
	ctx := context.Background()

	entries := []*domain.LegendaryEncounter{
		{EntryID: "entry_1", SpeciesID: 487, SpeciesName: "Giratina", PlayerID: "u1", Method: "caught", CreatedAt: time.Now().UTC().Add(-2 * time.Minute)},
		{EntryID: "entry_2", SpeciesID: 0, SpeciesName: "Generic", PlayerID: "u1", CreatedAt: time.Now().UTC().Add(-time.Minute)},
		{EntryID: "entry_3", SpeciesID: 0, SpeciesName: "Generic", PlayerID: "u1", CreatedAt: time.Now().UTC()},
	}
	for _, e := range entries {
		if err := s.AddLegendary(ctx, run.RunID, e); err != nil {
			t.Fatalf("AddLegendary failed: %v", err)
		}
	}

	// Latest generic entry goes first.
	if err := s.RemoveLatestGenericLegendary(ctx, run.RunID, "u1"); err != nil {
		t.Fatalf("RemoveLatestGenericLegendary failed: %v", err)
	}
	list, err := s.ListLegendary(ctx, run.RunID)
	if err != nil {
		t.Fatalf("ListLegendary failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	for _, e := range list {
		if e.EntryID == "entry_3" {
			t.Fatal("latest generic entry survived")
		}
	}

	if err := s.RemoveLegendary(ctx, run.RunID, "entry_1"); err != nil {
		t.Fatalf("RemoveLegendary failed: %v", err)
	}
	if err := s.RemoveLegendary(ctx, run.RunID, "entry_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Last generic gone, another removal reports not found.
	if err := s.RemoveLatestGenericLegendary(ctx, run.RunID, "u1"); err != nil {
		t.Fatalf("RemoveLatestGenericLegendary failed: %v", err)
	}
	if err := s.RemoveLatestGenericLegendary(ctx, run.RunID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
