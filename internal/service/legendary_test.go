package service

import (
	"context"
	"testing"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

func TestLegendaryLedger(t *testing.T) {
	svc, h, _ := newTestService(t)
	ctx := context.Background()
	run := createRun(t, svc, domain.ModeSolo, "u1")

	entries, err := svc.AddLegendary(ctx, run.RunID, 487, "u1", "caught", "u1")
	if err != nil {
		t.Fatalf("AddLegendary failed: %v", err)
	}
	if len(entries) != 1 || entries[0].SpeciesName != "Giratina" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	evt, ok := h.last().(LegendaryUpdatedEvent)
	if !ok || evt.Type != EventLegendaryUpdated || len(evt.Legendary) != 1 {
		t.Fatalf("unexpected event: %+v", h.last())
	}

	// Generic entries carry no species.
	entries, err = svc.AddLegendary(ctx, run.RunID, 0, "u1", "", "u1")
	if err != nil {
		t.Fatalf("AddLegendary failed: %v", err)
	}
	if len(entries) != 2 || entries[1].SpeciesName != "Generic" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	entries, err = svc.RemoveGenericLegendary(ctx, run.RunID, "u1", "u1")
	if err != nil {
		t.Fatalf("RemoveGenericLegendary failed: %v", err)
	}
	if len(entries) != 1 || entries[0].SpeciesID != 487 {
		t.Fatalf("wrong entry removed: %+v", entries)
	}

	entries, err = svc.RemoveLegendary(ctx, run.RunID, entries[0].EntryID, "u1")
	if err != nil {
		t.Fatalf("RemoveLegendary failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ledger not empty: %+v", entries)
	}
}

func TestAddLegendaryUnknownSpecies(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	run := createRun(t, svc, domain.ModeSolo, "u1")

	_, err := svc.AddLegendary(ctx, run.RunID, 9999, "u1", "", "u1")
	svcErr, ok := AsError(err)
	if !ok || svcErr.Kind != KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRemoveGenericLegendaryEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	run := createRun(t, svc, domain.ModeSolo, "u1")

	_, err := svc.RemoveGenericLegendary(ctx, run.RunID, "u1", "u1")
	svcErr, ok := AsError(err)
	if !ok || svcErr.Kind != KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
