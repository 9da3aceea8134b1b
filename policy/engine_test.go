package policy

import (
	"context"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{"participant", "get_run", true},
		{"participant", "update_encounter", true},
		{"participant", "delete_run", true},
		{"participant", "invite_editor", true},
		{"editor", "get_run", true},
		{"editor", "update_encounter", true},
		{"editor", "replace_rules", true},
		{"editor", "legendary_add", true},
		{"editor", "delete_run", false},
		{"editor", "invite_editor", false},
		{"editor", "remove_editor", false},
		{"editor", "archive_run", false},
		{"spectator", "get_run", true},
		{"spectator", "update_encounter", false},
		{"", "get_run", false},
		{"", "update_encounter", false},
	}

	ctx := context.Background()
	for _, tc := range cases {
		got, err := engine.Allow(ctx, tc.role, tc.action)
		if err != nil {
			t.Fatalf("Allow(%q, %q) failed: %v", tc.role, tc.action, err)
		}
		if got != tc.want {
			t.Errorf("Allow(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestBrokenPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "package run_access\n\ndecision :="); err == nil {
		t.Fatal("expected compile error")
	}
}
