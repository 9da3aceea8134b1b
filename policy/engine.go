// Package policy decides whether a run member may perform an action,
// expressed as a rego policy over (role, action).
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine evaluates the run-access policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.run_access.decision"),
		rego.Module("run_access.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Input is the evaluation input for one authorization check.
type Input struct {
	Role   string `json:"role"`
	Action string `json:"action"`
}

// Allow evaluates the policy for the given role and action. Anything
// the policy does not explicitly allow is denied.
func (e *Engine) Allow(ctx context.Context, role, action string) (bool, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(Input{Role: role, Action: action}))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return false, nil
	}
	return decision == "allow", nil
}

// DefaultPolicy is the shipped run-access policy. Participants hold
// full rights; editors may mutate run content but not membership or
// lifecycle; spectators read only.
const DefaultPolicy = `
package run_access

default decision := "deny"

read_actions := {"get_run"}

edit_actions := {
	"update_encounter",
	"clear_encounter",
	"evolve_encounter",
	"reorder_encounters",
	"replace_team",
	"replace_rules",
	"legendary_add",
	"legendary_remove",
}

decision := "allow" if input.role == "participant"

decision := "allow" if {
	input.role == "editor"
	input.action in edit_actions
}

decision := "allow" if {
	input.role == "editor"
	input.action in read_actions
}

decision := "allow" if {
	input.role == "spectator"
	input.action in read_actions
}
`
