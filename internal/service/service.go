// Package service orchestrates run mutations: validate, commit,
// broadcast.
package service

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/xDerniexD/nuzlocke-tracker/internal/adapter/dex"
	"github.com/xDerniexD/nuzlocke-tracker/internal/config"
	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
	"github.com/xDerniexD/nuzlocke-tracker/internal/store"
	"github.com/xDerniexD/nuzlocke-tracker/policy"
)

// Broadcaster fans committed mutations out to every viewer of a run's
// channel.
type Broadcaster interface {
	BroadcastJSON(runID string, v interface{}) error
}

type Service struct {
	store        store.Store
	hub          Broadcaster
	dex          dex.Lookup
	policyEngine *policy.Engine
	config       *config.Config
}

func New(st store.Store, hub Broadcaster, dexClient dex.Lookup, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        st,
		hub:          hub,
		dex:          dexClient,
		policyEngine: policyEngine,
		config:       cfg,
	}
}

// authorize loads the run and checks the actor's role against the
// access policy for the action. Missing run is NotFound; a denied or
// unknown actor is Forbidden.
func (s *Service) authorize(ctx context.Context, runID, userID, action string) (*domain.Run, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, NotFound("run not found")
	}
	role := run.RoleOf(userID)
	allowed, err := s.policyEngine.Allow(ctx, string(role), action)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, Forbidden("no permission for this action")
	}
	return run, nil
}

const codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newCode generates an n-character share/invite token.
func newCode(n int) (string, error) {
	code := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}
