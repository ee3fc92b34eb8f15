package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/store"
)

// Session strings levels together: each level is a fresh State built from
// whatever progress the previous one persisted.
type Session struct {
	gateway *store.Gateway
	rules   config.Rules
	opts    []Option
	rng     *rand.Rand
}

// NewSession creates a session that loads and saves through gw. opts are
// applied to every level; a WithRand option overrides the session's own source.
func NewSession(gw *store.Gateway, rules config.Rules, opts ...Option) *Session {
	return &Session{
		gateway: gw,
		rules:   rules,
		opts:    opts,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Progress loads the persisted progress.
func (s *Session) Progress() (store.Progress, error) {
	return s.gateway.Load()
}

// NewLevel builds the next level from the persisted progress.
func (s *Session) NewLevel() (*State, error) {
	progress, err := s.gateway.Load()
	if err != nil {
		return nil, fmt.Errorf("start level: %w", err)
	}

	opts := make([]Option, 0, len(s.opts)+2)
	opts = append(opts, WithRand(s.rng))
	opts = append(opts, s.opts...)
	opts = append(opts, WithGateway(s.gateway))
	return NewState(s.rules, progress, opts...), nil
}
