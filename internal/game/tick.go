package game

import (
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// Tick runs one frame: motion, collision, purge, enemy fire, round
// evaluation and presentation sync, in that order. dt is the clock time
// since the previous tick. Outside PhasePlaying it does nothing.
//
// The returned events are valid until the next call. The only error is a
// failed persisted write when the round ends; the round still ends.
func (s *State) Tick(in input.Input) ([]Event, error) {
	if s.delivered {
		s.events = s.events[:0]
	}
	s.delivered = true

	if s.phase != PhasePlaying {
		return s.events, nil
	}

	now := s.clock.Now()
	delta := now.Sub(s.lastTime)
	if delta < 0 {
		delta = 0
	}
	s.lastTime = now

	ctx := object.UpdateContext{
		Delta:   delta,
		Now:     now,
		Input:   in,
		Rules:   &s.rules,
		Spawner: s,
	}

	s.updateMotion(ctx)
	s.resolveCollisions()
	s.purge()
	s.updateEnemyWeapons(ctx)
	err := s.evaluate()
	s.syncPresentation()

	return s.events, err
}

// updateMotion moves the player (firing if requested), the formation and every laser.
func (s *State) updateMotion(ctx object.UpdateContext) {
	if s.player != nil && !s.player.IsDestroyed() {
		s.player.Update(ctx)
	}

	for _, e := range s.enemies {
		if !e.IsDestroyed() {
			e.Update(ctx)
		}
	}

	for _, p := range s.playerLasers {
		p.Update(ctx)
	}
	for _, p := range s.enemyLasers {
		p.Update(ctx)
	}
}

// evaluate ends the round when the player is gone or no enemies remain.
// A player hit takes priority over clearing the formation in the same tick.
func (s *State) evaluate() error {
	switch {
	case s.player == nil:
		return s.finish(PhaseLost)
	case len(s.enemies) == 0:
		return s.finish(PhaseWon)
	}
	return nil
}

// syncPresentation reports every live entity's position and the HUD if it changed.
func (s *State) syncPresentation() {
	if s.player != nil {
		s.emit(bodyEvent(EntityMoved, &s.player.Body))
	}
	for _, e := range s.enemies {
		ev := bodyEvent(EntityMoved, &e.Body)
		ev.Variant = e.Variant
		s.emit(ev)
	}
	for _, p := range s.playerLasers {
		s.emit(bodyEvent(EntityMoved, &p.Body))
	}
	for _, p := range s.enemyLasers {
		s.emit(bodyEvent(EntityMoved, &p.Body))
	}
	s.syncHUD()
}

// syncHUD emits HUDChanged when the displayed values differ from the last ones sent.
func (s *State) syncHUD() {
	hud := s.HUD()
	if s.hudSent && hud == s.hud {
		return
	}
	s.hud = hud
	s.hudSent = true
	s.emit(Event{Type: HUDChanged, HUD: hud})
}
