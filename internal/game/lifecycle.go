package game

import (
	"fmt"

	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/store"
)

// Compile-time check that State can spawn projectiles.
var _ object.Spawner = (*State)(nil)

// Spawn adds a laser to its collection and assigns its ID. Enemy lasers
// beyond the configured cap are dropped.
func (s *State) Spawn(p *object.Projectile) bool {
	if s.phase != PhasePlaying || p == nil || p.IsDestroyed() {
		return false
	}

	switch p.Kind {
	case object.KindPlayerLaser:
		p.ID = s.ids.Next()
		s.playerLasers = append(s.playerLasers, p)
	case object.KindEnemyLaser:
		if len(s.enemyLasers) >= s.rules.MaxEnemyLasers {
			return false
		}
		p.ID = s.ids.Next()
		s.enemyLasers = append(s.enemyLasers, p)
	default:
		return false
	}

	s.emit(bodyEvent(EntityCreated, &p.Body))
	s.emit(bodyEvent(ShotFired, &p.Body))
	return true
}

// updateEnemyWeapons ticks every enemy's cooldown and lets ready enemies fire.
func (s *State) updateEnemyWeapons(ctx object.UpdateContext) {
	for _, e := range s.enemies {
		e.UpdateWeapon(ctx)
	}
}

// purge removes destroyed entities from their collections, reusing the
// backing arrays, and tells presentation about each removal.
func (s *State) purge() {
	if s.player != nil && s.player.IsDestroyed() {
		ev := bodyEvent(EntityDestroyed, &s.player.Body)
		ev.Killed = true
		s.emit(ev)
		s.player = nil
	}

	s.playerLasers = s.purgeProjectiles(s.playerLasers)
	s.enemyLasers = s.purgeProjectiles(s.enemyLasers)

	kept := s.enemies[:0]
	for _, e := range s.enemies {
		if !e.IsDestroyed() {
			kept = append(kept, e)
			continue
		}
		ev := bodyEvent(EntityDestroyed, &e.Body)
		ev.Variant = e.Variant
		ev.Killed = true
		s.emit(ev)
	}
	clear(s.enemies[len(kept):])
	s.enemies = kept
}

func (s *State) purgeProjectiles(lasers []*object.Projectile) []*object.Projectile {
	kept := lasers[:0]
	for _, p := range lasers {
		if !p.IsDestroyed() {
			kept = append(kept, p)
			continue
		}
		ev := bodyEvent(EntityDestroyed, &p.Body)
		ev.Killed = p.Y >= 0 && p.Y <= s.rules.Height
		s.emit(ev)
	}
	clear(lasers[len(kept):])
	return kept
}

// cleanup destroys every remaining entity at the end of a round.
func (s *State) cleanup() {
	if s.player != nil {
		s.player.MarkDestroyed()
		s.emit(bodyEvent(EntityDestroyed, &s.player.Body))
		s.player = nil
	}
	for _, e := range s.enemies {
		e.MarkDestroyed()
		ev := bodyEvent(EntityDestroyed, &e.Body)
		ev.Variant = e.Variant
		s.emit(ev)
	}
	for _, p := range s.playerLasers {
		p.MarkDestroyed()
		s.emit(bodyEvent(EntityDestroyed, &p.Body))
	}
	for _, p := range s.enemyLasers {
		p.MarkDestroyed()
		s.emit(bodyEvent(EntityDestroyed, &p.Body))
	}
	s.enemies = nil
	s.playerLasers = nil
	s.enemyLasers = nil
}

// finish ends the round: cleanup, top-score check, next progress and the
// persisted write. Winning carries the score into the next level; losing
// starts over from level 0.
func (s *State) finish(phase Phase) error {
	s.cleanup()
	s.phase = phase

	if s.score > s.topScore {
		s.topScore = s.score
		s.emit(Event{Type: NewTopScore, HUD: s.HUD()})
	}

	s.next = store.Progress{TopScore: s.topScore}
	if phase == PhaseWon {
		s.next.Level = s.level + 1
		s.next.Score = s.score
	}

	s.emit(Event{Type: PhaseChanged, Phase: phase, HUD: s.HUD()})

	if s.gateway == nil {
		return nil
	}
	if err := s.gateway.Save(s.next); err != nil {
		return fmt.Errorf("end of round (%s): %w", phase, err)
	}
	return nil
}
