package game

// resolveCollisions marks lasers and the ships they hit as destroyed.
func (s *State) resolveCollisions() {
	s.checkPlayerLaserHits()
	s.checkEnemyLaserHits()
}

// checkPlayerLaserHits lets each player laser destroy at most one enemy: the
// first overlapping enemy in formation order. Enemies are bucketed into the
// spatial grid so each laser only tests its neighbourhood.
func (s *State) checkPlayerLaserHits() {
	if len(s.playerLasers) == 0 || len(s.enemies) == 0 {
		return
	}

	s.grid.Clear()
	for i, e := range s.enemies {
		if !e.IsDestroyed() {
			s.grid.Insert(e.Rect(), i)
		}
	}

	for _, p := range s.playerLasers {
		if p.IsDestroyed() {
			continue
		}
		pr := p.Rect()

		hit := -1
		s.grid.QueryAround(pr, func(i int) bool {
			if hit >= 0 && i > hit {
				return false
			}
			e := s.enemies[i]
			if !e.IsDestroyed() && pr.Intersects(e.Rect()) {
				hit = i
			}
			return false
		})
		if hit < 0 {
			continue
		}

		s.enemies[hit].MarkDestroyed()
		p.MarkDestroyed()
		s.score += s.rules.KillValue(s.level)
	}
}

// checkEnemyLaserHits destroys the player on the first enemy laser overlapping it.
func (s *State) checkEnemyLaserHits() {
	if s.player == nil || s.player.IsDestroyed() {
		return
	}
	pr := s.player.Rect()

	for _, p := range s.enemyLasers {
		if p.IsDestroyed() {
			continue
		}
		if pr.Intersects(p.Rect()) {
			p.MarkDestroyed()
			s.player.MarkDestroyed()
			return
		}
	}
}
