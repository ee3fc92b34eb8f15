// Package audio turns simulation events into one-shot sound cues and plays
// them through a synthesiser or the terminal bell.
package audio

import (
	"io"
	"time"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/object"
)

// Cue is a one-shot sound.
type Cue int

const (
	CueShot        Cue = iota // Player fired
	CueEnemyShot              // An enemy fired
	CueExplosion              // Enemy destroyed
	CuePlayerDeath            // Player destroyed
	CueWon                    // Level cleared
	CueLost                   // Game over
	CueTopScore               // New top score, played after a short delay
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueEnemyShot:
		return "enemy-shot"
	case CueExplosion:
		return "explosion"
	case CuePlayerDeath:
		return "player-death"
	case CueWon:
		return "won"
	case CueLost:
		return "lost"
	case CueTopScore:
		return "top-score"
	default:
		return "unknown"
	}
}

// Player plays cues. Play must not block.
type Player interface {
	Play(c Cue)
}

// Silent discards every cue.
type Silent struct{}

// Play implements Player.
func (Silent) Play(Cue) {}

// Bell rings the terminal bell for the cues that mark a change of state.
// Per-shot cues are skipped; a bell per laser is noise.
type Bell struct {
	w io.Writer
}

// NewBell creates a bell player writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play implements Player.
func (b *Bell) Play(c Cue) {
	switch c {
	case CuePlayerDeath, CueWon, CueLost, CueTopScore:
		_, _ = io.WriteString(b.w, "\a")
	}
}

type pendingCue struct {
	cue       Cue
	remaining time.Duration
}

// Dispatcher maps tick events to cues. Each cue plays at most once per tick;
// the top-score cue is held back by a fixed delay so it follows the win or
// loss jingle instead of overlapping it.
type Dispatcher struct {
	player  Player
	delay   time.Duration
	pending []pendingCue
}

// NewDispatcher creates a dispatcher that plays through p and delays the
// top-score cue by topScoreDelay.
func NewDispatcher(p Player, topScoreDelay time.Duration) *Dispatcher {
	if p == nil {
		p = Silent{}
	}
	return &Dispatcher{player: p, delay: topScoreDelay}
}

// Handle plays the cues for one tick's events.
func (d *Dispatcher) Handle(events []game.Event) {
	var played [cueCount]bool
	play := func(c Cue) {
		if !played[c] {
			played[c] = true
			d.player.Play(c)
		}
	}

	for _, ev := range events {
		switch ev.Type {
		case game.ShotFired:
			switch ev.Kind {
			case object.KindPlayerLaser:
				play(CueShot)
			case object.KindEnemyLaser:
				play(CueEnemyShot)
			}
		case game.EntityDestroyed:
			if !ev.Killed {
				continue
			}
			switch ev.Kind {
			case object.KindEnemy:
				play(CueExplosion)
			case object.KindPlayer:
				play(CuePlayerDeath)
			}
		case game.PhaseChanged:
			switch ev.Phase {
			case game.PhaseWon:
				play(CueWon)
			case game.PhaseLost:
				play(CueLost)
			}
		case game.NewTopScore:
			d.pending = append(d.pending, pendingCue{cue: CueTopScore, remaining: d.delay})
		}
	}
}

// Update advances delayed cues by dt and plays those that are due.
func (d *Dispatcher) Update(dt time.Duration) {
	kept := d.pending[:0]
	for _, p := range d.pending {
		p.remaining -= dt
		if p.remaining <= 0 {
			d.player.Play(p.cue)
			continue
		}
		kept = append(kept, p)
	}
	d.pending = kept
}

// Pending returns how many delayed cues are waiting.
func (d *Dispatcher) Pending() int {
	return len(d.pending)
}

// Cancel drops delayed cues, e.g. when the player quits.
func (d *Dispatcher) Cancel() {
	d.pending = d.pending[:0]
}
