package game

import (
	"math"
	"strconv"

	"github.com/tomz197/invaders/internal/object"
)

// EventType identifies what happened during a tick.
type EventType uint8

const (
	EntityCreated   EventType = iota // A new entity needs a visual
	EntityMoved                      // Live entity position after the tick
	EntityDestroyed                  // Entity left play; drop its visual
	HUDChanged                       // Score, level or top score changed
	PhaseChanged                     // Round ended (won or lost)
	NewTopScore                      // Round ended above the previous top score
	ShotFired                        // A laser was fired (player or enemy)
)

func (t EventType) String() string {
	switch t {
	case EntityCreated:
		return "created"
	case EntityMoved:
		return "moved"
	case EntityDestroyed:
		return "destroyed"
	case HUDChanged:
		return "hud"
	case PhaseChanged:
		return "phase"
	case NewTopScore:
		return "top-score"
	case ShotFired:
		return "shot"
	default:
		return "unknown"
	}
}

// HUD is the heads-up display content.
type HUD struct {
	Score    float64
	Level    int
	TopScore float64
}

// ScoreText returns the score as shown on screen.
func (h HUD) ScoreText() string {
	return FormatNumber(h.Score)
}

// LevelText returns the level as shown on screen.
func (h HUD) LevelText() string {
	return strconv.Itoa(max(h.Level, 0))
}

// TopScoreText returns the top score as shown on screen.
func (h HUD) TopScoreText() string {
	return FormatNumber(h.TopScore)
}

// FormatNumber renders v as a non-negative number with no decimals.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// Event is a notification from the simulation to presentation and audio.
// Only the fields relevant to Type are set.
type Event struct {
	Type    EventType
	ID      object.ID
	Kind    object.Kind
	X, Y    float64
	W, H    float64
	Variant int  // Enemy ship colour
	Killed  bool // EntityDestroyed: removed by a hit, not by leaving the playfield or cleanup
	HUD     HUD
	Phase   Phase
}

// bodyEvent builds an entity event from an entity's current state.
func bodyEvent(t EventType, b *object.Body) Event {
	return Event{
		Type: t,
		ID:   b.ID,
		Kind: b.Kind,
		X:    b.X,
		Y:    b.Y,
		W:    b.W,
		H:    b.H,
	}
}
