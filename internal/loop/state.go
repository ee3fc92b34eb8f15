package loop

import (
	"time"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
)

// Mode is the host's screen flow, wrapped around the simulation's phases.
type Mode int

const (
	ModeStart    Mode = iota // Title screen
	ModePlaying              // A level is running
	ModeResult               // Level won or lost, waiting for ENTER
	ModeShutdown             // Server is shutting down
)

func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "start"
	case ModePlaying:
		return "playing"
	case ModeResult:
		return "result"
	case ModeShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-player host state. The simulation state lives in
// level and is replaced every time a level starts.
type ClientState struct {
	Input         input.Input
	Mode          Mode
	level         *game.State
	Running       bool
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	levels        int           // Levels started this session
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Mode:    ModeStart,
		Running: true,
	}
}

// Level returns the running level, or nil before the first one starts.
func (s *ClientState) Level() *game.State {
	return s.level
}

// Levels returns how many levels were started this session.
func (s *ClientState) Levels() int {
	return s.levels
}
