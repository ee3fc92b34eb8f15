// Package input turns raw key presses into per-frame key state snapshots.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses (and auto-repeat), never releases.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Fire    bool
	Enter   bool
	Pressed []byte
}

// Axis returns the horizontal intent: -1 for left, +1 for right, 0 for
// neither or both.
func (in Input) Axis() float64 {
	axis := 0.0
	if in.Left {
		axis--
	}
	if in.Right {
		axis++
	}
	return axis
}

// Key identifies a tracked game key.
type Key int

const (
	KeyQuit Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyEnter
	keyCount
)

// Tracker remembers the last time each key was pressed so that keys seen
// within the hold window read as held, which allows simultaneous keys.
type Tracker struct {
	last [keyCount]time.Time
	hold time.Duration
}

// NewTracker creates a tracker with the default hold window.
func NewTracker() *Tracker {
	return &Tracker{hold: keyHoldDuration}
}

// Press records a key press at now.
func (t *Tracker) Press(k Key, now time.Time) {
	if k >= 0 && k < keyCount {
		t.last[k] = now
	}
}

// Reset forgets every press, so held keys do not leak into the next screen.
func (t *Tracker) Reset() {
	t.last = [keyCount]time.Time{}
}

// Snapshot builds the key state as of now.
func (t *Tracker) Snapshot(now time.Time) Input {
	held := func(k Key) bool {
		return !t.last[k].IsZero() && now.Sub(t.last[k]) < t.hold
	}
	return Input{
		Quit:  held(KeyQuit),
		Left:  held(KeyLeft),
		Right: held(KeyRight),
		Fire:  held(KeyFire),
		Enter: held(KeyEnter),
	}
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	tracker *Tracker
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:      make(chan byte, 128),
		tracker: NewTracker(),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys. A closed stream reads as Quit.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	ApplyBytes(s.tracker, buf, now)

	in := s.tracker.Snapshot(now)
	in.Pressed = buf
	if closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput clears the key state of a stream.
func ResetKeyInput(s *Stream) {
	if s != nil {
		s.tracker.Reset()
	}
}

// ApplyBytes parses raw terminal bytes and records the key presses they encode.
func ApplyBytes(t *Tracker, buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C': // Right arrow
				t.Press(KeyRight, now)
				i += 2
				continue
			case 'D': // Left arrow
				t.Press(KeyLeft, now)
				i += 2
				continue
			case 'A', 'B': // Up/down arrows are unused
				i += 2
				continue
			}
		}

		applyByte(t, b, now)
	}
}

// applyByte records the key press for a single byte.
func applyByte(t *Tracker, b byte, now time.Time) {
	if k, ok := KeyForRune(rune(b)); ok {
		t.Press(k, now)
	}
}

// KeyForRune maps a typed character to the game key it controls.
func KeyForRune(r rune) (Key, bool) {
	switch r {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		return KeyQuit, true
	case 'a', 'A', 'h', 'H':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case ' ', 'w', 'W', 'k', 'K':
		return KeyFire, true
	case '\n', '\r':
		return KeyEnter, true
	}
	return 0, false
}
