package loop

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/render"
)

// Client runs the game for a single player: it reads input from a frontend,
// ticks the level, feeds the events to the scene and the audio dispatcher,
// and draws.
type Client struct {
	server   *Server
	handle   *ClientHandle
	state    *ClientState
	frontend render.Frontend
	session  *game.Session
	scene    *render.Scene
	audio    *audio.Dispatcher
	logger   *log.Logger

	frameTime     time.Duration
	inactivity    bool
	shutdownDelay float64
	lastInput     time.Time
}

// ClientOptions configures the client.
type ClientOptions struct {
	// Server registers the client for shutdown notices. Nil for local play.
	Server   *Server
	Username string
	Audio    audio.Player
	Logger   *log.Logger
	Rand     *rand.Rand

	// FrameTime is the target frame duration. Zero means 60 FPS.
	FrameTime time.Duration
	// Inactivity warns and then disconnects a player who stops pressing keys.
	Inactivity bool
	// ShutdownDelay is how long the shutdown notice shows. Zero means the default.
	ShutdownDelay time.Duration
	NoEffects     bool
}

// NewClient creates a client playing session on frontend.
func NewClient(frontend render.Frontend, session *game.Session, rules config.Rules, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	player := opts.Audio
	if player == nil {
		player = audio.Silent{}
	}
	frameTime := opts.FrameTime
	if frameTime <= 0 {
		frameTime = config.ClientTargetFrameTime
	}
	shutdownDelay := config.ShutdownDisplaySeconds
	if opts.ShutdownDelay > 0 {
		shutdownDelay = opts.ShutdownDelay.Seconds()
	}

	scene := render.NewScene(rules, opts.Rand)
	scene.SetEffects(!opts.NoEffects)

	c := &Client{
		server:        opts.Server,
		state:         NewClientState(),
		frontend:      frontend,
		session:       session,
		scene:         scene,
		audio:         audio.NewDispatcher(player, config.TopScoreCueDelay),
		logger:        logger,
		frameTime:     frameTime,
		inactivity:    opts.Inactivity,
		shutdownDelay: shutdownDelay,
	}
	if c.server != nil {
		c.handle = c.server.RegisterClient(opts.Username)
	}
	return c
}

// Scene returns the scene the client draws.
func (c *Client) Scene() *render.Scene {
	return c.scene
}

// State returns the client's host state.
func (c *Client) State() *ClientState {
	return c.state
}

// Run starts the client loop. Blocks until the player quits, ctx is done,
// the server shuts down or the frontend fails.
func (c *Client) Run(ctx context.Context) error {
	defer func() {
		c.audio.Cancel()
		if c.server != nil {
			c.server.UnregisterClient(c.handle.ID)
		}
	}()

	progress, err := c.session.Progress()
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	c.scene.HUD = game.HUD{Score: progress.Score, Level: progress.Level, TopScore: progress.TopScore}

	lastTime := time.Now()
	c.lastInput = lastTime

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if ctx.Err() != nil {
			break
		}

		// ===== INPUT PHASE =====
		c.processInput(frameStart)
		c.processServerEvents()

		// ===== UPDATE PHASE =====
		switch c.state.Mode {
		case ModeStart:
			err = c.updateStartState()
		case ModePlaying:
			c.updatePlayingState()
		case ModeResult:
			err = c.updateResultState()
		case ModeShutdown:
			c.updateShutdownState()
		}
		if err != nil {
			return err
		}
		c.scene.Update(c.state.delta)
		c.audio.Update(c.state.delta)

		// ===== DRAW PHASE =====
		if err := c.frontend.Draw(c.scene); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < c.frameTime {
			time.Sleep(c.frameTime - elapsed)
		}
	}
	return nil
}

// processInput reads this frame's keys and tracks activity.
func (c *Client) processInput(now time.Time) {
	in := c.frontend.ReadInput()
	c.state.Input = in

	if in.Quit {
		c.state.Running = false
		return
	}

	if !c.inactivity || c.state.Mode == ModeShutdown {
		return
	}
	if in.Left || in.Right || in.Fire || in.Enter || len(in.Pressed) > 0 {
		c.lastInput = now
		if c.state.isInactive {
			c.state.isInactive = false
			c.scene.Notice = ""
		}
	}

	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case idle >= config.InactivityDisconnectSeconds:
		c.logger.Info("disconnecting idle player", "idle", time.Duration(idle*float64(time.Second)).Round(time.Second))
		c.state.Running = false
	case idle >= config.InactivityWarnSeconds:
		c.state.isInactive = true
		remaining := int(config.InactivityDisconnectSeconds-idle) + 1
		c.scene.Notice = fmt.Sprintf("Inactive! Press any key or you will be disconnected in %d seconds", remaining)
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == EventServerShutdown && c.state.Mode != ModeShutdown {
				c.state.Mode = ModeShutdown
				c.state.shutdownTimer = c.shutdownDelay
				c.audio.Cancel()
			}
		default:
			return
		}
	}
}

// updateStartState waits on the title screen.
func (c *Client) updateStartState() error {
	if c.state.Input.Enter {
		return c.startLevel()
	}
	return nil
}

// updatePlayingState ticks the level and forwards its events.
func (c *Client) updatePlayingState() {
	level := c.state.level
	events, err := level.Tick(c.state.Input)
	if err != nil {
		// The round still ended; only persistence failed.
		c.logger.Error("save progress", "err", err)
	}
	c.scene.Apply(events)
	c.audio.Handle(events)

	if level.Phase().Terminal() {
		c.logger.Debug("level over", "phase", level.Phase(), "level", level.Level(), "score", level.Score())
		c.state.Mode = ModeResult
		c.frontend.ResetInput()
	}
}

// updateResultState waits on the won or lost screen.
func (c *Client) updateResultState() error {
	if c.state.Input.Enter {
		return c.startLevel()
	}
	return nil
}

// updateShutdownState counts down the shutdown notice.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	remaining := int(c.state.shutdownTimer) + 1
	c.scene.Notice = fmt.Sprintf("SERVER SHUTTING DOWN - disconnecting in %d seconds (Q to leave now)", max(remaining, 0))
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// startLevel builds the next level from the persisted progress.
func (c *Client) startLevel() error {
	level, err := c.session.NewLevel()
	if err != nil {
		return err
	}
	c.frontend.ResetInput()
	c.scene.Reset()
	c.scene.Screen = render.ScreenPlaying
	c.state.level = level
	c.state.levels++
	c.state.Mode = ModePlaying
	c.logger.Debug("level start", "level", level.Level(), "score", level.Score())
	return nil
}
