package loop

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/render"
	"github.com/tomz197/invaders/internal/store"
)

// scriptFrontend answers ReadInput from a script that sees the screen the
// last frame drew.
type scriptFrontend struct {
	mu      sync.Mutex
	script  func(screen render.Screen) input.Input
	screen  render.Screen
	frames  int
	resets  int
	closed  bool
	screens []render.Screen
	notices []string
	huds    []game.HUD
}

func (f *scriptFrontend) ReadInput() input.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.script(f.screen)
}

func (f *scriptFrontend) ResetInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

func (f *scriptFrontend) Draw(scene *render.Scene) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	f.screen = scene.Screen
	if len(f.screens) == 0 || f.screens[len(f.screens)-1] != scene.Screen {
		f.screens = append(f.screens, scene.Screen)
	}
	if scene.Notice != "" {
		f.notices = append(f.notices, scene.Notice)
	}
	f.huds = append(f.huds, scene.HUD)
	return nil
}

func (f *scriptFrontend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// fastRules makes a single shot reach the formation within a few frames and
// keeps enemies quiet.
func fastRules() config.Rules {
	r := config.DefaultRules()
	r.OscillationX = 0
	r.OscillationY = 0
	r.LaserSpeed = 3000
	r.EnemyCooldownMin = 100
	r.EnemyCooldown = 100
	return r
}

// aboveSpawn places one enemy straight above the player's starting position.
func aboveSpawn(r config.Rules) game.Option {
	return game.WithEnemySlots(object.Slot{X: r.Width/2 - r.EnemyWidth/2 + r.ShipWidth, Y: 100})
}

func newTestClient(t *testing.T, fe render.Frontend, rules config.Rules, kv store.KV, opts ClientOptions, gameOpts ...game.Option) *Client {
	t.Helper()
	gw := store.NewGateway(kv, quietLogger())
	session := game.NewSession(gw, rules, gameOpts...)
	opts.Logger = quietLogger()
	opts.FrameTime = time.Millisecond
	opts.Rand = rand.New(rand.NewSource(1))
	return NewClient(fe, session, rules, opts)
}

func loadProgress(t *testing.T, kv store.KV) store.Progress {
	t.Helper()
	p, err := store.NewGateway(kv, quietLogger()).Load()
	require.NoError(t, err)
	return p
}

func TestClientWinsAndStartsNextLevel(t *testing.T) {
	rules := fastRules()
	kv := store.NewMemory()
	wins := 0
	fe := &scriptFrontend{script: func(screen render.Screen) input.Input {
		switch {
		case screen == render.ScreenStart:
			return input.Input{Enter: true}
		case screen == render.ScreenWon:
			wins++
			return input.Input{Enter: true}
		case screen == render.ScreenPlaying && wins == 0:
			return input.Input{Fire: true}
		default:
			return input.Input{Quit: true}
		}
	}}

	client := newTestClient(t, fe, rules, kv, ClientOptions{}, aboveSpawn(rules))
	require.NoError(t, client.Run(context.Background()))

	assert.Equal(t, []render.Screen{render.ScreenPlaying, render.ScreenWon, render.ScreenPlaying}, fe.screens)
	assert.Equal(t, 2, client.State().Levels())
	assert.Equal(t, 1, wins)
	assert.Equal(t, store.Progress{Level: 1, Score: 50, TopScore: 50}, loadProgress(t, kv))

	// The second level starts from the saved progress.
	level := client.State().Level()
	require.NotNil(t, level)
	assert.Equal(t, 1, level.Level())
	assert.InDelta(t, 50, level.Score(), 1e-9)
	assert.GreaterOrEqual(t, fe.resets, 3)
}

func TestClientLosesAndResetsProgress(t *testing.T) {
	rules := fastRules()
	rules.EnemyCooldownMin = 0.001
	rules.EnemyCooldown = 0.001
	rules.EnemyLaserSpeed = 3000

	kv := store.NewMemory()
	require.NoError(t, store.NewGateway(kv, quietLogger()).Save(store.Progress{Level: 3, Score: 120, TopScore: 500}))

	fe := &scriptFrontend{script: func(screen render.Screen) input.Input {
		switch screen {
		case render.ScreenStart:
			return input.Input{Enter: true}
		case render.ScreenPlaying:
			return input.Input{}
		default:
			return input.Input{Quit: true}
		}
	}}

	client := newTestClient(t, fe, rules, kv, ClientOptions{}, aboveSpawn(rules))
	require.NoError(t, client.Run(context.Background()))

	assert.Contains(t, fe.screens, render.ScreenLost)
	assert.Equal(t, store.Progress{Level: 0, Score: 0, TopScore: 500}, loadProgress(t, kv))
	require.NotEmpty(t, fe.huds)
	assert.Equal(t, game.HUD{Level: 3, Score: 120, TopScore: 500}, fe.huds[0], "title screen shows persisted progress")
}

func TestClientStopsOnContextCancel(t *testing.T) {
	fe := &scriptFrontend{script: func(render.Screen) input.Input { return input.Input{} }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rules := fastRules()
	gw := store.NewGateway(store.NewMemory(), quietLogger())
	err := Run(ctx, fe, game.NewSession(gw, rules), rules, ClientOptions{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Zero(t, fe.frames)
	assert.True(t, fe.closed)
}

func TestClientShutdownNotice(t *testing.T) {
	server := NewServer(quietLogger())
	fe := &scriptFrontend{script: func(render.Screen) input.Input { return input.Input{} }}
	client := newTestClient(t, fe, fastRules(), store.NewMemory(), ClientOptions{
		Server:        server,
		Username:      "alice",
		ShutdownDelay: 50 * time.Millisecond,
	})
	require.Equal(t, 1, server.Players())

	done := make(chan error, 1)
	go func() { done <- client.Run(context.Background()) }()

	assert.True(t, server.Shutdown(5*time.Second))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after shutdown")
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()
	require.NotEmpty(t, fe.notices)
	assert.Contains(t, fe.notices[0], "SERVER SHUTTING DOWN")
	assert.Equal(t, ModeShutdown, client.State().Mode)
	assert.Zero(t, server.Players())
}

func TestServerRegistration(t *testing.T) {
	server := NewServer(quietLogger())
	a := server.RegisterClient("a")
	b := server.RegisterClient("b")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, server.Players())

	server.UnregisterClient(a.ID)
	server.UnregisterClient(a.ID)
	assert.Equal(t, 1, server.Players())
	_, ok := <-a.EventsCh
	assert.False(t, ok, "unregister closes the events channel")

	server.UnregisterClient(b.ID)
	assert.True(t, server.Shutdown(time.Second))

	late := server.RegisterClient("late")
	ev := <-late.EventsCh
	assert.Equal(t, EventServerShutdown, ev.Type)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "start", ModeStart.String())
	assert.Equal(t, "playing", ModePlaying.String())
	assert.Equal(t, "result", ModeResult.String())
	assert.Equal(t, "shutdown", ModeShutdown.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
