package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/store"
)

const frameTime = time.Second / 60

// testRules freezes the formation sway and keeps enemies from firing
// unless a test opts in.
func testRules() config.Rules {
	r := config.DefaultRules()
	r.OscillationX = 0
	r.OscillationY = 0
	r.EnemyCooldownMin = 100
	r.EnemyCooldown = 100
	return r
}

type harness struct {
	t       *testing.T
	state   *State
	clock   *ManualClock
	gateway *store.Gateway
}

func newHarness(t *testing.T, rules config.Rules, progress store.Progress, opts ...Option) *harness {
	t.Helper()
	clock := NewManualClock(time.Unix(0, 0))
	gw := store.NewGateway(store.NewMemory(), nil)
	opts = append([]Option{
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
		WithGateway(gw),
	}, opts...)
	return &harness{
		t:       t,
		state:   NewState(rules, progress, opts...),
		clock:   clock,
		gateway: gw,
	}
}

func (h *harness) step(in input.Input) []Event {
	h.t.Helper()
	h.clock.Advance(frameTime)
	events, err := h.state.Tick(in)
	require.NoError(h.t, err)
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

func (h *harness) runUntilDone(maxTicks int) {
	h.t.Helper()
	for i := 0; i < maxTicks && h.state.Phase() == PhasePlaying; i++ {
		h.step(input.Input{})
	}
}

// aimAt moves the player so its shot travels through the enemy's centre.
func (h *harness) aimAt(e *object.Enemy) {
	p := h.state.Player()
	p.X = e.X + e.W/2 - h.state.rules.ShipWidth
}

func countEvents(events []Event, typ EventType, kind object.Kind) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ && ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewStateCreatesPlayerAndFormation(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{})

	require.NotNil(t, h.state.Player())
	assert.Len(t, h.state.Enemies(), 24)
	assert.Equal(t, PhasePlaying, h.state.Phase())

	events := h.step(input.Input{})
	assert.Equal(t, 1, countEvents(events, EntityCreated, object.KindPlayer))
	assert.Equal(t, 24, countEvents(events, EntityCreated, object.KindEnemy))
	assert.Equal(t, 1, countEvents(events, EntityMoved, object.KindPlayer))
	assert.Equal(t, 24, countEvents(events, EntityMoved, object.KindEnemy))

	huds := 0
	for _, ev := range events {
		if ev.Type == HUDChanged {
			huds++
		}
	}
	assert.Equal(t, 1, huds)

	events = h.step(input.Input{})
	assert.Zero(t, countEvents(events, EntityCreated, object.KindEnemy), "creation is reported once")
}

func TestEndToEndSingleEnemy(t *testing.T) {
	rules := testRules()
	h := newHarness(t, rules, store.Progress{}, WithEnemySlots(object.Slot{X: 100, Y: 100}))
	enemy := h.state.Enemies()[0]
	h.aimAt(enemy)

	events := h.step(input.Input{Fire: true})
	require.Len(t, h.state.PlayerLasers(), 1)
	assert.Equal(t, 1, countEvents(events, ShotFired, object.KindPlayerLaser))
	laserID := h.state.PlayerLasers()[0].ID

	var all []Event
	for i := 0; i < 300 && h.state.Phase() == PhasePlaying; i++ {
		all = append(all, h.step(input.Input{})...)
	}

	assert.Equal(t, PhaseWon, h.state.Phase())
	assert.Equal(t, rules.EnemyValue, h.state.Score())
	assert.Empty(t, h.state.Enemies())
	assert.Empty(t, h.state.PlayerLasers())
	assert.True(t, enemy.IsDestroyed())

	var enemyKilled, laserKilled bool
	for _, ev := range all {
		if ev.Type != EntityDestroyed || !ev.Killed {
			continue
		}
		enemyKilled = enemyKilled || ev.ID == enemy.ID
		laserKilled = laserKilled || ev.ID == laserID
	}
	assert.True(t, enemyKilled)
	assert.True(t, laserKilled)
}

func TestKillValueScalesWithLevel(t *testing.T) {
	for _, level := range []int{0, 1, 4} {
		rules := testRules()
		h := newHarness(t, rules, store.Progress{Level: level, Score: 10},
			WithEnemySlots(object.Slot{X: 100, Y: 100}, object.Slot{X: 600, Y: 100}))
		h.aimAt(h.state.Enemies()[0])
		h.step(input.Input{Fire: true})

		for i := 0; i < 300 && len(h.state.Enemies()) == 2; i++ {
			h.step(input.Input{})
		}

		assert.Equal(t, PhasePlaying, h.state.Phase())
		assert.Equal(t, 10+rules.EnemyValue+float64(level)*rules.LevelScoreBonus, h.state.Score(), "level %d", level)
	}
}

func TestOneShotKillsOneEnemy(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{},
		WithEnemySlots(object.Slot{X: 100, Y: 100}, object.Slot{X: 100, Y: 100}, object.Slot{X: 600, Y: 100}))
	first, second := h.state.Enemies()[0], h.state.Enemies()[1]

	laser := object.NewPlayerLaser(first.X+first.W/2, first.Y+5, &h.state.rules)
	require.True(t, h.state.Spawn(laser))
	h.step(input.Input{})

	assert.True(t, first.IsDestroyed(), "first in formation order takes the hit")
	assert.False(t, second.IsDestroyed())
	assert.Len(t, h.state.Enemies(), 2)
	assert.Equal(t, h.state.rules.EnemyValue, h.state.Score())
}

func TestWonOnlyWhenEveryEnemyIsDead(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{})
	require.Len(t, h.state.Enemies(), 24)

	for i := 0; i < 24; i++ {
		assert.Equal(t, PhasePlaying, h.state.Phase(), "after %d kills", i)
		h.state.Enemies()[0].MarkDestroyed()
		h.step(input.Input{})
	}
	assert.Equal(t, PhaseWon, h.state.Phase())
}

func TestLostOnFirstEnemyLaserHit(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{Level: 2, Score: 300, TopScore: 900})
	p := h.state.Player()

	require.True(t, h.state.Spawn(object.NewEnemyLaser(p.X+5, p.Y-h.state.rules.LaserHeight-1, &h.state.rules)))
	events := h.step(input.Input{})

	assert.Equal(t, PhaseLost, h.state.Phase())
	assert.Nil(t, h.state.Player())
	assert.Empty(t, h.state.Enemies())
	assert.Empty(t, h.state.EnemyLasers())

	var phase *Event
	for i := range events {
		if events[i].Type == PhaseChanged {
			phase = &events[i]
		}
	}
	require.NotNil(t, phase)
	assert.Equal(t, PhaseLost, phase.Phase)
	assert.Equal(t, 1, countEvents(events, EntityDestroyed, object.KindPlayer))
	assert.Equal(t, 24, countEvents(events, EntityDestroyed, object.KindEnemy))

	saved, err := h.gateway.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Progress{Level: 0, Score: 0, TopScore: 900}, saved)
}

func TestWonCarriesScoreAndRaisesTopScore(t *testing.T) {
	rules := testRules()
	h := newHarness(t, rules, store.Progress{Level: 2, Score: 100, TopScore: 120},
		WithEnemySlots(object.Slot{X: 100, Y: 100}))
	h.aimAt(h.state.Enemies()[0])
	h.step(input.Input{Fire: true})

	var all []Event
	for i := 0; i < 300 && h.state.Phase() == PhasePlaying; i++ {
		all = append(all, h.step(input.Input{})...)
	}
	require.Equal(t, PhaseWon, h.state.Phase())

	want := 100 + rules.KillValue(2)
	assert.Equal(t, want, h.state.TopScore())

	tops := 0
	for _, ev := range all {
		if ev.Type == NewTopScore {
			tops++
			assert.Equal(t, want, ev.HUD.TopScore)
		}
	}
	assert.Equal(t, 1, tops)

	saved, err := h.gateway.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Progress{Level: 3, Score: want, TopScore: want}, saved)
	assert.Equal(t, saved, h.state.Next())
}

func TestEnemyLaserCap(t *testing.T) {
	rules := testRules()
	rules.EnemyCooldownMin = 0.001
	rules.EnemyCooldown = 0.001
	h := newHarness(t, rules, store.Progress{})

	for i := 0; i < 30 && h.state.Phase() == PhasePlaying; i++ {
		h.step(input.Input{})
		assert.LessOrEqual(t, len(h.state.EnemyLasers()), rules.MaxEnemyLasers)
	}
	assert.Len(t, h.state.EnemyLasers(), rules.MaxEnemyLasers)
}

func TestTerminalPhaseHaltsTicks(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{})
	for _, e := range h.state.Enemies() {
		e.MarkDestroyed()
	}
	h.step(input.Input{})
	require.Equal(t, PhaseWon, h.state.Phase())

	events := h.step(input.Input{Fire: true, Left: true})
	assert.Empty(t, events)
	assert.Equal(t, PhaseWon, h.state.Phase())
	assert.False(t, h.state.Spawn(object.NewPlayerLaser(0, 0, &h.state.rules)))
}

func TestDeadLasersPurgedSameTick(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{})
	laser := object.NewPlayerLaser(10, 2, &h.state.rules)
	require.True(t, h.state.Spawn(laser))

	events := h.step(input.Input{})
	assert.True(t, laser.IsDestroyed())
	assert.Empty(t, h.state.PlayerLasers())

	found := false
	for _, ev := range events {
		if ev.Type == EntityDestroyed && ev.ID == laser.ID {
			found = true
			assert.False(t, ev.Killed, "leaving the playfield is not a kill")
		}
	}
	assert.True(t, found)
}

func TestDeltaTimeFromClock(t *testing.T) {
	h := newHarness(t, testRules(), store.Progress{})
	start := h.state.Player().X

	h.clock.Advance(250 * time.Millisecond)
	_, err := h.state.Tick(input.Input{Left: true})
	require.NoError(t, err)

	assert.InDelta(t, start-h.state.rules.PlayerSpeed*0.25, h.state.Player().X, 1e-9)
}

func TestEnemiesSwayWithClock(t *testing.T) {
	rules := testRules()
	rules.OscillationX = 40
	rules.OscillationY = 10
	h := newHarness(t, rules, store.Progress{}, WithEnemySlots(object.Slot{X: 100, Y: 100}))

	// sin = 1 and cos = 0 a quarter turn after the epoch.
	quarter := math.Pi / 2
	h.clock.Set(time.Unix(0, int64(quarter*float64(time.Second))))
	_, err := h.state.Tick(input.Input{})
	require.NoError(t, err)

	e := h.state.Enemies()[0]
	assert.InDelta(t, 140, e.X, 1e-6)
	assert.InDelta(t, 100, e.Y, 1e-6)
}

type failingKV struct{ store.Memory }

func (*failingKV) SetAll(map[string]string) error { return errors.New("disk full") }

func TestSaveFailureStillEndsRound(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	gw := store.NewGateway(&failingKV{}, nil)
	s := NewState(testRules(), store.Progress{}, WithClock(clock), WithGateway(gw),
		WithEnemySlots(object.Slot{X: 100, Y: 100}))

	s.Enemies()[0].MarkDestroyed()
	clock.Advance(frameTime)
	_, err := s.Tick(input.Input{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, PhaseWon, s.Phase())
}

func TestSessionAdvancesLevels(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	gw := store.NewGateway(store.NewMemory(), nil)
	session := NewSession(gw, testRules(), WithClock(clock), WithEnemySlots(object.Slot{X: 100, Y: 100}))

	first, err := session.NewLevel()
	require.NoError(t, err)
	assert.Equal(t, 0, first.Level())

	first.Enemies()[0].MarkDestroyed()
	clock.Advance(frameTime)
	_, err = first.Tick(input.Input{})
	require.NoError(t, err)
	require.Equal(t, PhaseWon, first.Phase())

	second, err := session.NewLevel()
	require.NoError(t, err)
	assert.Equal(t, 1, second.Level())
	assert.Equal(t, PhasePlaying, second.Phase())
	assert.NotSame(t, first, second)

	progress, err := session.Progress()
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Level)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(-3))
	assert.Equal(t, "0", FormatNumber(0.4))
	assert.Equal(t, "51", FormatNumber(50.6))
	assert.Equal(t, "1250", FormatNumber(1250))

	hud := HUD{Score: 99.5, Level: 3, TopScore: 1000.2}
	assert.Equal(t, "100", hud.ScoreText())
	assert.Equal(t, "3", hud.LevelText())
	assert.Equal(t, "1000", hud.TopScoreText())
}
