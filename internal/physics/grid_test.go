package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGridFindsEveryOverlap compares grid queries against brute force,
// including boxes pushed past the playfield edges.
func TestGridFindsEveryOverlap(t *testing.T) {
	const (
		width, height = 800.0, 600.0
		ew, eh        = 40.0, 30.0
		lw, lh        = 6.0, 18.0
	)
	rng := rand.New(rand.NewSource(42))
	grid := NewSpatialGrid(width, height, CellSizeFor(ew, eh, lw, lh))

	for round := 0; round < 50; round++ {
		grid.Clear()
		boxes := make([]Rect, 40)
		for i := range boxes {
			boxes[i] = NewRect(rng.Float64()*(width+100)-50, rng.Float64()*(height+100)-50, ew, eh)
			grid.Insert(boxes[i], i)
		}

		for q := 0; q < 100; q++ {
			probe := NewRect(rng.Float64()*(width+100)-50, rng.Float64()*(height+100)-50, lw, lh)

			want := map[int]bool{}
			for i, b := range boxes {
				if probe.Intersects(b) {
					want[i] = true
				}
			}

			got := map[int]bool{}
			grid.QueryAround(probe, func(i int) bool {
				if probe.Intersects(boxes[i]) {
					got[i] = true
				}
				return false
			})

			assert.Equal(t, want, got)
		}
	}
}

func TestGridTouchingEdgeFound(t *testing.T) {
	grid := NewSpatialGrid(800, 600, CellSizeFor(40, 30, 6, 18))
	enemy := NewRect(100, 100, 40, 30)
	grid.Insert(enemy, 0)

	// Laser whose top edge touches the enemy's bottom edge.
	laser := NewRect(140, 130, 6, 18)
	found := false
	grid.QueryAround(laser, func(i int) bool {
		found = i == 0 && laser.Intersects(enemy)
		return found
	})
	assert.True(t, found)
}

func TestGridQueryStopsEarly(t *testing.T) {
	grid := NewSpatialGrid(100, 100, 10)
	for i := 0; i < 5; i++ {
		grid.Insert(NewRect(50, 50, 1, 1), i)
	}

	calls := 0
	grid.QueryAround(NewRect(50, 50, 1, 1), func(int) bool {
		calls++
		return true
	})
	assert.Equal(t, 1, calls)
}
