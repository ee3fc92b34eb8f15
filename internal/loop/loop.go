// Package loop hosts the game: the per-player frame loop that wires input,
// simulation, presentation and audio together, and the server that tracks
// connected players.
package loop

import (
	"context"
	"errors"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/render"
)

// Run plays session on frontend until the player quits or ctx is done,
// then closes the frontend.
func Run(ctx context.Context, frontend render.Frontend, session *game.Session, rules config.Rules, opts ClientOptions) error {
	client := NewClient(frontend, session, rules, opts)
	err := client.Run(ctx)
	return errors.Join(err, frontend.Close())
}
