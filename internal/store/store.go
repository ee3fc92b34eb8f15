// Package store persists level, score and top score through a small
// key-value interface.
package store

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/log"
)

// Keys written by the gateway.
const (
	KeyLevel    = "level"
	KeyScore    = "score"
	KeyTopScore = "topScore"
)

// ErrClosed is returned by writes to a closed store.
var ErrClosed = errors.New("store: closed")

// KV is a string key-value store. SetAll must apply every pair or none.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	SetAll(values map[string]string) error
}

// Progress is the persisted part of a play session.
type Progress struct {
	Level    int     `json:"level"`
	Score    float64 `json:"score"`
	TopScore float64 `json:"topScore"`
}

// Gateway reads and writes Progress through a KV.
type Gateway struct {
	kv     KV
	logger *log.Logger
}

// NewGateway wraps kv. A nil logger uses the default charmbracelet logger.
func NewGateway(kv KV, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	return &Gateway{kv: kv, logger: logger.WithPrefix("store")}
}

// Load returns the persisted progress. Missing, malformed and negative
// values read as zero; only backend failures are returned as errors.
func (g *Gateway) Load() (Progress, error) {
	var p Progress

	level, err := g.number(KeyLevel)
	if err != nil {
		return Progress{}, err
	}
	score, err := g.number(KeyScore)
	if err != nil {
		return Progress{}, err
	}
	top, err := g.number(KeyTopScore)
	if err != nil {
		return Progress{}, err
	}

	if level <= math.MaxInt32 {
		p.Level = int(level)
	}
	p.Score = score
	p.TopScore = top
	return p, nil
}

// Save overwrites all three keys in one write.
func (g *Gateway) Save(p Progress) error {
	values := map[string]string{
		KeyLevel:    strconv.Itoa(max(p.Level, 0)),
		KeyScore:    strconv.FormatFloat(math.Max(p.Score, 0), 'g', -1, 64),
		KeyTopScore: strconv.FormatFloat(math.Max(p.TopScore, 0), 'g', -1, 64),
	}
	if err := g.kv.SetAll(values); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// number reads a non-negative finite number, defaulting to zero.
func (g *Gateway) number(key string) (float64, error) {
	raw, ok, err := g.kv.Get(key)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		g.logger.Warn("ignoring malformed value", "key", key, "value", raw)
		return 0, nil
	}
	if key == KeyLevel {
		v = math.Floor(v)
	}
	return v, nil
}
