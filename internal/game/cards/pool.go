package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrMalformedPool is wrapped by every error caused by an unreadable or
// structurally invalid pool document.
var ErrMalformedPool = errors.New("malformed card pool")

// Pool is a batch document: the full set of cards a match deck is built from.
type Pool struct {
	BatchID string `json:"batch_id,omitempty"`
	Path    string `json:"-"`
	Cards   []Card `json:"cards"`
}

type poolDocument struct {
	BatchID string  `json:"batch_id"`
	Cards   *[]Card `json:"cards"`
}

// Load reads and validates a pool from a JSON file.
func Load(path string) (*Pool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve path %q: %v", ErrMalformedPool, path, err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read batch file at %s: %v", ErrMalformedPool, absPath, err)
	}
	defer file.Close()

	pool, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", absPath, err)
	}
	pool.Path = absPath
	return pool, nil
}

// Decode parses and validates a pool document.
func Decode(r io.Reader) (*Pool, error) {
	var doc poolDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPool, err)
	}
	if doc.Cards == nil {
		return nil, fmt.Errorf("%w: missing cards array", ErrMalformedPool)
	}

	pool := &Pool{BatchID: doc.BatchID, Cards: *doc.Cards}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

// Validate checks every card for a usable shape.
func (p *Pool) Validate() error {
	seen := make(map[string]bool, len(p.Cards))
	for i, card := range p.Cards {
		if card.ID == "" {
			return fmt.Errorf("%w: card %d has no id", ErrMalformedPool, i)
		}
		if seen[card.ID] {
			return fmt.Errorf("%w: duplicate card id %q", ErrMalformedPool, card.ID)
		}
		seen[card.ID] = true

		if !card.Type.Valid() {
			return fmt.Errorf("%w: card %q has unknown type %q", ErrMalformedPool, card.ID, card.Type)
		}
		if card.Cost < 0 {
			return fmt.Errorf("%w: card %q has negative cost %d", ErrMalformedPool, card.ID, card.Cost)
		}
		if card.Type == TypeReactive && !card.Effect.Valid() {
			return fmt.Errorf("%w: reactive card %q has unknown effect %q", ErrMalformedPool, card.ID, card.Effect)
		}
	}
	return nil
}

// CountByType tallies the pool by card type.
func (p *Pool) CountByType() map[Type]int {
	counts := make(map[Type]int)
	for _, card := range p.Cards {
		counts[card.Type]++
	}
	return counts
}
