package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eypacha/drawandroll/internal/game/rules"
)

const replayVersion = 1

// Replay is the ordered event log of one match. Replaying a seed reproduces
// the same log, so a saved replay doubles as a regression fixture.
type Replay struct {
	MatchID string
	Seed    uint32
	Events  []rules.Event
	mu      sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(matchID string, seed uint32) *Replay {
	return &Replay{
		MatchID: matchID,
		Seed:    seed,
		Events:  make([]rules.Event, 0, 256),
	}
}

// Record appends an event. It has the rules.Listener signature.
func (r *Replay) Record(event rules.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Events = append(r.Events, event)
}

// Size returns the number of recorded events.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Events)
}

// EventAt returns the event at index, or false when out of range.
func (r *Replay) EventAt(index int) (rules.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Events) {
		return r.Events[index], true
	}
	return rules.Event{}, false
}

// Filter returns the recorded events of the given type in order.
func (r *Replay) Filter(eventType rules.EventType) []rules.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []rules.Event
	for _, e := range r.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func replayPath(directory, matchID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", matchID))
}

// SaveToFile writes the replay as a gzipped gob stream to
// <directory>/<matchID>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(replayPath(directory, r.MatchID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		MatchID:    r.MatchID,
		Seed:       r.Seed,
		Version:    replayVersion,
		EventCount: len(r.Events),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Events {
		if err := encoder.Encode(&r.Events[i]); err != nil {
			return fmt.Errorf("failed to encode event %d: %w", i, err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, matchID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.MatchID, metadata.Seed)
	for i := 0; i < metadata.EventCount; i++ {
		var event rules.Event
		if err := decoder.Decode(&event); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", i, err)
		}
		replay.Events = append(replay.Events, event)
	}
	return replay, nil
}

type replayMetadata struct {
	MatchID    string
	Seed       uint32
	Version    int
	EventCount int
}
