// Package tournament runs bot profiles against each other as a round-robin
// league and keeps the standings.
package tournament

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Points awarded per match outcome. A timeout counts as a draw.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Entrant is one profile's running record in the league.
type Entrant struct {
	Name   string
	Points int
	Wins   int
	Losses int
	Draws  int
}

// Pairing is a seat assignment: Player1 sits in player_a, Player2 in
// player_b.
type Pairing struct {
	Player1     string
	Player2     string
	Games       int
	Player1Wins int
	Player2Wins int
	Draws       int
}

// Standing is a read-only row of the league table.
type Standing struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Played int    `json:"played"`
}

// PairingSnapshot captures pairing data for external use.
type PairingSnapshot struct {
	Player1     string `json:"player1"`
	Player2     string `json:"player2"`
	Games       int    `json:"games"`
	Player1Wins int    `json:"player1Wins"`
	Player2Wins int    `json:"player2Wins"`
	Draws       int    `json:"draws"`
}

// League schedules every ordered pairing of its entrants, mirror matches
// included, and tallies results. It is safe for concurrent use.
type League struct {
	ID          string
	entrants    map[string]*Entrant
	playerOrder []string
	pairings    []*Pairing
	logger      *zap.Logger
	mu          sync.RWMutex
}

// NewLeague creates a league over the given profile names. Duplicates are
// ignored; at least one entrant is required.
func NewLeague(names []string, logger *zap.Logger) (*League, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &League{
		ID:       uuid.New().String(),
		entrants: make(map[string]*Entrant),
		logger:   logger,
	}
	for _, name := range names {
		if _, exists := l.entrants[name]; exists {
			continue
		}
		l.entrants[name] = &Entrant{Name: name}
		l.playerOrder = append(l.playerOrder, name)
	}
	if len(l.playerOrder) == 0 {
		return nil, fmt.Errorf("league needs at least one entrant")
	}

	for _, p1 := range l.playerOrder {
		for _, p2 := range l.playerOrder {
			l.pairings = append(l.pairings, &Pairing{Player1: p1, Player2: p2})
		}
	}

	l.logger.Debug("league created",
		zap.String("league_id", l.ID),
		zap.Strings("entrants", l.playerOrder),
		zap.Int("pairings", len(l.pairings)),
	)
	return l, nil
}

// Size returns the number of distinct pairings in one rotation.
func (l *League) Size() int {
	return len(l.pairings)
}

// PairingFor returns the seat assignment for a match index. Indexes cycle
// through the pairings in a fixed order.
func (l *League) PairingFor(index int) (player1, player2 string) {
	if index < 0 {
		index = -index
	}
	p := l.pairings[index%len(l.pairings)]
	return p.Player1, p.Player2
}

// Seat identifies who won a recorded match.
type Seat int

const (
	SeatNone Seat = iota
	SeatPlayer1
	SeatPlayer2
)

// RecordMatchResult records one match. Mirror matches are tallied on their
// pairing but leave the standings alone.
func (l *League) RecordMatchResult(player1, player2 string, winner Seat) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e1, ok1 := l.entrants[player1]
	e2, ok2 := l.entrants[player2]
	if !ok1 || !ok2 {
		return fmt.Errorf("entrant not found: %s vs %s", player1, player2)
	}

	var pairing *Pairing
	for _, p := range l.pairings {
		if p.Player1 == player1 && p.Player2 == player2 {
			pairing = p
			break
		}
	}
	if pairing == nil {
		return fmt.Errorf("pairing not found: %s vs %s", player1, player2)
	}

	switch winner {
	case SeatPlayer1:
		pairing.Player1Wins++
	case SeatPlayer2:
		pairing.Player2Wins++
	case SeatNone:
		pairing.Draws++
	default:
		return fmt.Errorf("invalid winning seat %d", winner)
	}
	pairing.Games++

	if player1 == player2 {
		return nil
	}
	switch winner {
	case SeatPlayer1:
		e1.Wins++
		e1.Points += PointsWin
		e2.Losses++
	case SeatPlayer2:
		e2.Wins++
		e2.Points += PointsWin
		e1.Losses++
	default:
		e1.Draws++
		e1.Points += PointsDraw
		e2.Draws++
		e2.Points += PointsDraw
	}
	return nil
}

// Standings returns the league table ordered by points, then wins, then
// name. Entrants with equal points and wins share a rank.
func (l *League) Standings() []Standing {
	l.mu.RLock()
	defer l.mu.RUnlock()

	table := make([]Standing, 0, len(l.playerOrder))
	for _, name := range l.playerOrder {
		e := l.entrants[name]
		table = append(table, Standing{
			Name:   e.Name,
			Points: e.Points,
			Wins:   e.Wins,
			Losses: e.Losses,
			Draws:  e.Draws,
			Played: e.Wins + e.Losses + e.Draws,
		})
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		return table[i].Name < table[j].Name
	})
	for i := range table {
		if i > 0 && table[i].Points == table[i-1].Points && table[i].Wins == table[i-1].Wins {
			table[i].Rank = table[i-1].Rank
			continue
		}
		table[i].Rank = i + 1
	}
	return table
}

// Pairings returns a copy of every pairing's tally in schedule order.
func (l *League) Pairings() []PairingSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]PairingSnapshot, 0, len(l.pairings))
	for _, p := range l.pairings {
		out = append(out, PairingSnapshot{
			Player1:     p.Player1,
			Player2:     p.Player2,
			Games:       p.Games,
			Player1Wins: p.Player1Wins,
			Player2Wins: p.Player2Wins,
			Draws:       p.Draws,
		})
	}
	return out
}
