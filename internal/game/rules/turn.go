package rules

import (
	"fmt"
)

// PlayerID identifies one of the two seats in a match.
type PlayerID string

const (
	PlayerA PlayerID = "player_a"
	PlayerB PlayerID = "player_b"
)

// Players lists both seats in their canonical order.
var Players = [2]PlayerID{PlayerA, PlayerB}

// Opponent returns the other seat.
func (p PlayerID) Opponent() PlayerID {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Index maps the seat onto 0 (player_a) or 1 (player_b).
func (p PlayerID) Index() int {
	if p == PlayerB {
		return 1
	}
	return 0
}

// Phase is the overall match phase.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseEnded
)

var phaseNames = map[Phase]string{
	PhasePlaying: "playing",
	PhaseEnded:   "ended",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase_%d", int(p))
}

// Step is the position inside a single player's turn.
type Step int

const (
	StepDraw Step = iota
	StepRecruit
	StepCombat
	StepDiscard
	StepEnd
)

var stepNames = map[Step]string{
	StepDraw:    "draw",
	StepRecruit: "recruit",
	StepCombat:  "combat",
	StepDiscard: "discard",
	StepEnd:     "end",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step_%d", int(s))
}

// HandLimit is the largest hand a player may keep past the discard step.
const HandLimit = 7

// TurnManager tracks turn ownership and drives the draw, recruit, combat,
// discard, end cycle. It holds no card state; callers report the active hand
// size so it can decide whether discard is needed.
type TurnManager struct {
	phase        Phase
	step         Step
	turnNumber   int
	activePlayer PlayerID
	firstPlayer  PlayerID
	winner       PlayerID
	turnsTaken   [2]int
}

// NewTurnManager starts a match on turn 1 with firstPlayer in the recruit
// step. The opening hand stands in for that turn's draw.
func NewTurnManager(firstPlayer PlayerID) *TurnManager {
	return &TurnManager{
		phase:        PhasePlaying,
		step:         StepRecruit,
		turnNumber:   1,
		activePlayer: firstPlayer,
		firstPlayer:  firstPlayer,
	}
}

// Phase returns the match phase.
func (tm *TurnManager) Phase() Phase {
	return tm.phase
}

// CurrentStep returns the step in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.step
}

// TurnNumber returns the 1-based turn counter. It increments whenever
// player_a becomes active again.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the seat whose turn it is.
func (tm *TurnManager) ActivePlayer() PlayerID {
	return tm.activePlayer
}

// FirstPlayer returns the seat that took the opening turn.
func (tm *TurnManager) FirstPlayer() PlayerID {
	return tm.firstPlayer
}

// Winner returns the winning seat, or "" while playing or after a timeout.
func (tm *TurnManager) Winner() PlayerID {
	return tm.winner
}

// Ended reports whether the match reached its terminal state.
func (tm *TurnManager) Ended() bool {
	return tm.phase == PhaseEnded
}

// TurnsTaken returns how many turns a seat has completed.
func (tm *TurnManager) TurnsTaken(player PlayerID) int {
	return tm.turnsTaken[player.Index()]
}

// IsOpeningTurn reports whether the first player is still in their first
// turn. That turn skips combat.
func (tm *TurnManager) IsOpeningTurn() bool {
	return tm.activePlayer == tm.firstPlayer && tm.turnsTaken[tm.firstPlayer.Index()] == 0
}

// Advance moves to the step following the current one. handSize is the
// active player's hand size and decides whether discard is entered. Leaving
// the end step hands the turn to the opponent and lands on their draw step.
func (tm *TurnManager) Advance(handSize int) Step {
	if tm.phase == PhaseEnded {
		return tm.step
	}

	switch tm.step {
	case StepDraw:
		tm.step = StepRecruit
	case StepRecruit:
		if tm.IsOpeningTurn() {
			tm.step = discardOrEnd(handSize)
		} else {
			tm.step = StepCombat
		}
	case StepCombat:
		tm.step = discardOrEnd(handSize)
	case StepDiscard:
		tm.step = StepEnd
	case StepEnd:
		tm.passTurn()
	}
	return tm.step
}

// Finish ends the match with winner.
func (tm *TurnManager) Finish(winner PlayerID) {
	tm.phase = PhaseEnded
	tm.step = StepEnd
	tm.winner = winner
}

func (tm *TurnManager) passTurn() {
	tm.turnsTaken[tm.activePlayer.Index()]++
	next := tm.activePlayer.Opponent()
	tm.activePlayer = next
	if next == PlayerA {
		tm.turnNumber++
	}
	tm.step = StepDraw
}

func discardOrEnd(handSize int) Step {
	if handSize > HandLimit {
		return StepDiscard
	}
	return StepEnd
}
