package game

import (
	"fmt"
	"testing"

	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedRand replays fixed integers and falls back to the range minimum.
type scriptedRand struct {
	rolls []int
}

func (s *scriptedRand) Next() float64 { return 0 }

func (s *scriptedRand) Int(min, max int) int {
	if len(s.rolls) == 0 {
		return min
	}
	v := s.rolls[0]
	s.rolls = s.rolls[1:]
	return v
}

// idlePolicy never acts and reacts with the default priority.
type idlePolicy struct{}

func (idlePolicy) Name() string { return "idle" }
func (idlePolicy) PickHeroRecruitPlay(*State, rules.PlayerID) (Play, bool) {
	return Play{}, false
}
func (idlePolicy) PickItemEquipPlay(*State, rules.PlayerID) (Play, bool) {
	return Play{}, false
}
func (idlePolicy) PickHealingRecruitPlay(*State, rules.PlayerID) (Play, bool) {
	return Play{}, false
}
func (idlePolicy) PickAttacks(*State, rules.PlayerID) []Attack { return nil }
func (idlePolicy) PickDiscardCardIDs(hand []cards.Card, required int) []string {
	return RankDiscards(hand, required, BaselineDiscardPriority)
}
func (idlePolicy) ReactionPriority() []ScoreKey { return DefaultReactionPriority }

func heroCard(id string, atk, def, hp, cost int) cards.Card {
	return cards.Card{ID: id, Type: cards.TypeHero, Cost: cost, Stats: cards.Stats{Atk: atk, Def: def, HP: hp}}
}

func itemCard(id string, typ cards.Type, cost int, stats cards.Stats) cards.Card {
	return cards.Card{ID: id, Type: typ, Cost: cost, Stats: stats}
}

func reactiveCard(id string, effect cards.Effect, cost, reduction int) cards.Card {
	return cards.Card{ID: id, Type: cards.TypeReactive, Cost: cost, Effect: effect,
		Stats: cards.Stats{DamageReduction: reduction}}
}

func counterCard(id string, cost, damage int) cards.Card {
	return cards.Card{ID: id, Type: cards.TypeCounterattack, Cost: cost, Stats: cards.Stats{CounterDamage: damage}}
}

func healCard(id string, cost, amount int) cards.Card {
	return cards.Card{ID: id, Type: cards.TypeHealing, Cost: cost, Stats: cards.Stats{HealAmount: amount}}
}

func fillerDeck(n int) []cards.Card {
	deck := make([]cards.Card, n)
	for i := range deck {
		deck[i] = itemCard(fmt.Sprintf("filler-%02d", i), cards.TypeItem, 1, cards.Stats{DefBonus: 1})
	}
	return deck
}

// newTestMatch builds a match with empty hands and boards. The opening deal
// is marked done so tests can stage the state themselves.
func newTestMatch(t *testing.T, first rules.PlayerID) *Match {
	t.Helper()
	m, err := NewMatch(fillerDeck(20), idlePolicy{}, idlePolicy{},
		WithLogger(zaptest.NewLogger(t)),
		WithSeed(1),
	)
	require.NoError(t, err)
	m.state.Turn = rules.NewTurnManager(first)
	m.started = true
	return m
}

// moveTo advances the turn manager until player is active in step.
func moveTo(t *testing.T, m *Match, player rules.PlayerID, step rules.Step) {
	t.Helper()
	tm := m.state.Turn
	for i := 0; i < 32; i++ {
		if tm.ActivePlayer() == player && tm.CurrentStep() == step {
			return
		}
		tm.Advance(0)
	}
	t.Fatalf("could not reach %s/%s", player, step)
}

// place puts a ready hero on the board.
func place(m *Match, id rules.PlayerID, slot int, card cards.Card) *Hero {
	h := newHero(card)
	h.SummoningSick = false
	m.state.Player(id).Heroes[slot] = h
	return h
}

// script replaces the match's dice with fixed rolls.
func script(m *Match, rolls ...int) {
	WithRand(&scriptedRand{rolls: rolls})(m)
}
