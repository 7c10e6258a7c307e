package game_test

import (
	"fmt"
	"testing"

	"github.com/eypacha/drawandroll/internal/bot"
	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rng"
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const batchPath = "../../data/batches/batch.json"

func loadPool(t *testing.T) *cards.Pool {
	t.Helper()
	pool, err := cards.Load(batchPath)
	require.NoError(t, err)
	return pool
}

func policies(t *testing.T, a, b string) (game.Policy, game.Policy) {
	t.Helper()
	pa, err := bot.Lookup(a)
	require.NoError(t, err)
	pb, err := bot.Lookup(b)
	require.NoError(t, err)
	return pa, pb
}

func TestMatch_SameSeedSameOutcome(t *testing.T) {
	pool := loadPool(t)
	base := rng.HashString("determinism")

	for _, a := range bot.Names() {
		for _, b := range bot.Names() {
			pa, pb := policies(t, a, b)
			for i := 0; i < 10; i++ {
				seed := rng.DeriveSeed(base, i)

				m1, err := game.NewMatch(pool.Cards, pa, pb, game.WithSeed(seed), game.WithGameIndex(i))
				require.NoError(t, err)
				m2, err := game.NewMatch(pool.Cards, pa, pb, game.WithSeed(seed), game.WithGameIndex(i))
				require.NoError(t, err)

				rec1, rec2 := m1.Run(), m2.Run()
				sum1, err := rec1.Checksum()
				require.NoError(t, err)
				sum2, err := rec2.Checksum()
				require.NoError(t, err)

				name := fmt.Sprintf("%s-vs-%s #%d", a, b, i)
				assert.Equal(t, sum1, sum2, name)
				assert.Equal(t, m1.State().Checksum(), m2.State().Checksum(), name)
			}
		}
	}
}

// invariantChecker watches a running match and records every broken rule.
type invariantChecker struct {
	match      *game.Match
	violations []string
	reactions  int
}

func (c *invariantChecker) failf(format string, args ...any) {
	c.violations = append(c.violations, fmt.Sprintf(format, args...))
}

func (c *invariantChecker) watch(e rules.Event) {
	s := c.match.State()
	for _, p := range s.Players {
		if r := p.Resources.Current(); r < 0 || r > p.Resources.Max() {
			c.failf("%s resources %d outside [0,%d] at %s", p.ID, r, p.Resources.Max(), e.Type)
		}
	}

	switch e.Type {
	case rules.EventReactionPlayed:
		c.reactions++
		if c.reactions > 1 {
			c.failf("turn %d: more than one reaction for a single attack", e.Turn)
		}
	case rules.EventAttackResolved:
		c.reactions = 0
	case rules.EventStepChanged:
		for _, p := range s.Players {
			for slot, h := range p.Heroes {
				if h == nil {
					continue
				}
				if h.CurrentHP <= 0 || h.CurrentHP > h.MaxHP() {
					c.failf("%s slot %d hp %d outside (0,%d]", p.ID, slot, h.CurrentHP, h.MaxHP())
				}
				if len(h.Equipment) > game.MaxEquipment || h.WeaponCount() > game.MaxWeapons {
					c.failf("%s slot %d over equipment caps", p.ID, slot)
				}
			}
		}
		if e.Data == rules.StepEnd.String() {
			if n := len(s.Player(e.PlayerID).Hand); n > rules.HandLimit {
				c.failf("%s entered end with %d cards", e.PlayerID, n)
			}
		}
	}
}

func countCards(s *game.State) int {
	n := len(s.Deck.Cards) + len(s.Deck.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
		for _, h := range p.Heroes {
			if h != nil {
				n += 1 + len(h.Equipment)
			}
		}
	}
	return n
}

func TestMatch_Invariants(t *testing.T) {
	pool := loadPool(t)
	base := rng.HashString("invariants")
	names := bot.Names()

	for i := 0; i < 90; i++ {
		a, b := names[i%3], names[(i/3)%3]
		pa, pb := policies(t, a, b)

		bus := rules.NewEventBus()
		checker := &invariantChecker{}
		m, err := game.NewMatch(pool.Cards, pa, pb,
			game.WithLogger(zaptest.NewLogger(t)),
			game.WithSeed(rng.DeriveSeed(base, i)),
			game.WithEventBus(bus),
		)
		require.NoError(t, err)
		checker.match = m
		bus.Subscribe(checker.watch)

		rec := m.Run()

		assert.Empty(t, checker.violations, "match %d (%s vs %s)", i, a, b)
		assert.Equal(t, len(pool.Cards), countCards(m.State()), "match %d: cards are never created or lost", i)
		assert.NotEqual(t, rec.Winner != "", rec.TimedOutByMaxTurns, "match %d: exactly one of winner or timeout", i)
		assert.GreaterOrEqual(t, rec.ResourcesAvailableTotal, rec.ResourcesSpentTotal)
		assert.Equal(t, rec.ResourcesSpentTotal,
			rec.ResourcesSpentHeroes+rec.ResourcesSpentItems+rec.ResourcesSpentHealing+rec.ResourcesSpentReactions)
		assert.Equal(t, rec.HeroesKilledTotal, rec.HeroesKilledByPlayerA+rec.HeroesKilledByPlayerB)
		assert.LessOrEqual(t, rec.CriticalCount+rec.FumbleCount, rec.TotalAttacks)
		if rec.EndedByNoHeroes {
			loser := rules.PlayerID(rec.Winner).Opponent()
			assert.False(t, m.State().Player(loser).HasHeroes(), "match %d: loser still has heroes", i)
		}
	}
}

func TestMatch_RealPoolProducesDecisiveGames(t *testing.T) {
	pool := loadPool(t)
	pa, pb := policies(t, bot.ProfileBaseline, bot.ProfileBaseline)

	decisive := 0
	for i := 0; i < 30; i++ {
		m, err := game.NewMatch(pool.Cards, pa, pb, game.WithSeed(uint32(1000+i)))
		require.NoError(t, err)
		rec := m.Run()
		if rec.Decisive() {
			decisive++
		}
		assert.Positive(t, rec.CardsRecruitedTotal)
		assert.GreaterOrEqual(t, rec.CardsDrawnTotal, 2*game.OpeningHandSize)
	}
	assert.Positive(t, decisive)
}

func TestReplay_SaveAndLoad(t *testing.T) {
	pool := loadPool(t)
	pa, pb := policies(t, bot.ProfileAggressive, bot.ProfileConservative)

	bus := rules.NewEventBus()
	replay := game.NewReplay("replay-42", 42)
	m, err := game.NewMatch(pool.Cards, pa, pb,
		game.WithSeed(42), game.WithEventBus(bus), game.WithReplay(replay))
	require.NoError(t, err)
	m.Run()

	dir := t.TempDir()
	require.NoError(t, replay.SaveToFile(dir))

	loaded, err := game.LoadReplayFromFile(dir, "replay-42")
	require.NoError(t, err)
	assert.Equal(t, replay.MatchID, loaded.MatchID)
	assert.Equal(t, replay.Seed, loaded.Seed)
	require.Equal(t, replay.Size(), loaded.Size())
	assert.Equal(t, replay.Events, loaded.Events)

	_, err = game.LoadReplayFromFile(dir, "missing")
	assert.Error(t, err)
}

func TestReplay_SameSeedSameLog(t *testing.T) {
	pool := loadPool(t)
	pa, pb := policies(t, bot.ProfileBaseline, bot.ProfileAggressive)

	logs := make([]*game.Replay, 2)
	for i := range logs {
		bus := rules.NewEventBus()
		logs[i] = game.NewReplay("same", 7)
		m, err := game.NewMatch(pool.Cards, pa, pb,
			game.WithSeed(7), game.WithEventBus(bus), game.WithReplay(logs[i]))
		require.NoError(t, err)
		m.Run()
	}
	assert.Equal(t, logs[0].Events, logs[1].Events)
}
