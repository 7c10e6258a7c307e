package watchers

import (
	"testing"

	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func event(t rules.EventType, player rules.PlayerID, amount int, data string) rules.Event {
	e := rules.NewEventWithAmount(t, 1, player, amount)
	e.Data = data
	return e
}

func TestMatchStatsWatcher_Counts(t *testing.T) {
	bus := rules.NewEventBus()
	w := NewMatchStatsWatcher()
	rules.Attach(bus, w)

	spent := event(rules.EventResourcesSpent, rules.PlayerA, 3, rules.SpendHeroes)
	healed := event(rules.EventHealed, rules.PlayerA, 2, "")
	healed.Overflow = 1
	hit := event(rules.EventAttackResolved, rules.PlayerA, 5, "")
	hit.Overflow = 2

	for _, e := range []rules.Event{
		event(rules.EventCardsDrawn, rules.PlayerA, 5, ""),
		event(rules.EventResourcesRefilled, rules.PlayerA, 10, ""),
		spent,
		event(rules.EventResourcesSpent, rules.PlayerA, 1, rules.SpendReactions),
		healed,
		hit,
		event(rules.EventReactionPlayed, rules.PlayerB, 0, "reactive"),
		event(rules.EventCounterattack, rules.PlayerB, 2, ""),
		event(rules.EventHeroDestroyed, rules.PlayerA, 0, rules.CauseCounterattack),
		event(rules.EventHeroDestroyed, rules.PlayerB, 0, ""),
		event(rules.EventDeathPrevented, rules.PlayerB, 0, rules.CauseHealing),
		event(rules.EventLeaderDetermined, rules.PlayerB, 0, ""),
	} {
		bus.Publish(e)
	}

	r := w.Record()
	assert.Equal(t, 5, r.CardsDrawnTotal)
	assert.Equal(t, 10, r.ResourcesAvailableTotal)
	assert.Equal(t, 4, r.ResourcesSpentTotal)
	assert.Equal(t, 3, r.ResourcesSpentHeroes)
	assert.Equal(t, 1, r.ResourcesSpentReactions)
	assert.Equal(t, 2, r.HealingAmountTotal)
	assert.Equal(t, 1, r.HealingOverhealTotal)
	assert.Equal(t, 1, r.TotalAttacks)
	assert.Equal(t, 2, r.OverkillTotal)
	assert.Equal(t, 1, r.ReactiveCardsUsed)
	assert.Equal(t, 2, r.TotalCounterDamageDealt)
	assert.Equal(t, 2, r.HeroesKilledTotal)
	assert.Equal(t, 1, r.HeroesKilledByPlayerA)
	assert.Equal(t, 1, r.HeroesKilledByPlayerB)
	assert.Equal(t, 1, r.AttackerDeathsByCounter)
	assert.Equal(t, 1, r.HealingPreventedDeaths)
	assert.True(t, r.ReachedTurn3)
	assert.Equal(t, "player_b", r.Turn3Leader)
}

func TestMatchStatsWatcher_Reset(t *testing.T) {
	w := NewMatchStatsWatcher()
	w.Watch(event(rules.EventFumble, rules.PlayerA, 0, ""))
	assert.Equal(t, 1, w.Record().FumbleCount)

	w.Reset()
	assert.Zero(t, w.Record().FumbleCount)
}
