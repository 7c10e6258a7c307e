// Package watchers holds event watchers that derive match statistics from the
// engine's event stream.
package watchers

import (
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/eypacha/drawandroll/internal/stats"
)

// MatchStatsWatcher accumulates the event-derived counters of a MatchRecord.
// Seat, seed, and final-board fields are filled by the match driver.
type MatchStatsWatcher struct {
	*rules.BaseWatcher
	record stats.MatchRecord
}

// NewMatchStatsWatcher creates an empty stats watcher.
func NewMatchStatsWatcher() *MatchStatsWatcher {
	return &MatchStatsWatcher{
		BaseWatcher: rules.NewBaseWatcher("MatchStatsWatcher"),
	}
}

// Watch implements the Watcher interface.
func (w *MatchStatsWatcher) Watch(event rules.Event) {
	r := &w.record
	switch event.Type {
	case rules.EventCardsDrawn:
		r.CardsDrawnTotal += event.Amount
	case rules.EventMulligan:
		r.MulliganCount++
	case rules.EventCardsDiscarded:
		r.CardsDiscardedTotal += event.Amount
	case rules.EventHeroRecruited:
		r.CardsRecruitedTotal++
	case rules.EventItemEquipped:
		r.ItemsEquippedTotal++
	case rules.EventEquipmentBroken:
		r.EquipmentBrokenTotal++
	case rules.EventResourcesRefilled:
		r.ResourcesAvailableTotal += event.Amount
	case rules.EventResourcesSpent:
		r.ResourcesSpentTotal += event.Amount
		switch event.Data {
		case rules.SpendHeroes:
			r.ResourcesSpentHeroes += event.Amount
		case rules.SpendItems:
			r.ResourcesSpentItems += event.Amount
		case rules.SpendHealing:
			r.ResourcesSpentHealing += event.Amount
		case rules.SpendReactions:
			r.ResourcesSpentReactions += event.Amount
		}
	case rules.EventHealed:
		r.HealingCardsUsed++
		r.HealingAmountTotal += event.Amount
		r.HealingOverhealTotal += event.Overflow
	case rules.EventAttackResolved:
		r.TotalAttacks++
		r.TotalDamageDealt += event.Amount
		r.OverkillTotal += event.Overflow
	case rules.EventCriticalHit:
		r.CriticalCount++
	case rules.EventFumble:
		r.FumbleCount++
	case rules.EventReactionPlayed:
		switch event.Data {
		case "reactive":
			r.ReactiveCardsUsed++
		case "healing":
			r.HealingReactionsUsed++
		}
	case rules.EventCounterattack:
		r.CounterattacksUsed++
		r.CounterattackDamageDealt += event.Amount
		r.TotalCounterDamageDealt += event.Amount
	case rules.EventDamagePrevented:
		r.ReactionDamagePrevented += event.Amount
	case rules.EventDeathPrevented:
		switch event.Data {
		case rules.CauseReactive:
			r.ReactiveDeathsPrevented++
		case rules.CauseHealing:
			r.HealingPreventedDeaths++
		}
	case rules.EventHeroDestroyed:
		r.HeroesKilledTotal++
		// Credit the seat that dealt the blow.
		if event.PlayerID.Opponent() == rules.PlayerA {
			r.HeroesKilledByPlayerA++
		} else {
			r.HeroesKilledByPlayerB++
		}
		if event.Data == rules.CauseCounterattack {
			r.AttackerDeathsByCounter++
		}
	case rules.EventLeaderDetermined:
		r.ReachedTurn3 = true
		r.Turn3Leader = string(event.PlayerID)
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *MatchStatsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.record = stats.MatchRecord{}
}

// Record returns a copy of the counters gathered so far.
func (w *MatchStatsWatcher) Record() stats.MatchRecord {
	return w.record
}
