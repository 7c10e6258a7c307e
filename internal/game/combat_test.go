package game

import (
	"errors"
	"testing"

	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combatMatch(t *testing.T) *Match {
	t.Helper()
	m := newTestMatch(t, rules.PlayerB)
	moveTo(t, m, rules.PlayerA, rules.StepCombat)
	return m
}

func TestResolveAttack_Formula(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 4, 1, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 2, 20, 1))
	script(m, 12, 5)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 16, out.AttackerTotal)
	assert.Equal(t, 7, out.DefenderTotal)
	assert.Equal(t, 9, out.Damage)
	assert.Equal(t, 11, out.DefenderHPAfter)
	assert.False(t, out.Critical)
	assert.False(t, out.Fumble)
	assert.True(t, m.state.Hero(rules.PlayerA, 0).HasAttackedThisPhase)
}

func TestResolveAttack_FumbleForcesZero(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 50, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 5, 1))
	script(m, 1, 1)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	assert.True(t, out.Fumble)
	assert.Equal(t, 0, out.PreReactionDamage)
	assert.Equal(t, 0, out.Damage)
	assert.Equal(t, 5, out.DefenderHPAfter)
	assert.Equal(t, 1, m.Record().FumbleCount)
}

func TestResolveAttack_CriticalBonus(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 3, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 1, 30, 1))
	script(m, 20, 10)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	assert.True(t, out.Critical)
	assert.Equal(t, 3+20-(1+10)+CriticalBonus, out.Damage)
	assert.Equal(t, 1, m.Record().CriticalCount)
}

func TestResolveAttack_LethalPrevented(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 5, 0, 6, 1))
	defender := place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 4, 1))
	defender.CurrentHP = 1
	b := m.state.Player(rules.PlayerB)
	b.Hand = []cards.Card{reactiveCard("save", cards.EffectPreventDeath, 2, 0)}
	script(m, 10, 10)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 5, out.PreReactionDamage)
	require.NotNil(t, out.Reaction)
	assert.True(t, out.Reaction.Score.PreventedDeath)
	assert.Equal(t, 1, out.DefenderHPAfter)
	assert.False(t, out.DefenderDestroyed)
	assert.NotNil(t, m.state.Hero(rules.PlayerB, 0))
	assert.Empty(t, b.Hand)
	assert.Equal(t, DefaultMaxResources-2, b.Resources.Current())

	rec := m.Record()
	assert.Equal(t, 1, rec.ReactiveCardsUsed)
	assert.Equal(t, 1, rec.ReactiveDeathsPrevented)
	assert.Equal(t, 5, rec.ReactionDamagePrevented)
	assert.Equal(t, 2, rec.ResourcesSpentReactions)
}

func TestResolveAttack_AtMostOneReaction(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 6, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 30, 1))
	b := m.state.Player(rules.PlayerB)
	b.Hand = []cards.Card{
		reactiveCard("shield", cards.EffectReduceDamage, 1, 3),
		reactiveCard("parry", cards.EffectCancelCritical, 1, 0),
		counterCard("riposte", 1, 2),
		counterCard("riposte-2", 1, 2),
	}
	script(m, 20, 1, 2, 20, 2, 20)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	require.NotNil(t, out.Reaction)
	assert.Len(t, b.Hand, 3)
	assert.Equal(t, DefaultMaxResources-1, b.Resources.Current())
	// Both cancel and reduce save damage; reduce saves more.
	assert.Equal(t, "shield", out.Reaction.Card.ID)
	assert.Equal(t, 6+20-1+CriticalBonus-3, out.Damage)
}

func TestResolveAttack_TiesGoToLaterHandPosition(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 6, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 30, 1))
	b := m.state.Player(rules.PlayerB)
	b.Hand = []cards.Card{
		reactiveCard("early", cards.EffectReduceDamage, 1, 2),
		reactiveCard("late", cards.EffectReduceDamage, 1, 2),
	}
	script(m, 10, 5)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, out.Reaction)
	assert.Equal(t, "late", out.Reaction.Card.ID)
}

func TestResolveAttack_CounterattackKillsAttacker(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 10, 0, 1, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 1, 1))
	m.state.Player(rules.PlayerB).Hand = []cards.Card{counterCard("riposte", 1, 10)}
	script(m, 15, 1, 15, 1)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	assert.True(t, out.DefenderDestroyed)
	assert.True(t, out.AttackerDestroyed)
	assert.Equal(t, 24, out.CounterDamage)
	assert.Nil(t, m.state.Hero(rules.PlayerA, 0))
	assert.Nil(t, m.state.Hero(rules.PlayerB, 0))
	assert.Equal(t, 1, m.state.Player(rules.PlayerA).HeroesLost)
	assert.Equal(t, 1, m.state.Player(rules.PlayerB).HeroesLost)

	rec := m.Record()
	assert.Equal(t, 2, rec.HeroesKilledTotal)
	assert.Equal(t, 1, rec.HeroesKilledByPlayerA)
	assert.Equal(t, 1, rec.HeroesKilledByPlayerB)
	assert.Equal(t, 1, rec.AttackerDeathsByCounter)
	assert.Equal(t, 1, rec.CounterattacksUsed)
	assert.Equal(t, 24, rec.TotalCounterDamageDealt)
	assert.Equal(t, 23, rec.OverkillTotal)
}

func TestResolveAttack_CounterCriticalAddsBonus(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 5, 0, 50, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 0, 0, 50, 1))
	m.state.Player(rules.PlayerB).Hand = []cards.Card{counterCard("riposte", 1, 3)}
	var counters []rules.Event
	m.Bus().SubscribeTyped(rules.EventCounterattack, func(e rules.Event) {
		counters = append(counters, e)
	})
	script(m, 10, 10, 20, 1)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)

	require.NotNil(t, out.Reaction)
	assert.True(t, out.Reaction.CounterCritical)
	assert.Equal(t, 3+20-1+CriticalBonus, out.CounterDamage)
	assert.Equal(t, 50-out.CounterDamage, out.AttackerHPAfter)
	assert.False(t, out.AttackerDestroyed)

	require.Len(t, counters, 1)
	assert.Equal(t, out.CounterDamage, counters[0].Amount)
	assert.False(t, counters[0].Flag, "flag marks a destroyed attacker")
	assert.Equal(t, 0, m.Record().CriticalCount, "counter criticals are not attack criticals")
}

func TestResolveAttack_HealingReactionPreventsDeath(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 4, 0, 6, 1))
	defender := place(m, rules.PlayerB, 1, heroCard("b", 1, 0, 5, 1))
	defender.CurrentHP = 2
	m.state.Player(rules.PlayerB).Hand = []cards.Card{healCard("salve", 1, 3)}
	script(m, 10, 10)

	out, err := m.ResolveAttack(rules.PlayerA, 0, 1)
	require.NoError(t, err)

	require.NotNil(t, out.Reaction)
	assert.Equal(t, ReactionHealing, out.Reaction.Kind)
	assert.Equal(t, 1, out.Reaction.HealSlot)
	assert.Equal(t, 5, out.DefenderHPBefore)
	assert.Equal(t, 1, out.DefenderHPAfter)

	rec := m.Record()
	assert.Equal(t, 1, rec.HealingReactionsUsed)
	assert.Equal(t, 1, rec.HealingCardsUsed)
	assert.Equal(t, 1, rec.HealingPreventedDeaths)
	assert.Equal(t, 3, rec.HealingAmountTotal)
}

func TestResolveAttack_Rejections(t *testing.T) {
	m := combatMatch(t)
	sick := place(m, rules.PlayerA, 0, heroCard("a", 4, 0, 6, 1))
	sick.SummoningSick = true
	place(m, rules.PlayerA, 1, heroCard("a2", 4, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 0, 5, 1))

	tests := []struct {
		name     string
		player   rules.PlayerID
		attacker int
		defender int
		want     error
	}{
		{"summoning sick", rules.PlayerA, 0, 0, ErrCannotAttack},
		{"empty defender slot", rules.PlayerA, 1, 2, ErrNoDefender},
		{"empty attacker slot", rules.PlayerA, 2, 0, ErrCannotAttack},
		{"out of range", rules.PlayerA, 5, 0, ErrSlotOutOfRange},
		{"not your turn", rules.PlayerB, 0, 0, ErrNotYourTurn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ResolveAttack(tt.player, tt.attacker, tt.defender)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			var actionErr *ActionError
			assert.True(t, errors.As(err, &actionErr))
		})
	}
	assert.Equal(t, 0, m.Record().TotalAttacks)
}

func TestResolveAttack_OncePerCombat(t *testing.T) {
	m := combatMatch(t)
	place(m, rules.PlayerA, 0, heroCard("a", 1, 0, 6, 1))
	place(m, rules.PlayerB, 0, heroCard("b", 1, 10, 50, 1))
	script(m, 5, 5)

	_, err := m.ResolveAttack(rules.PlayerA, 0, 0)
	require.NoError(t, err)
	_, err = m.ResolveAttack(rules.PlayerA, 0, 0)
	assert.ErrorIs(t, err, ErrCannotAttack)
}
