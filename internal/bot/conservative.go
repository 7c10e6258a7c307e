package bot

import (
	"sort"

	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Heroes at or below either threshold stay home.
const (
	withholdHP    = 2
	withholdRatio = 0.34
)

var conservativeDiscard = game.DiscardPriority{
	cards.TypeHero:          0,
	cards.TypeItem:          1,
	cards.TypeWeapon:        1,
	cards.TypeCounterattack: 2,
	cards.TypeReactive:      3,
	cards.TypeHealing:       4,
}

var conservativeReactions = []game.ScoreKey{
	game.ScorePreventedDeath,
	game.ScoreSurvives,
	game.ScoreDamageSaved,
	game.ScoreResultingHP,
	game.ScoreHealingApplied,
	game.ScoreCounterDamage,
}

// Conservative stacks defense, keeps wounded heroes out of combat, and holds
// on to its defensive cards.
type Conservative struct {
	Baseline
}

func (Conservative) Name() string { return ProfileConservative }

// PickItemEquipPlay equips the card with the largest defense gain first,
// cheaper on ties.
func (Conservative) PickItemEquipPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	p := s.Player(id)
	candidates := affordable(p, cards.TypeWeapon, cards.TypeItem)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].card, candidates[j].card
		if a.DefenseDelta() != b.DefenseDelta() {
			return a.DefenseDelta() > b.DefenseDelta()
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return candidates[i].index < candidates[j].index
	})
	return firstHolder(p, candidates)
}

// PickHealingRecruitPlay heals any wounded hero, heroes at 2 hp or less
// first, then the most wounded.
func (Conservative) PickHealingRecruitPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	p := s.Player(id)
	card, ok := cheapestHealing(p)
	if !ok {
		return game.Play{}, false
	}
	best, bestLow, bestMissing := -1, false, 0
	for slot, h := range p.Heroes {
		if h == nil || h.MissingHP() <= 0 {
			continue
		}
		low := h.CurrentHP <= withholdHP
		switch {
		case best < 0,
			low && !bestLow,
			low == bestLow && h.MissingHP() > bestMissing:
			best, bestLow, bestMissing = slot, low, h.MissingHP()
		}
	}
	if best < 0 {
		return game.Play{}, false
	}
	return game.Play{CardID: card.card.ID, Slot: best}, true
}

func healthyEnough(h *game.Hero) bool {
	ratio := float64(h.CurrentHP) / float64(max(1, h.MaxHP()))
	return h.CurrentHP > withholdHP && ratio > withholdRatio
}

// PickAttacks holds back badly wounded heroes. If that leaves nobody to
// attack with, it attacks like the baseline.
func (c Conservative) PickAttacks(s *game.State, id rules.PlayerID) []game.Attack {
	if attacks := attacksInto(s, id, healthyEnough); len(attacks) > 0 {
		return attacks
	}
	return c.Baseline.PickAttacks(s, id)
}

// PickDiscardCardIDs keeps healing and reactive cards longest.
func (Conservative) PickDiscardCardIDs(hand []cards.Card, required int) []string {
	return game.RankDiscards(hand, required, conservativeDiscard)
}

func (Conservative) ReactionPriority() []game.ScoreKey {
	return conservativeReactions
}
