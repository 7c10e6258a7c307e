package bot

import (
	"sort"

	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

var aggressiveDiscard = game.DiscardPriority{
	cards.TypeHealing:       0,
	cards.TypeReactive:      1,
	cards.TypeCounterattack: 2,
	cards.TypeItem:          3,
	cards.TypeWeapon:        3,
	cards.TypeHero:          4,
}

// Counter damage ranks above survival, but a reaction that turns a lethal hit
// into a survivable one still wins.
var aggressiveReactions = []game.ScoreKey{
	game.ScorePreventedDeath,
	game.ScoreCounterDamage,
	game.ScoreSurvives,
	game.ScoreDamageSaved,
	game.ScoreHealingApplied,
	game.ScoreResultingHP,
}

// Aggressive invests in the most expensive heroes and focuses fire on the
// weakest defender.
type Aggressive struct {
	Baseline
}

func (Aggressive) Name() string { return ProfileAggressive }

// PickHeroRecruitPlay picks the most expensive affordable hero.
func (Aggressive) PickHeroRecruitPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	return recruitBy(s, id, byCostDesc)
}

// PickHealingRecruitPlay only heals heroes missing at least 3 hp, the most
// wounded first.
func (Aggressive) PickHealingRecruitPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	p := s.Player(id)
	card, ok := cheapestHealing(p)
	if !ok {
		return game.Play{}, false
	}
	best, bestMissing := -1, 0
	for slot, h := range p.Heroes {
		if h == nil || h.MissingHP() < 3 {
			continue
		}
		if h.MissingHP() > bestMissing {
			best, bestMissing = slot, h.MissingHP()
		}
	}
	if best < 0 {
		return game.Play{}, false
	}
	return game.Play{CardID: card.card.ID, Slot: best}, true
}

// PickAttacks orders attackers by attack, strongest first, and points each
// at the defender with the lowest current hp.
func (Aggressive) PickAttacks(s *game.State, id rules.PlayerID) []game.Attack {
	type attacker struct {
		slot, atk int
	}
	var ready []attacker
	for slot := 0; slot < game.HeroSlots; slot++ {
		if s.CanAttack(id, slot) {
			ready = append(ready, attacker{slot: slot, atk: s.Hero(id, slot).Attack()})
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].atk != ready[j].atk {
			return ready[i].atk > ready[j].atk
		}
		return ready[i].slot < ready[j].slot
	})

	defenders := s.Opponent(id)
	var attacks []game.Attack
	for _, a := range ready {
		target, targetHP := -1, 0
		for slot, h := range defenders.Heroes {
			if h == nil {
				continue
			}
			if target < 0 || h.CurrentHP < targetHP {
				target, targetHP = slot, h.CurrentHP
			}
		}
		if target < 0 {
			break
		}
		attacks = append(attacks, game.Attack{AttackerSlot: a.slot, DefenderSlot: target})
	}
	return attacks
}

// PickDiscardCardIDs sheds healing and reactions before anything else.
func (Aggressive) PickDiscardCardIDs(hand []cards.Card, required int) []string {
	return game.RankDiscards(hand, required, aggressiveDiscard)
}

func (Aggressive) ReactionPriority() []game.ScoreKey {
	return aggressiveReactions
}
