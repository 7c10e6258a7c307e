package bot

import (
	"sort"

	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Baseline recruits cheap, arms heroes with weapons first, and attacks the
// first defender it sees.
type Baseline struct{}

func (Baseline) Name() string { return ProfileBaseline }

// PickHeroRecruitPlay picks the cheapest affordable hero for the first empty
// slot.
func (Baseline) PickHeroRecruitPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	return recruitBy(s, id, byCostAsc)
}

// PickItemEquipPlay equips weapons before items, cheapest first.
func (Baseline) PickItemEquipPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	p := s.Player(id)
	weapons := affordable(p, cards.TypeWeapon)
	items := affordable(p, cards.TypeItem)
	byCostAsc(weapons)
	byCostAsc(items)
	return firstHolder(p, append(weapons, items...))
}

// PickHealingRecruitPlay heals the most valuable hero missing at least 2 hp
// with the cheapest healing card.
func (Baseline) PickHealingRecruitPlay(s *game.State, id rules.PlayerID) (game.Play, bool) {
	p := s.Player(id)
	card, ok := cheapestHealing(p)
	if !ok {
		return game.Play{}, false
	}

	type target struct {
		slot, missing, value int
	}
	var targets []target
	for slot, h := range p.Heroes {
		if h == nil || h.MissingHP() < 2 {
			continue
		}
		targets = append(targets, target{
			slot:    slot,
			missing: h.MissingHP(),
			value:   h.Attack() + h.Defense() + len(h.Equipment),
		})
	}
	if len(targets) == 0 {
		return game.Play{}, false
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].value != targets[j].value {
			return targets[i].value > targets[j].value
		}
		if targets[i].missing != targets[j].missing {
			return targets[i].missing > targets[j].missing
		}
		return targets[i].slot < targets[j].slot
	})
	return game.Play{CardID: card.card.ID, Slot: targets[0].slot}, true
}

// PickAttacks sends every ready hero into the first living defender.
func (Baseline) PickAttacks(s *game.State, id rules.PlayerID) []game.Attack {
	return attacksInto(s, id, func(*game.Hero) bool { return true })
}

func (Baseline) PickDiscardCardIDs(hand []cards.Card, required int) []string {
	return game.RankDiscards(hand, required, game.BaselineDiscardPriority)
}

func (Baseline) ReactionPriority() []game.ScoreKey {
	return game.DefaultReactionPriority
}
