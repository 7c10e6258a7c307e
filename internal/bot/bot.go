// Package bot implements the automated seat policies: baseline, aggressive
// and conservative.
package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// ErrUnknownProfile is returned by Lookup for names it does not know.
var ErrUnknownProfile = errors.New("unknown bot profile")

const (
	ProfileBaseline     = "baseline"
	ProfileAggressive   = "aggressive"
	ProfileConservative = "conservative"
)

var profiles = map[string]game.Policy{
	ProfileBaseline:     Baseline{},
	ProfileAggressive:   Aggressive{},
	ProfileConservative: Conservative{},
}

// Lookup returns the policy registered under name. Names are matched case
// insensitively and an empty name selects the baseline.
func Lookup(name string) (game.Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = ProfileBaseline
	}
	p, ok := profiles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the registered profiles in a stable order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// handCard is a card together with its position in hand.
type handCard struct {
	card  cards.Card
	index int
}

func affordable(p *game.Player, types ...cards.Type) []handCard {
	var out []handCard
	for i, c := range p.Hand {
		if !p.Resources.CanPay(c.Cost) {
			continue
		}
		for _, t := range types {
			if c.Type == t {
				out = append(out, handCard{card: c, index: i})
				break
			}
		}
	}
	return out
}

func byCostAsc(list []handCard) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].card.Cost != list[j].card.Cost {
			return list[i].card.Cost < list[j].card.Cost
		}
		return list[i].index < list[j].index
	})
}

func byCostDesc(list []handCard) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].card.Cost != list[j].card.Cost {
			return list[i].card.Cost > list[j].card.Cost
		}
		return list[i].index < list[j].index
	})
}

// canHold reports whether hero has room for card under the equipment caps.
func canHold(hero *game.Hero, card cards.Card) bool {
	if hero == nil || len(hero.Equipment) >= game.MaxEquipment {
		return false
	}
	return card.Type != cards.TypeWeapon || hero.WeaponCount() < game.MaxWeapons
}

// firstHolder returns the first candidate that fits on some hero, placed on
// the lowest slot that can hold it.
func firstHolder(p *game.Player, candidates []handCard) (game.Play, bool) {
	for _, c := range candidates {
		for slot, hero := range p.Heroes {
			if canHold(hero, c.card) {
				return game.Play{CardID: c.card.ID, Slot: slot}, true
			}
		}
	}
	return game.Play{}, false
}

func recruitBy(s *game.State, id rules.PlayerID, order func([]handCard)) (game.Play, bool) {
	p := s.Player(id)
	slot := p.FirstEmptySlot()
	if slot < 0 {
		return game.Play{}, false
	}
	candidates := affordable(p, cards.TypeHero)
	if len(candidates) == 0 {
		return game.Play{}, false
	}
	order(candidates)
	return game.Play{CardID: candidates[0].card.ID, Slot: slot}, true
}

func cheapestHealing(p *game.Player) (handCard, bool) {
	healing := affordable(p, cards.TypeHealing)
	if len(healing) == 0 {
		return handCard{}, false
	}
	byCostAsc(healing)
	return healing[0], true
}

// attacksInto sends every eligible attacker, in slot order, into the first
// living defender.
func attacksInto(s *game.State, id rules.PlayerID, eligible func(*game.Hero) bool) []game.Attack {
	defenders := s.Opponent(id)
	var attacks []game.Attack
	for slot := 0; slot < game.HeroSlots; slot++ {
		if !s.CanAttack(id, slot) || !eligible(s.Hero(id, slot)) {
			continue
		}
		target := defenders.FirstHeroSlot()
		if target < 0 {
			break
		}
		attacks = append(attacks, game.Attack{AttackerSlot: slot, DefenderSlot: target})
	}
	return attacks
}
