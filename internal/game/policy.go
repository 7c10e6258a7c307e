package game

import (
	"sort"

	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Play is a card to put into a board slot: a recruit target, an equip
// target, or a heal target.
type Play struct {
	CardID string
	Slot   int
}

// Attack pairs an attacking slot with a defending slot.
type Attack struct {
	AttackerSlot int
	DefenderSlot int
}

// ScoreKey names one component of a reaction score. A policy orders the keys
// to say which outcome it values most.
type ScoreKey int

const (
	ScorePreventedDeath ScoreKey = iota
	ScoreSurvives
	ScoreDamageSaved
	ScoreHealingApplied
	ScoreCounterDamage
	ScoreResultingHP
)

var scoreKeyNames = map[ScoreKey]string{
	ScorePreventedDeath: "prevented_death",
	ScoreSurvives:       "survives",
	ScoreDamageSaved:    "damage_saved",
	ScoreHealingApplied: "healing_applied",
	ScoreCounterDamage:  "counter_damage",
	ScoreResultingHP:    "resulting_hp",
}

func (k ScoreKey) String() string {
	if name, ok := scoreKeyNames[k]; ok {
		return name
	}
	return "unknown"
}

// DefaultReactionPriority is the reaction score order of the baseline bot.
var DefaultReactionPriority = []ScoreKey{
	ScorePreventedDeath,
	ScoreSurvives,
	ScoreDamageSaved,
	ScoreHealingApplied,
	ScoreCounterDamage,
	ScoreResultingHP,
}

// Policy decides what a seat does at each decision point. Implementations
// must not mutate the state they are given and must return the same answer
// for the same state.
type Policy interface {
	Name() string
	PickHeroRecruitPlay(s *State, id rules.PlayerID) (Play, bool)
	PickItemEquipPlay(s *State, id rules.PlayerID) (Play, bool)
	PickHealingRecruitPlay(s *State, id rules.PlayerID) (Play, bool)
	PickAttacks(s *State, id rules.PlayerID) []Attack
	PickDiscardCardIDs(hand []cards.Card, required int) []string
	ReactionPriority() []ScoreKey
}

// DiscardPriority ranks card types for discarding: lower ranks go first.
type DiscardPriority map[cards.Type]int

// BaselineDiscardPriority sheds reactions first and keeps heroes longest.
var BaselineDiscardPriority = DiscardPriority{
	cards.TypeReactive:      0,
	cards.TypeCounterattack: 1,
	cards.TypeHealing:       2,
	cards.TypeItem:          3,
	cards.TypeWeapon:        3,
	cards.TypeHero:          4,
}

func (dp DiscardPriority) rank(t cards.Type) int {
	if r, ok := dp[t]; ok {
		return r
	}
	return 99
}

// RankDiscards picks required card ids from hand: lowest type rank first,
// then highest cost, then earliest hand position.
func RankDiscards(hand []cards.Card, required int, priority DiscardPriority) []string {
	if required <= 0 {
		return nil
	}
	order := make([]int, len(hand))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := hand[order[i]], hand[order[j]]
		if ra, rb := priority.rank(a.Type), priority.rank(b.Type); ra != rb {
			return ra < rb
		}
		if a.Cost != b.Cost {
			return a.Cost > b.Cost
		}
		return order[i] < order[j]
	})
	if required > len(order) {
		required = len(order)
	}
	ids := make([]string, 0, required)
	for _, idx := range order[:required] {
		ids = append(ids, hand[idx].ID)
	}
	return ids
}
