package game

import (
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// ReactionKind distinguishes the three families of defensive cards.
type ReactionKind int

const (
	ReactionReactive ReactionKind = iota
	ReactionCounterattack
	ReactionHealing
)

var reactionKindNames = map[ReactionKind]string{
	ReactionReactive:      "reactive",
	ReactionCounterattack: "counterattack",
	ReactionHealing:       "healing",
}

func (k ReactionKind) String() string {
	if name, ok := reactionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func reactionKindOf(t cards.Type) (ReactionKind, bool) {
	switch t {
	case cards.TypeReactive:
		return ReactionReactive, true
	case cards.TypeCounterattack:
		return ReactionCounterattack, true
	case cards.TypeHealing:
		return ReactionHealing, true
	default:
		return 0, false
	}
}

// ReactionScore measures one candidate reaction against the unreacted hit.
type ReactionScore struct {
	PreventedDeath bool
	Survives       bool
	DamageSaved    int
	HealingApplied int
	CounterDamage  int
	ResultingHP    int
}

func boolScore(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Value returns the component named by key as an integer, larger is better.
func (s ReactionScore) Value(key ScoreKey) int {
	switch key {
	case ScorePreventedDeath:
		return boolScore(s.PreventedDeath)
	case ScoreSurvives:
		return boolScore(s.Survives)
	case ScoreDamageSaved:
		return s.DamageSaved
	case ScoreHealingApplied:
		return s.HealingApplied
	case ScoreCounterDamage:
		return s.CounterDamage
	case ScoreResultingHP:
		return s.ResultingHP
	default:
		return 0
	}
}

// Compare walks order and returns 1, -1 or 0 on the first differing key.
func (s ReactionScore) Compare(o ReactionScore, order []ScoreKey) int {
	for _, key := range order {
		a, b := s.Value(key), o.Value(key)
		switch {
		case a > b:
			return 1
		case a < b:
			return -1
		}
	}
	return 0
}

// Reaction is one evaluated defensive play and the hit it leads to.
type Reaction struct {
	Kind      ReactionKind
	Card      cards.Card
	HandIndex int
	// HealSlot is the healed board slot, -1 for non-healing reactions.
	HealSlot int

	Damage             int
	Critical           bool
	DefenderHP         int
	CounterDamage      int
	CounterRoll        int
	CounterDefenseRoll int
	CounterCritical    bool
	CounterFumble      bool
	Healed             int
	Overheal           int

	Score ReactionScore
}

// hitContext is the attack as it stands when the defender may react.
type hitContext struct {
	damage       int
	critical     bool
	defenderSlot int
	defenderHP   int
	attackerDef  int
}

func (r *Reaction) score(ctx hitContext) {
	resulting := max(0, r.DefenderHP-r.Damage)
	r.Score = ReactionScore{
		Survives:       resulting > 0,
		PreventedDeath: ctx.damage >= ctx.defenderHP && resulting > 0,
		DamageSaved:    max(0, ctx.damage-r.Damage),
		HealingApplied: r.Healed,
		CounterDamage:  r.CounterDamage,
		ResultingHP:    resulting,
	}
}

// better reports whether r beats best under order. Ties go to the later hand
// position, then the lower heal slot.
func (r *Reaction) better(best *Reaction, order []ScoreKey) bool {
	if best == nil {
		return true
	}
	if c := r.Score.Compare(best.Score, order); c != 0 {
		return c > 0
	}
	if r.HandIndex != best.HandIndex {
		return r.HandIndex > best.HandIndex
	}
	return r.HealSlot < best.HealSlot
}

func applyReactive(card cards.Card, ctx hitContext) (*Reaction, bool) {
	r := &Reaction{
		Kind:       ReactionReactive,
		Card:       card,
		HealSlot:   -1,
		Damage:     ctx.damage,
		Critical:   ctx.critical,
		DefenderHP: ctx.defenderHP,
	}
	switch card.Effect {
	case cards.EffectReduceDamage:
		reduction := max(0, card.Stats.DamageReduction)
		if reduction == 0 || ctx.damage <= 0 {
			return nil, false
		}
		r.Damage = max(0, ctx.damage-reduction)
	case cards.EffectCancelCritical:
		if !ctx.critical || ctx.damage <= 0 {
			return nil, false
		}
		r.Damage = max(0, ctx.damage-CriticalBonus)
		r.Critical = false
	case cards.EffectPreventDeath:
		if ctx.damage < ctx.defenderHP {
			return nil, false
		}
		r.Damage = max(0, ctx.defenderHP-1)
	default:
		return nil, false
	}
	return r, true
}

// rollCounter resolves a counterattack card's own dice against the attacker.
// Every counterattack candidate rolls, whether or not it is finally played.
func (m *Match) rollCounter(card cards.Card, ctx hitContext) *Reaction {
	r := &Reaction{
		Kind:       ReactionCounterattack,
		Card:       card,
		HealSlot:   -1,
		Damage:     ctx.damage,
		Critical:   ctx.critical,
		DefenderHP: ctx.defenderHP,
	}
	r.CounterRoll = m.rand.Int(1, DieSides)
	r.CounterDefenseRoll = m.rand.Int(1, DieSides)
	r.CounterFumble = r.CounterRoll == 1
	r.CounterCritical = r.CounterRoll == DieSides

	attack := max(0, card.Stats.CounterDamage) + r.CounterRoll
	defense := max(0, ctx.attackerDef) + r.CounterDefenseRoll
	dmg := max(0, attack-defense)
	if r.CounterFumble {
		dmg = 0
	} else if r.CounterCritical {
		dmg += CriticalBonus
	}
	r.CounterDamage = dmg
	return r
}

func (m *Match) healCandidates(defender rules.PlayerID, card cards.Card, ctx hitContext) []*Reaction {
	p := m.state.Player(defender)
	amount := max(0, card.Stats.HealAmount)
	var out []*Reaction
	for slot, hero := range p.Heroes {
		if hero == nil || !hero.Alive() {
			continue
		}
		healed := min(hero.MissingHP(), amount)
		if healed <= 0 {
			continue
		}
		r := &Reaction{
			Kind:       ReactionHealing,
			Card:       card,
			HealSlot:   slot,
			Damage:     ctx.damage,
			Critical:   ctx.critical,
			DefenderHP: ctx.defenderHP,
			Healed:     healed,
			Overheal:   amount - healed,
		}
		if slot == ctx.defenderSlot {
			r.DefenderHP += healed
		}
		out = append(out, r)
	}
	return out
}

// chooseReaction evaluates every affordable reaction card in the defender's
// hand and returns the best one under the defender's policy, or nil.
func (m *Match) chooseReaction(defender rules.PlayerID, ctx hitContext) *Reaction {
	p := m.state.Player(defender)
	order := m.policy(defender).ReactionPriority()
	if len(order) == 0 {
		order = DefaultReactionPriority
	}

	var best *Reaction
	for idx, card := range p.Hand {
		kind, ok := reactionKindOf(card.Type)
		if !ok || !p.Resources.CanPay(card.Cost) {
			continue
		}
		var candidates []*Reaction
		switch kind {
		case ReactionReactive:
			if r, ok := applyReactive(card, ctx); ok {
				candidates = append(candidates, r)
			}
		case ReactionCounterattack:
			candidates = append(candidates, m.rollCounter(card, ctx))
		case ReactionHealing:
			candidates = m.healCandidates(defender, card, ctx)
		}
		for _, r := range candidates {
			r.HandIndex = idx
			r.score(ctx)
			if r.better(best, order) {
				best = r
			}
		}
	}
	return best
}

// commitReaction pays for and plays the chosen reaction. The card leaves the
// hand immediately and is never taken back. An error means nothing was played.
func (m *Match) commitReaction(defender rules.PlayerID, r *Reaction, ctx hitContext) error {
	const action = "react"
	p := m.state.Player(defender)
	idx := p.HandIndex(r.Card.ID)
	if idx < 0 {
		return reject(action, defender, ErrCardNotInHand, "card %s", r.Card.ID)
	}

	category := rules.SpendReactions
	if r.Kind == ReactionHealing {
		category = rules.SpendHealing
	}
	if err := m.spend(action, p, r.Card.Cost, category, r.Card.ID); err != nil {
		return err
	}
	p.takeFromHand(idx)
	m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, r.Card)

	turn := m.state.Turn.TurnNumber()
	played := rules.NewEventWithAmount(rules.EventReactionPlayed, turn, defender, r.Card.Cost)
	played.SourceID = r.Card.ID
	played.Slot = ctx.defenderSlot
	played.Data = r.Kind.String()
	m.bus.Publish(played)

	cause := rules.CauseReactive
	switch r.Kind {
	case ReactionHealing:
		cause = rules.CauseHealing
		m.heal(defender, r.HealSlot, r.Card, true)
	case ReactionReactive:
		if r.Score.DamageSaved > 0 {
			evt := rules.NewEventWithAmount(rules.EventDamagePrevented, turn, defender, r.Score.DamageSaved)
			evt.SourceID = r.Card.ID
			evt.Slot = ctx.defenderSlot
			m.bus.Publish(evt)
		}
	}

	if r.Score.PreventedDeath {
		evt := rules.NewEvent(rules.EventDeathPrevented, turn, defender)
		evt.SourceID = r.Card.ID
		evt.Slot = ctx.defenderSlot
		evt.Data = cause
		m.bus.Publish(evt)
	}
	return nil
}
