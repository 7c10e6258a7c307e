package game

import (
	"github.com/eypacha/drawandroll/internal/game/rules"
	"go.uber.org/zap"
)

// CombatOutcome describes one resolved attack.
type CombatOutcome struct {
	Attacker     rules.PlayerID
	AttackerSlot int
	DefenderSlot int

	AttackerRoll  int
	DefenderRoll  int
	AttackerTotal int
	DefenderTotal int

	// PreReactionDamage is the damage after the fumble and critical rules
	// but before the defender reacted.
	PreReactionDamage int
	Damage            int
	Critical          bool
	Fumble            bool

	Reaction      *Reaction
	CounterDamage int

	DefenderHPBefore  int
	DefenderHPAfter   int
	DefenderDestroyed bool
	Overkill          int

	AttackerHPBefore  int
	AttackerHPAfter   int
	AttackerDestroyed bool
}

// ResolveAttack resolves a single attack from attackerSlot into the
// opponent's defenderSlot, including the defender's reaction.
func (m *Match) ResolveAttack(id rules.PlayerID, attackerSlot, defenderSlot int) (*CombatOutcome, error) {
	const action = "attack"
	if err := m.requireStep(action, id, rules.StepCombat); err != nil {
		return nil, err
	}
	if err := checkSlot(action, id, attackerSlot); err != nil {
		return nil, err
	}
	if err := checkSlot(action, id, defenderSlot); err != nil {
		return nil, err
	}
	if !m.state.CanAttack(id, attackerSlot) {
		return nil, reject(action, id, ErrCannotAttack, "slot %d", attackerSlot)
	}
	defenderID := id.Opponent()
	defender := m.state.Hero(defenderID, defenderSlot)
	if defender == nil || !defender.Alive() {
		return nil, reject(action, id, ErrNoDefender, "slot %d", defenderSlot)
	}
	attacker := m.state.Hero(id, attackerSlot)

	out := &CombatOutcome{
		Attacker:     id,
		AttackerSlot: attackerSlot,
		DefenderSlot: defenderSlot,
	}
	out.AttackerRoll = m.rand.Int(1, DieSides)
	out.DefenderRoll = m.rand.Int(1, DieSides)
	out.AttackerTotal = attacker.Attack() + out.AttackerRoll
	out.DefenderTotal = defender.Defense() + out.DefenderRoll

	damage := max(0, out.AttackerTotal-out.DefenderTotal)
	out.Fumble = out.AttackerRoll == 1
	out.Critical = out.AttackerRoll == DieSides
	if out.Fumble {
		damage = 0
	} else if out.Critical {
		damage += CriticalBonus
	}
	out.PreReactionDamage = damage

	ctx := hitContext{
		damage:       damage,
		critical:     out.Critical,
		defenderSlot: defenderSlot,
		defenderHP:   defender.CurrentHP,
		attackerDef:  attacker.Defense(),
	}
	if r := m.chooseReaction(defenderID, ctx); r != nil {
		if err := m.commitReaction(defenderID, r, ctx); err != nil {
			m.rejected(err)
		} else {
			out.Reaction = r
			damage = r.Damage
			out.Critical = r.Critical
			out.CounterDamage = r.CounterDamage
		}
	}
	out.Damage = damage

	attacker.HasAttackedThisPhase = true

	out.DefenderHPBefore = defender.CurrentHP
	out.Overkill = max(0, damage-defender.CurrentHP)
	defender.CurrentHP = max(0, defender.CurrentHP-damage)
	defender.clampHP()
	out.DefenderHPAfter = defender.CurrentHP
	out.DefenderDestroyed = !defender.Alive()

	out.AttackerHPBefore = attacker.CurrentHP
	attacker.CurrentHP = max(0, attacker.CurrentHP-out.CounterDamage)
	attacker.clampHP()
	out.AttackerHPAfter = attacker.CurrentHP
	out.AttackerDestroyed = !attacker.Alive()

	m.publishCombat(out, attacker.Card.ID)

	if out.DefenderDestroyed {
		m.destroyHero(defenderID, defenderSlot, rules.CauseAttack)
	}
	if out.AttackerDestroyed {
		m.destroyHero(id, attackerSlot, rules.CauseCounterattack)
	}

	m.logger.Debug("attack resolved",
		zap.String("attacker", string(id)),
		zap.Int("attacker_slot", attackerSlot),
		zap.Int("defender_slot", defenderSlot),
		zap.Int("attack_roll", out.AttackerRoll),
		zap.Int("defense_roll", out.DefenderRoll),
		zap.Int("damage", out.Damage),
		zap.Int("counter_damage", out.CounterDamage),
		zap.Bool("critical", out.Critical),
		zap.Bool("fumble", out.Fumble),
		zap.Bool("defender_destroyed", out.DefenderDestroyed),
		zap.Bool("attacker_destroyed", out.AttackerDestroyed),
	)
	return out, nil
}

func (m *Match) publishCombat(out *CombatOutcome, sourceID string) {
	turn := m.state.Turn.TurnNumber()

	evt := rules.NewEventWithAmount(rules.EventAttackResolved, turn, out.Attacker, out.Damage)
	evt.SourceID = sourceID
	evt.Slot = out.AttackerSlot
	evt.Overflow = out.Overkill
	evt.Flag = out.DefenderDestroyed
	m.bus.Publish(evt)

	if out.Critical {
		m.bus.Publish(rules.NewEvent(rules.EventCriticalHit, turn, out.Attacker))
	}
	if out.Fumble {
		m.bus.Publish(rules.NewEvent(rules.EventFumble, turn, out.Attacker))
	}
	if out.Reaction != nil && out.Reaction.Kind == ReactionCounterattack {
		counter := rules.NewEventWithAmount(rules.EventCounterattack, turn, out.Attacker.Opponent(), out.CounterDamage)
		counter.SourceID = out.Reaction.Card.ID
		counter.Slot = out.DefenderSlot
		counter.Flag = out.AttackerDestroyed
		m.bus.Publish(counter)
	}
}
