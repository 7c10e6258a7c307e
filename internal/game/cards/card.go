// Package cards defines the immutable card templates a match is played with
// and loads card pools from JSON batch documents.
package cards

// Type identifies what a card does when played.
type Type string

const (
	TypeHero          Type = "hero"
	TypeItem          Type = "item"
	TypeWeapon        Type = "weapon"
	TypeHealing       Type = "healing"
	TypeReactive      Type = "reactive"
	TypeCounterattack Type = "counterattack"
)

var knownTypes = map[Type]bool{
	TypeHero:          true,
	TypeItem:          true,
	TypeWeapon:        true,
	TypeHealing:       true,
	TypeReactive:      true,
	TypeCounterattack: true,
}

// Valid reports whether t is one of the known card types.
func (t Type) Valid() bool {
	return knownTypes[t]
}

// Effect tags the behavior of a reactive card.
type Effect string

const (
	EffectReduceDamage   Effect = "reduce_damage"
	EffectCancelCritical Effect = "cancel_critical"
	EffectPreventDeath   Effect = "prevent_death"
)

// Valid reports whether e is one of the known reactive effects.
func (e Effect) Valid() bool {
	switch e {
	case EffectReduceDamage, EffectCancelCritical, EffectPreventDeath:
		return true
	default:
		return false
	}
}

// Stats carries the type-dependent numeric fields of a card. Fields that do
// not apply to a card's type are zero.
type Stats struct {
	// hero
	Atk int `json:"atk,omitempty"`
	Def int `json:"def,omitempty"`
	HP  int `json:"hp,omitempty"`

	// item / weapon
	AtkBonus    int `json:"atkBonus,omitempty"`
	DefBonus    int `json:"defBonus,omitempty"`
	AtkModifier int `json:"atkModifier,omitempty"`
	DefModifier int `json:"defModifier,omitempty"`
	HPBonus     int `json:"hpBonus,omitempty"`
	HPModifier  int `json:"hpModifier,omitempty"`
	Durability  int `json:"durability,omitempty"`

	// healing
	HealAmount int `json:"healAmount,omitempty"`

	// reactive (reduce_damage)
	DamageReduction int `json:"damageReduction,omitempty"`

	// counterattack
	CounterDamage int `json:"counterDamage,omitempty"`
}

// Card is a template instance from the pool. Cards are passed by value and
// never mutated once dealt.
type Card struct {
	ID          string            `json:"id"`
	Type        Type              `json:"type"`
	Template    string            `json:"template,omitempty"`
	Name        map[string]string `json:"name,omitempty"`
	Description map[string]string `json:"description,omitempty"`
	Cost        int               `json:"cost"`
	Stats       Stats             `json:"stats"`
	Effect      Effect            `json:"effect,omitempty"`
}

// IsEquipment reports whether the card can be attached to a hero.
func (c Card) IsEquipment() bool {
	return c.Type == TypeItem || c.Type == TypeWeapon
}

// IsReaction reports whether the card can be played by a defender during
// combat.
func (c Card) IsReaction() bool {
	switch c.Type {
	case TypeReactive, TypeCounterattack, TypeHealing:
		return true
	default:
		return false
	}
}

// AttackDelta is the total attack change granted by an equipment card.
func (c Card) AttackDelta() int {
	return c.Stats.AtkBonus + c.Stats.AtkModifier
}

// DefenseDelta is the total defense change granted by an equipment card.
func (c Card) DefenseDelta() int {
	return c.Stats.DefBonus + c.Stats.DefModifier
}

// HPDelta is the total max-HP change granted by an equipment card.
func (c Card) HPDelta() int {
	return c.Stats.HPBonus + c.Stats.HPModifier
}
