package game

import (
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/resource"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Board and combat constants.
const (
	HeroSlots           = 3
	MaxEquipment        = 3
	MaxWeapons          = 1
	OpeningHandSize     = 7
	DefaultMaxResources = 5
	DieSides            = 20
	CriticalBonus       = 2
	DefaultMaxTurns     = 200
)

// Equipment is an item or weapon attached to a hero.
type Equipment struct {
	Card cards.Card
	// Durability is the number of owner turn-ends left before the item
	// breaks. Zero means it never wears out.
	Durability int
}

// Hero is a recruited hero card's live board state.
type Hero struct {
	Card                 cards.Card
	Equipment            []Equipment
	CurrentHP            int
	HasAttackedThisPhase bool
	SummoningSick        bool
}

func baseHP(card cards.Card) int {
	return max(1, card.Stats.HP)
}

func newHero(card cards.Card) *Hero {
	return &Hero{
		Card:          card,
		CurrentHP:     baseHP(card),
		SummoningSick: true,
	}
}

// MaxHP is base hp plus every equipment hp delta, never below 1.
func (h *Hero) MaxHP() int {
	hp := baseHP(h.Card)
	for _, eq := range h.Equipment {
		hp += eq.Card.HPDelta()
	}
	return max(1, hp)
}

// Attack is the hero's combat attack including equipment.
func (h *Hero) Attack() int {
	atk := h.Card.Stats.Atk
	for _, eq := range h.Equipment {
		atk += eq.Card.AttackDelta()
	}
	return atk
}

// Defense is the hero's combat defense including equipment.
func (h *Hero) Defense() int {
	def := h.Card.Stats.Def
	for _, eq := range h.Equipment {
		def += eq.Card.DefenseDelta()
	}
	return def
}

// WeaponCount returns the number of equipped weapons.
func (h *Hero) WeaponCount() int {
	n := 0
	for _, eq := range h.Equipment {
		if eq.Card.Type == cards.TypeWeapon {
			n++
		}
	}
	return n
}

// MissingHP returns how far the hero is below its maximum.
func (h *Hero) MissingHP() int {
	return max(0, h.MaxHP()-h.CurrentHP)
}

// Alive reports whether the hero still has hit points.
func (h *Hero) Alive() bool {
	return h.CurrentHP > 0
}

func (h *Hero) clampHP() {
	h.CurrentHP = min(max(h.CurrentHP, 0), h.MaxHP())
}

// Player is one seat's hand, board, and economy.
type Player struct {
	ID         rules.PlayerID
	Hand       []cards.Card
	Heroes     [HeroSlots]*Hero
	Resources  *resource.Pool
	HeroesLost int
}

func newPlayer(id rules.PlayerID) *Player {
	return &Player{
		ID:        id,
		Resources: resource.NewPool(DefaultMaxResources),
	}
}

// HeroCount returns the number of occupied slots.
func (p *Player) HeroCount() int {
	n := 0
	for _, h := range p.Heroes {
		if h != nil {
			n++
		}
	}
	return n
}

// HasHeroes reports whether any slot holds a hero.
func (p *Player) HasHeroes() bool {
	return p.HeroCount() > 0
}

// TotalHP sums current hp across the board.
func (p *Player) TotalHP() int {
	total := 0
	for _, h := range p.Heroes {
		if h != nil {
			total += h.CurrentHP
		}
	}
	return total
}

// FirstEmptySlot returns the lowest free slot, or -1 when the board is full.
func (p *Player) FirstEmptySlot() int {
	for i, h := range p.Heroes {
		if h == nil {
			return i
		}
	}
	return -1
}

// FirstHeroSlot returns the lowest occupied slot, or -1 on an empty board.
func (p *Player) FirstHeroSlot() int {
	for i, h := range p.Heroes {
		if h != nil {
			return i
		}
	}
	return -1
}

// HandIndex returns the position of cardID in hand, or -1.
func (p *Player) HandIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// HasHeroInHand reports whether the hand holds at least one hero card.
func (p *Player) HasHeroInHand() bool {
	for _, c := range p.Hand {
		if c.Type == cards.TypeHero {
			return true
		}
	}
	return false
}

func (p *Player) takeFromHand(index int) cards.Card {
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return card
}

// Deck is the shared draw pile plus the discard pile.
type Deck struct {
	Cards       []cards.Card
	DiscardPile []cards.Card
}

// State is the complete mutable state of one match. Heroes are addressed by
// (player, slot) through Hero; nothing else holds hero pointers across
// operations.
type State struct {
	Turn    *rules.TurnManager
	Deck    Deck
	Players [2]*Player
}

// Player returns the seat's state.
func (s *State) Player(id rules.PlayerID) *Player {
	return s.Players[id.Index()]
}

// Opponent returns the state of the seat opposing id.
func (s *State) Opponent(id rules.PlayerID) *Player {
	return s.Players[id.Opponent().Index()]
}

// Hero returns the hero in a board slot, or nil.
func (s *State) Hero(id rules.PlayerID, slot int) *Hero {
	if slot < 0 || slot >= HeroSlots {
		return nil
	}
	return s.Player(id).Heroes[slot]
}

// CanAttack reports whether the hero in slot is alive, not summoning sick,
// and has not attacked this combat.
func (s *State) CanAttack(id rules.PlayerID, slot int) bool {
	h := s.Hero(id, slot)
	if h == nil || !h.Alive() {
		return false
	}
	return !h.SummoningSick && !h.HasAttackedThisPhase
}
