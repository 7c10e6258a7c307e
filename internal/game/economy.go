package game

import (
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rng"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// maxMulligans is a safety limit on the opening redraw loop. Only decks
// where heroes are vanishingly rare can reach it.
const maxMulligans = 32

func (m *Match) requireStep(action string, id rules.PlayerID, step rules.Step) error {
	tm := m.state.Turn
	if tm.Ended() {
		return reject(action, id, ErrWrongPhase, "match ended")
	}
	if tm.ActivePlayer() != id {
		return reject(action, id, ErrNotYourTurn, "active player is %s", tm.ActivePlayer())
	}
	if tm.CurrentStep() != step {
		return reject(action, id, ErrWrongPhase, "step is %s, need %s", tm.CurrentStep(), step)
	}
	return nil
}

func checkSlot(action string, id rules.PlayerID, slot int) error {
	if slot < 0 || slot >= HeroSlots {
		return reject(action, id, ErrSlotOutOfRange, "slot %d", slot)
	}
	return nil
}

// spend pays cost from the seat's pool and records it under category. Nothing
// is paid or published when the pool cannot cover it.
func (m *Match) spend(action string, p *Player, cost int, category, sourceID string) error {
	if !p.Resources.Spend(cost) {
		return reject(action, p.ID, ErrInsufficientResources, "cost %d, have %d", cost, p.Resources.Current())
	}
	evt := rules.NewEventWithAmount(rules.EventResourcesSpent, m.state.Turn.TurnNumber(), p.ID, cost)
	evt.SourceID = sourceID
	evt.Data = category
	m.bus.Publish(evt)
	return nil
}

// Draw moves up to n cards from the top of the deck into the seat's hand and
// returns how many moved. An empty deck is never reshuffled.
func (m *Match) Draw(id rules.PlayerID, n int) int {
	p := m.state.Player(id)
	drawn := 0
	for drawn < n && len(m.state.Deck.Cards) > 0 {
		p.Hand = append(p.Hand, m.state.Deck.Cards[0])
		m.state.Deck.Cards = m.state.Deck.Cards[1:]
		drawn++
	}
	if drawn > 0 {
		m.bus.Publish(rules.NewEventWithAmount(rules.EventCardsDrawn, m.state.Turn.TurnNumber(), id, drawn))
	}
	return drawn
}

func deckHasHero(deck []cards.Card) bool {
	for _, c := range deck {
		if c.Type == cards.TypeHero {
			return true
		}
	}
	return false
}

// Mulligan replaces a hero-less opening hand: the hand goes back into the
// deck, the deck is shuffled, and a fresh hand is drawn. The first redraw
// always happens when the deck can refill the hand. Further redraws repeat
// until a hero shows up or the deck has no heroes left. It returns the
// number of redraws.
func (m *Match) Mulligan(id rules.PlayerID) int {
	p := m.state.Player(id)
	count := 0
	for !p.HasHeroInHand() && count < maxMulligans {
		returned := len(p.Hand)
		pool := make([]cards.Card, 0, len(m.state.Deck.Cards)+returned)
		pool = append(pool, m.state.Deck.Cards...)
		pool = append(pool, p.Hand...)
		if len(pool) < OpeningHandSize || (count > 0 && !deckHasHero(pool)) {
			break
		}
		p.Hand = nil
		m.state.Deck.Cards = pool
		rng.Shuffle(m.rand, m.state.Deck.Cards)
		count++
		m.bus.Publish(rules.NewEventWithAmount(rules.EventMulligan, m.state.Turn.TurnNumber(), id, returned))
		m.Draw(id, OpeningHandSize)
	}
	return count
}

// RecruitHero plays a hero card from hand into an empty slot.
func (m *Match) RecruitHero(id rules.PlayerID, cardID string, slot int) error {
	const action = "recruit"
	if err := m.requireStep(action, id, rules.StepRecruit); err != nil {
		return err
	}
	if err := checkSlot(action, id, slot); err != nil {
		return err
	}
	p := m.state.Player(id)
	if p.HeroCount() >= HeroSlots {
		return reject(action, id, ErrBoardFull, "%d heroes", p.HeroCount())
	}
	if p.Heroes[slot] != nil {
		return reject(action, id, ErrSlotOccupied, "slot %d", slot)
	}
	idx := p.HandIndex(cardID)
	if idx < 0 {
		return reject(action, id, ErrCardNotInHand, "card %s", cardID)
	}
	card := p.Hand[idx]
	if card.Type != cards.TypeHero {
		return reject(action, id, ErrWrongCardType, "card %s is %s", cardID, card.Type)
	}
	if err := m.spend(action, p, card.Cost, rules.SpendHeroes, card.ID); err != nil {
		return err
	}

	p.takeFromHand(idx)
	p.Heroes[slot] = newHero(card)

	evt := rules.NewEventWithAmount(rules.EventHeroRecruited, m.state.Turn.TurnNumber(), id, card.Cost)
	evt.SourceID = card.ID
	evt.Slot = slot
	m.bus.Publish(evt)
	return nil
}

// EquipItem attaches an item or weapon from hand to the hero in slot. Any
// max-hp gain is added to current hp as well.
func (m *Match) EquipItem(id rules.PlayerID, cardID string, slot int) error {
	const action = "equip"
	if err := m.requireStep(action, id, rules.StepRecruit); err != nil {
		return err
	}
	if err := checkSlot(action, id, slot); err != nil {
		return err
	}
	p := m.state.Player(id)
	hero := p.Heroes[slot]
	if hero == nil {
		return reject(action, id, ErrSlotEmpty, "slot %d", slot)
	}
	idx := p.HandIndex(cardID)
	if idx < 0 {
		return reject(action, id, ErrCardNotInHand, "card %s", cardID)
	}
	card := p.Hand[idx]
	if !card.IsEquipment() {
		return reject(action, id, ErrWrongCardType, "card %s is %s", cardID, card.Type)
	}
	if len(hero.Equipment) >= MaxEquipment {
		return reject(action, id, ErrEquipmentCap, "slot %d has %d items", slot, len(hero.Equipment))
	}
	if card.Type == cards.TypeWeapon && hero.WeaponCount() >= MaxWeapons {
		return reject(action, id, ErrWeaponCap, "slot %d already armed", slot)
	}
	if err := m.spend(action, p, card.Cost, rules.SpendItems, card.ID); err != nil {
		return err
	}

	p.takeFromHand(idx)

	before := hero.MaxHP()
	hero.Equipment = append(hero.Equipment, Equipment{Card: card, Durability: max(0, card.Stats.Durability)})
	if after := hero.MaxHP(); after > before {
		hero.CurrentHP += after - before
	}
	hero.clampHP()

	evt := rules.NewEventWithAmount(rules.EventItemEquipped, m.state.Turn.TurnNumber(), id, card.Cost)
	evt.SourceID = card.ID
	evt.Slot = slot
	m.bus.Publish(evt)
	return nil
}

// CastHealing heals the hero in targetSlot by min(missing hp, healAmount).
func (m *Match) CastHealing(id rules.PlayerID, cardID string, targetSlot int) error {
	const action = "heal"
	if err := m.requireStep(action, id, rules.StepRecruit); err != nil {
		return err
	}
	if err := checkSlot(action, id, targetSlot); err != nil {
		return err
	}
	p := m.state.Player(id)
	hero := p.Heroes[targetSlot]
	if hero == nil || !hero.Alive() {
		return reject(action, id, ErrSlotEmpty, "slot %d", targetSlot)
	}
	if hero.MissingHP() == 0 {
		return reject(action, id, ErrHeroFullHealth, "slot %d", targetSlot)
	}
	idx := p.HandIndex(cardID)
	if idx < 0 {
		return reject(action, id, ErrCardNotInHand, "card %s", cardID)
	}
	card := p.Hand[idx]
	if card.Type != cards.TypeHealing {
		return reject(action, id, ErrWrongCardType, "card %s is %s", cardID, card.Type)
	}
	if err := m.spend(action, p, card.Cost, rules.SpendHealing, card.ID); err != nil {
		return err
	}

	p.takeFromHand(idx)
	m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, card)
	m.heal(id, targetSlot, card, false)
	return nil
}

// heal applies a healing card to a hero and publishes the result.
func (m *Match) heal(id rules.PlayerID, slot int, card cards.Card, reaction bool) (healed, overheal int) {
	hero := m.state.Hero(id, slot)
	amount := max(0, card.Stats.HealAmount)
	healed = min(hero.MissingHP(), amount)
	overheal = amount - healed
	hero.CurrentHP += healed
	hero.clampHP()

	evt := rules.NewEventWithAmount(rules.EventHealed, m.state.Turn.TurnNumber(), id, healed)
	evt.SourceID = card.ID
	evt.Slot = slot
	evt.Overflow = overheal
	evt.Flag = reaction
	m.bus.Publish(evt)
	return healed, overheal
}

// Discard moves exactly len(hand)-HandLimit cards from hand to the discard
// pile.
func (m *Match) Discard(id rules.PlayerID, cardIDs []string) error {
	const action = "discard"
	if err := m.requireStep(action, id, rules.StepDiscard); err != nil {
		return err
	}
	p := m.state.Player(id)
	required := max(0, len(p.Hand)-rules.HandLimit)
	if len(cardIDs) != required {
		return reject(action, id, ErrDiscardCount, "need %d, got %d", required, len(cardIDs))
	}
	selected := make(map[string]bool, len(cardIDs))
	for _, cid := range cardIDs {
		if selected[cid] {
			return reject(action, id, ErrDiscardCount, "card %s selected twice", cid)
		}
		if p.HandIndex(cid) < 0 {
			return reject(action, id, ErrCardNotInHand, "card %s", cid)
		}
		selected[cid] = true
	}

	kept := p.Hand[:0:0]
	for _, c := range p.Hand {
		if selected[c.ID] {
			m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, c)
			continue
		}
		kept = append(kept, c)
	}
	p.Hand = kept

	m.bus.Publish(rules.NewEventWithAmount(rules.EventCardsDiscarded, m.state.Turn.TurnNumber(), id, len(cardIDs)))
	return nil
}

// wearEquipment ticks durability on the seat's equipment at the end of its
// turn, removing broken items and clamping hp to the new maximum.
func (m *Match) wearEquipment(id rules.PlayerID) {
	p := m.state.Player(id)
	for slot, hero := range p.Heroes {
		if hero == nil {
			continue
		}
		kept := hero.Equipment[:0]
		for _, eq := range hero.Equipment {
			if eq.Durability <= 0 {
				kept = append(kept, eq)
				continue
			}
			eq.Durability--
			if eq.Durability > 0 {
				kept = append(kept, eq)
				continue
			}
			m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, eq.Card)
			evt := rules.NewEvent(rules.EventEquipmentBroken, m.state.Turn.TurnNumber(), id)
			evt.SourceID = eq.Card.ID
			evt.Slot = slot
			m.bus.Publish(evt)
		}
		hero.Equipment = kept
		hero.clampHP()
	}
}

// destroyHero empties a slot, sends the hero and its equipment to the discard
// pile, and counts the loss against the owner.
func (m *Match) destroyHero(id rules.PlayerID, slot int, cause string) {
	p := m.state.Player(id)
	hero := p.Heroes[slot]
	if hero == nil {
		return
	}
	p.Heroes[slot] = nil
	p.HeroesLost++
	m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, hero.Card)
	for _, eq := range hero.Equipment {
		m.state.Deck.DiscardPile = append(m.state.Deck.DiscardPile, eq.Card)
	}

	evt := rules.NewEvent(rules.EventHeroDestroyed, m.state.Turn.TurnNumber(), id)
	evt.SourceID = hero.Card.ID
	evt.Slot = slot
	evt.Data = cause
	m.bus.Publish(evt)
}
