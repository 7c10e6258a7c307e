package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Checksum returns a SHA-256 over a canonical rendering of the state. Two
// matches that made the same moves from the same seed have equal checksums.
func (s *State) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical renders the state in a fixed order. Hand, deck and discard order
// are part of the state, so they are kept as-is rather than sorted.
func (s *State) canonical() string {
	var buf bytes.Buffer
	tm := s.Turn

	buf.WriteString(fmt.Sprintf("MATCH:%s|%d|%s|%s|%s|%s\n",
		tm.Phase(),
		tm.TurnNumber(),
		tm.ActivePlayer(),
		tm.FirstPlayer(),
		tm.CurrentStep(),
		tm.Winner(),
	))

	for _, id := range rules.Players {
		p := s.Player(id)
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%d/%d|%d\n",
			id,
			p.Resources.Current(),
			p.Resources.Max(),
			p.HeroesLost,
		))
		buf.WriteString("  HAND:")
		buf.WriteString(joinIDs(p.Hand))
		buf.WriteString("\n")
		for slot, h := range p.Heroes {
			if h == nil {
				buf.WriteString(fmt.Sprintf("  SLOT:%d|-\n", slot))
				continue
			}
			buf.WriteString(fmt.Sprintf("  SLOT:%d|%s|%d/%d|%t|%t\n",
				slot,
				h.Card.ID,
				h.CurrentHP,
				h.MaxHP(),
				h.HasAttackedThisPhase,
				h.SummoningSick,
			))
			for _, eq := range h.Equipment {
				buf.WriteString(fmt.Sprintf("    EQUIP:%s|%d\n", eq.Card.ID, eq.Durability))
			}
		}
	}

	buf.WriteString("DECK:")
	buf.WriteString(joinIDs(s.Deck.Cards))
	buf.WriteString("\n")
	buf.WriteString("DISCARD:")
	buf.WriteString(joinIDs(s.Deck.DiscardPile))
	buf.WriteString("\n")

	return buf.String()
}

func joinIDs(list []cards.Card) string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return strings.Join(ids, ",")
}
