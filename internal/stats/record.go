// Package stats holds the flat per-match record produced by the engine and
// reduces many records into balance-analysis aggregates.
package stats

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MatchRecord is the flat outcome of one simulated match.
type MatchRecord struct {
	GameIndex      int    `json:"gameIndex"`
	SeedUsed       uint32 `json:"seedUsed"`
	ProfileA       string `json:"profileA"`
	ProfileB       string `json:"profileB"`
	StartingPlayer string `json:"startingPlayer"`

	Winner             string `json:"winner,omitempty"`
	WinnerIsStarter    bool   `json:"winnerIsStarter"`
	TurnCount          int    `json:"turnCount"`
	EndedByNoHeroes    bool   `json:"endedByNoHeroes"`
	TimedOutByMaxTurns bool   `json:"timedOutByMaxTurns"`

	HeroesKilledTotal     int `json:"heroesKilledTotal"`
	HeroesKilledByPlayerA int `json:"heroesKilledByPlayerA"`
	HeroesKilledByPlayerB int `json:"heroesKilledByPlayerB"`

	TotalAttacks             int `json:"totalAttacks"`
	CriticalCount            int `json:"criticalCount"`
	FumbleCount              int `json:"fumbleCount"`
	TotalDamageDealt         int `json:"totalDamageDealt"`
	TotalCounterDamageDealt  int `json:"totalCounterDamageDealt"`
	CounterattacksUsed       int `json:"counterattacksUsed"`
	CounterattackDamageDealt int `json:"counterattackDamageDealt"`
	AttackerDeathsByCounter  int `json:"attackerDeathsByCounter"`
	OverkillTotal            int `json:"overkillTotal"`

	ReactiveCardsUsed       int `json:"reactiveCardsUsed"`
	ReactionDamagePrevented int `json:"reactionDamagePrevented"`
	ReactiveDeathsPrevented int `json:"reactiveDeathsPrevented"`
	HealingCardsUsed        int `json:"healingCardsUsed"`
	HealingReactionsUsed    int `json:"healingReactionsUsed"`
	HealingAmountTotal      int `json:"healingAmountTotal"`
	HealingOverhealTotal    int `json:"healingOverhealTotal"`
	HealingPreventedDeaths  int `json:"healingPreventedDeaths"`

	CardsDrawnTotal      int `json:"cardsDrawnTotal"`
	CardsRecruitedTotal  int `json:"cardsRecruitedTotal"`
	ItemsEquippedTotal   int `json:"itemsEquippedTotal"`
	CardsDiscardedTotal  int `json:"cardsDiscardedTotal"`
	EquipmentBrokenTotal int `json:"equipmentBrokenTotal"`
	MulliganCount        int `json:"mulliganCount"`

	ResourcesAvailableTotal int `json:"resourcesAvailableTotal"`
	ResourcesSpentTotal     int `json:"resourcesSpentTotal"`
	ResourcesSpentHeroes    int `json:"resourcesSpentHeroes"`
	ResourcesSpentItems     int `json:"resourcesSpentItems"`
	ResourcesSpentHealing   int `json:"resourcesSpentHealing"`
	ResourcesSpentReactions int `json:"resourcesSpentReactions"`

	ReachedTurn3 bool   `json:"reachedTurn3"`
	Turn3Leader  string `json:"turn3Leader,omitempty"`

	FinalHeroesPlayerA int `json:"finalHeroesPlayerA"`
	FinalHeroesPlayerB int `json:"finalHeroesPlayerB"`
	DeckRemaining      int `json:"deckRemaining"`
}

// Decisive reports whether the match produced a winner.
func (r MatchRecord) Decisive() bool {
	return r.Winner != ""
}

// Checksum returns the SHA-256 of the record's canonical JSON encoding. Two
// runs of the same seed over the same pool yield the same checksum.
func (r MatchRecord) Checksum() (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
