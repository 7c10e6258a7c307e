package stats

import (
	"math"
	"sort"
)

// WinnerDistribution counts outcomes by seat.
type WinnerDistribution struct {
	PlayerA int `json:"player_a"`
	PlayerB int `json:"player_b"`
	None    int `json:"none"`
}

// TurnStats summarizes match lengths.
type TurnStats struct {
	Min int     `json:"min"`
	Max int     `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// KillStats summarizes destroyed heroes.
type KillStats struct {
	Total      int     `json:"total"`
	AvgPerGame float64 `json:"avgPerGame"`
	PlayerA    int     `json:"playerA"`
	PlayerB    int     `json:"playerB"`
}

// CombatStats summarizes attacks.
type CombatStats struct {
	TotalAttacks            int     `json:"totalAttacks"`
	AvgAttacksPerGame       float64 `json:"avgAttacksPerGame"`
	TotalDamage             int     `json:"totalDamage"`
	TotalCounterDamage      int     `json:"totalCounterDamage"`
	AvgDamagePerGame        float64 `json:"avgDamagePerGame"`
	AvgCounterDamagePerGame float64 `json:"avgCounterDamagePerGame"`
	CriticalCount           int     `json:"criticalCount"`
	FumbleCount             int     `json:"fumbleCount"`
	CritsPer100Attacks      float64 `json:"critsPer100Attacks"`
	FumblesPer100Attacks    float64 `json:"fumblesPer100Attacks"`
}

// ReactionStats summarizes defensive reactions.
type ReactionStats struct {
	CounterattacksUsed                int     `json:"counterattacksUsed"`
	AvgCounterattacksPerGame          float64 `json:"avgCounterattacksPerGame"`
	AttackerDeathsByCounter           int     `json:"attackerDeathsByCounter"`
	ReactiveCardsUsed                 int     `json:"reactiveCardsUsed"`
	DamagePrevented                   int     `json:"damagePrevented"`
	AvgReactionDamagePreventedPerGame float64 `json:"avgReactionDamagePreventedPerGame"`
	ReactiveDeathsPrevented           int     `json:"reactiveDeathsPrevented"`
	HealingCardsUsed                  int     `json:"healingCardsUsed"`
	HealingReactionsUsed              int     `json:"healingReactionsUsed"`
	AvgHealingCardsPerGame            float64 `json:"avgHealingCardsPerGame"`
	HealingTotal                      int     `json:"healingTotal"`
	AvgHealingPerGame                 float64 `json:"avgHealingPerGame"`
	HealingOverheal                   int     `json:"healingOverheal"`
	AvgHealingOverhealPerGame         float64 `json:"avgHealingOverhealPerGame"`
	HealingEfficiencyPct              float64 `json:"healingEfficiencyPct"`
	HealingPreventedDeaths            int     `json:"healingPreventedDeaths"`
}

// PressureStats summarizes wasted damage.
type PressureStats struct {
	OverkillTotal      int     `json:"overkillTotal"`
	AvgOverkillPerGame float64 `json:"avgOverkillPerGame"`
	OverkillPerAttack  float64 `json:"overkillPerAttack"`
}

// EconomyStats summarizes card flow and resource use.
type EconomyStats struct {
	CardsDrawnTotal         int     `json:"cardsDrawnTotal"`
	CardsRecruitedTotal     int     `json:"cardsRecruitedTotal"`
	ItemsEquippedTotal      int     `json:"itemsEquippedTotal"`
	CardsDiscardedTotal     int     `json:"cardsDiscardedTotal"`
	AvgDiscardsPerGame      float64 `json:"avgDiscardsPerGame"`
	EquipmentBrokenTotal    int     `json:"equipmentBrokenTotal"`
	ResourcesAvailableTotal int     `json:"resourcesAvailableTotal"`
	ResourcesSpentTotal     int     `json:"resourcesSpentTotal"`
	ResourceSpendPct        float64 `json:"resourceSpendPct"`
	ResourcesSpentHeroes    int     `json:"resourcesSpentHeroes"`
	ResourcesSpentItems     int     `json:"resourcesSpentItems"`
	ResourcesSpentHealing   int     `json:"resourcesSpentHealing"`
	ResourcesSpentReactions int     `json:"resourcesSpentReactions"`
}

// SnowballStats measures how often the turn-3 board leader goes on to win.
type SnowballStats struct {
	GamesReachedTurn3        int     `json:"gamesReachedTurn3"`
	GamesWithLeaderTurn3     int     `json:"gamesWithLeaderTurn3"`
	LeaderTurn3Wins          int     `json:"leaderTurn3Wins"`
	LeaderWinRateWhenDefined float64 `json:"leaderWinRateWhenDefined"`
}

// MulliganStats summarizes opening-hand redraws.
type MulliganStats struct {
	Total                int     `json:"total"`
	GamesWithMulligan    int     `json:"gamesWithMulligan"`
	PctGamesWithMulligan float64 `json:"pctGamesWithMulligan"`
}

// ProfileStats is the win breakdown for one bot profile across every seat it
// occupied.
type ProfileStats struct {
	Profile  string  `json:"profile"`
	Seats    int     `json:"seats"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Timeouts int     `json:"timeouts"`
	WinRate  float64 `json:"winRate"`
}

// PairingStats tallies outcomes for one (player_a profile, player_b profile)
// pairing.
type PairingStats struct {
	ProfileA string `json:"profileA"`
	ProfileB string `json:"profileB"`
	Games    int    `json:"games"`
	WinsA    int    `json:"winsA"`
	WinsB    int    `json:"winsB"`
	None     int    `json:"none"`
}

// Aggregate is the reduction of a batch of match records.
type Aggregate struct {
	Games              int                `json:"games"`
	WinsStarter        int                `json:"winsStarter"`
	WinsNonStarter     int                `json:"winsNonStarter"`
	StarterWinRate     float64            `json:"starterWinRate"`
	WinnerDistribution WinnerDistribution `json:"winnerDistribution"`
	Turns              TurnStats          `json:"turns"`
	HeroesKilled       KillStats          `json:"heroesKilled"`
	Combat             CombatStats        `json:"combat"`
	Reactions          ReactionStats      `json:"reactions"`
	Pressure           PressureStats      `json:"pressure"`
	Economy            EconomyStats       `json:"economy"`
	Snowball           SnowballStats      `json:"snowball"`
	Mulligan           MulliganStats      `json:"mulligan"`
	EndedByNoHeroes    int                `json:"endedByNoHeroes"`
	Timeouts           int                `json:"timeouts"`
	Profiles           []ProfileStats     `json:"profiles"`
	Pairings           []PairingStats     `json:"pairings"`
}

// Percentile returns the p-th percentile (0..100) of sorted values using
// linear interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	ratio := rank - float64(lo)
	return sorted[lo]*(1-ratio) + sorted[hi]*ratio
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Reduce folds match records into an Aggregate. It has no hidden state: the
// same records always produce the same aggregate.
func Reduce(games []MatchRecord) Aggregate {
	n := len(games)
	agg := Aggregate{Games: n}

	turns := make([]float64, 0, n)
	turnSum := 0
	profiles := make(map[string]*ProfileStats)
	pairings := make(map[[2]string]*PairingStats)

	seat := func(name string) *ProfileStats {
		ps, ok := profiles[name]
		if !ok {
			ps = &ProfileStats{Profile: name}
			profiles[name] = ps
		}
		return ps
	}

	for _, g := range games {
		turns = append(turns, float64(g.TurnCount))
		turnSum += g.TurnCount

		switch g.Winner {
		case "player_a":
			agg.WinnerDistribution.PlayerA++
		case "player_b":
			agg.WinnerDistribution.PlayerB++
		default:
			agg.WinnerDistribution.None++
		}
		if g.WinnerIsStarter {
			agg.WinsStarter++
		} else if g.Decisive() {
			agg.WinsNonStarter++
		}

		agg.HeroesKilled.Total += g.HeroesKilledTotal
		agg.HeroesKilled.PlayerA += g.HeroesKilledByPlayerA
		agg.HeroesKilled.PlayerB += g.HeroesKilledByPlayerB

		agg.Combat.TotalAttacks += g.TotalAttacks
		agg.Combat.TotalDamage += g.TotalDamageDealt
		agg.Combat.TotalCounterDamage += g.TotalCounterDamageDealt
		agg.Combat.CriticalCount += g.CriticalCount
		agg.Combat.FumbleCount += g.FumbleCount

		agg.Reactions.CounterattacksUsed += g.CounterattacksUsed
		agg.Reactions.AttackerDeathsByCounter += g.AttackerDeathsByCounter
		agg.Reactions.ReactiveCardsUsed += g.ReactiveCardsUsed
		agg.Reactions.DamagePrevented += g.ReactionDamagePrevented
		agg.Reactions.ReactiveDeathsPrevented += g.ReactiveDeathsPrevented
		agg.Reactions.HealingCardsUsed += g.HealingCardsUsed
		agg.Reactions.HealingReactionsUsed += g.HealingReactionsUsed
		agg.Reactions.HealingTotal += g.HealingAmountTotal
		agg.Reactions.HealingOverheal += g.HealingOverhealTotal
		agg.Reactions.HealingPreventedDeaths += g.HealingPreventedDeaths

		agg.Pressure.OverkillTotal += g.OverkillTotal

		agg.Economy.CardsDrawnTotal += g.CardsDrawnTotal
		agg.Economy.CardsRecruitedTotal += g.CardsRecruitedTotal
		agg.Economy.ItemsEquippedTotal += g.ItemsEquippedTotal
		agg.Economy.CardsDiscardedTotal += g.CardsDiscardedTotal
		agg.Economy.EquipmentBrokenTotal += g.EquipmentBrokenTotal
		agg.Economy.ResourcesAvailableTotal += g.ResourcesAvailableTotal
		agg.Economy.ResourcesSpentTotal += g.ResourcesSpentTotal
		agg.Economy.ResourcesSpentHeroes += g.ResourcesSpentHeroes
		agg.Economy.ResourcesSpentItems += g.ResourcesSpentItems
		agg.Economy.ResourcesSpentHealing += g.ResourcesSpentHealing
		agg.Economy.ResourcesSpentReactions += g.ResourcesSpentReactions

		if g.ReachedTurn3 {
			agg.Snowball.GamesReachedTurn3++
		}
		if g.Turn3Leader != "" {
			agg.Snowball.GamesWithLeaderTurn3++
			if g.Turn3Leader == g.Winner {
				agg.Snowball.LeaderTurn3Wins++
			}
		}

		agg.Mulligan.Total += g.MulliganCount
		if g.MulliganCount > 0 {
			agg.Mulligan.GamesWithMulligan++
		}
		if g.EndedByNoHeroes {
			agg.EndedByNoHeroes++
		}
		if g.TimedOutByMaxTurns {
			agg.Timeouts++
		}

		a, b := seat(g.ProfileA), seat(g.ProfileB)
		a.Seats++
		b.Seats++
		switch g.Winner {
		case "player_a":
			a.Wins++
			b.Losses++
		case "player_b":
			b.Wins++
			a.Losses++
		default:
			a.Timeouts++
			b.Timeouts++
		}

		key := [2]string{g.ProfileA, g.ProfileB}
		pairing, ok := pairings[key]
		if !ok {
			pairing = &PairingStats{ProfileA: g.ProfileA, ProfileB: g.ProfileB}
			pairings[key] = pairing
		}
		pairing.Games++
		switch g.Winner {
		case "player_a":
			pairing.WinsA++
		case "player_b":
			pairing.WinsB++
		default:
			pairing.None++
		}
	}

	sort.Float64s(turns)
	if n > 0 {
		agg.Turns.Min = int(turns[0])
		agg.Turns.Max = int(turns[n-1])
	}
	agg.Turns.Avg = ratio(turnSum, n)
	agg.Turns.P50 = Percentile(turns, 50)
	agg.Turns.P90 = Percentile(turns, 90)

	agg.StarterWinRate = ratio(agg.WinsStarter, n)
	agg.HeroesKilled.AvgPerGame = ratio(agg.HeroesKilled.Total, n)

	agg.Combat.AvgAttacksPerGame = ratio(agg.Combat.TotalAttacks, n)
	agg.Combat.AvgDamagePerGame = ratio(agg.Combat.TotalDamage, n)
	agg.Combat.AvgCounterDamagePerGame = ratio(agg.Combat.TotalCounterDamage, n)
	agg.Combat.CritsPer100Attacks = ratio(agg.Combat.CriticalCount, agg.Combat.TotalAttacks) * 100
	agg.Combat.FumblesPer100Attacks = ratio(agg.Combat.FumbleCount, agg.Combat.TotalAttacks) * 100

	agg.Reactions.AvgCounterattacksPerGame = ratio(agg.Reactions.CounterattacksUsed, n)
	agg.Reactions.AvgReactionDamagePreventedPerGame = ratio(agg.Reactions.DamagePrevented, n)
	agg.Reactions.AvgHealingCardsPerGame = ratio(agg.Reactions.HealingCardsUsed, n)
	agg.Reactions.AvgHealingPerGame = ratio(agg.Reactions.HealingTotal, n)
	agg.Reactions.AvgHealingOverhealPerGame = ratio(agg.Reactions.HealingOverheal, n)
	agg.Reactions.HealingEfficiencyPct = ratio(agg.Reactions.HealingTotal, agg.Reactions.HealingTotal+agg.Reactions.HealingOverheal) * 100

	agg.Pressure.AvgOverkillPerGame = ratio(agg.Pressure.OverkillTotal, n)
	agg.Pressure.OverkillPerAttack = ratio(agg.Pressure.OverkillTotal, agg.Combat.TotalAttacks)

	agg.Economy.AvgDiscardsPerGame = ratio(agg.Economy.CardsDiscardedTotal, n)
	agg.Economy.ResourceSpendPct = ratio(agg.Economy.ResourcesSpentTotal, agg.Economy.ResourcesAvailableTotal) * 100

	agg.Snowball.LeaderWinRateWhenDefined = ratio(agg.Snowball.LeaderTurn3Wins, agg.Snowball.GamesWithLeaderTurn3) * 100
	agg.Mulligan.PctGamesWithMulligan = ratio(agg.Mulligan.GamesWithMulligan, n) * 100

	agg.Profiles = make([]ProfileStats, 0, len(profiles))
	for _, ps := range profiles {
		ps.WinRate = ratio(ps.Wins, ps.Seats)
		agg.Profiles = append(agg.Profiles, *ps)
	}
	sort.Slice(agg.Profiles, func(i, j int) bool {
		return agg.Profiles[i].Profile < agg.Profiles[j].Profile
	})

	agg.Pairings = make([]PairingStats, 0, len(pairings))
	for _, p := range pairings {
		agg.Pairings = append(agg.Pairings, *p)
	}
	sort.Slice(agg.Pairings, func(i, j int) bool {
		if agg.Pairings[i].ProfileA != agg.Pairings[j].ProfileA {
			return agg.Pairings[i].ProfileA < agg.Pairings[j].ProfileA
		}
		return agg.Pairings[i].ProfileB < agg.Pairings[j].ProfileB
	})

	return agg
}
