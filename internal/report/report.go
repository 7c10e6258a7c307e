// Package report renders a simulation result as a human summary or as a
// JSON/YAML document.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eypacha/drawandroll/internal/sim"
	"github.com/eypacha/drawandroll/internal/stats"
	"github.com/eypacha/drawandroll/internal/tournament"
	"gopkg.in/yaml.v3"
)

// Config echoes the settings a report was produced with.
type Config struct {
	RunID     string `json:"runId"`
	Games     int    `json:"games"`
	SeedRaw   string `json:"seedRaw"`
	SeedHash  uint32 `json:"seedHash"`
	BatchPath string `json:"batchPath"`
	BatchID   string `json:"batchId,omitempty"`
	MaxTurns  int    `json:"maxTurns"`
	BotA      string `json:"botA,omitempty"`
	BotB      string `json:"botB,omitempty"`
	Rotate    bool   `json:"rotate,omitempty"`
}

// Report is the document written by --json and --out.
type Report struct {
	Config    Config                       `json:"config"`
	Aggregate stats.Aggregate              `json:"aggregate"`
	Standings []tournament.Standing        `json:"standings,omitempty"`
	Pairings  []tournament.PairingSnapshot `json:"pairings,omitempty"`
	PerGame   []stats.MatchRecord          `json:"perGame"`
}

// New builds a report from a finished run. RunID, SeedRaw and SeedHash are
// taken from res.
func New(cfg Config, res *sim.Result) Report {
	cfg.RunID = res.RunID
	cfg.SeedRaw = res.SeedRaw
	cfg.SeedHash = res.SeedHash
	cfg.Games = len(res.Games)
	r := Report{
		Config:    cfg,
		Aggregate: res.Aggregate,
		PerGame:   res.Games,
	}
	if cfg.Rotate {
		r.Standings = res.Standings
		r.Pairings = res.Pairings
	}
	return r
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// errWriter remembers the first write error so the summary can be printed
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteSummary prints the human-readable summary.
func WriteSummary(w io.Writer, r Report) error {
	out := &errWriter{w: w}
	c, a := r.Config, r.Aggregate

	out.printf("\n=== Simulation Summary ===\n")
	out.printf("Games: %d\n", c.Games)
	out.printf("Seed: %s (hash=%d)\n", c.SeedRaw, c.SeedHash)
	out.printf("Batch: %s\n", c.BatchPath)
	out.printf("Max turns: %d\n", c.MaxTurns)
	if c.Rotate {
		out.printf("Bots: rotate\n\n")
	} else {
		out.printf("Bots: player_a=%s, player_b=%s\n\n", c.BotA, c.BotB)
	}

	out.printf("Starter wins: %d/%d (%s%%)\n", a.WinsStarter, a.Games, num(a.StarterWinRate*100))
	out.printf("Winners: player_a=%d, player_b=%d, none=%d\n\n",
		a.WinnerDistribution.PlayerA, a.WinnerDistribution.PlayerB, a.WinnerDistribution.None)

	out.printf("Turns avg/p50/p90/min/max: %s / %s / %s / %d / %d\n",
		num(a.Turns.Avg), num(a.Turns.P50), num(a.Turns.P90), a.Turns.Min, a.Turns.Max)
	out.printf("Heroes killed total/avg: %d / %s (A:%d, B:%d)\n",
		a.HeroesKilled.Total, num(a.HeroesKilled.AvgPerGame), a.HeroesKilled.PlayerA, a.HeroesKilled.PlayerB)
	out.printf("Combat avg attacks/damage: %s / %s\n",
		num(a.Combat.AvgAttacksPerGame), num(a.Combat.AvgDamagePerGame))
	out.printf("Counter avg dmg/uses: %s / %s\n",
		num(a.Combat.AvgCounterDamagePerGame), num(a.Reactions.AvgCounterattacksPerGame))
	out.printf("Healing avg amount/uses: %s / %s\n",
		num(a.Reactions.AvgHealingPerGame), num(a.Reactions.AvgHealingCardsPerGame))
	out.printf("Healing efficiency: %s%% (overheal avg %s)\n",
		num(a.Reactions.HealingEfficiencyPct), num(a.Reactions.AvgHealingOverhealPerGame))
	out.printf("Crits/Fumbles per 100 attacks: %s / %s\n",
		num(a.Combat.CritsPer100Attacks), num(a.Combat.FumblesPer100Attacks))
	out.printf("Attacker deaths by counter: %d\n", a.Reactions.AttackerDeathsByCounter)
	out.printf("Deaths prevented by healing: %d\n", a.Reactions.HealingPreventedDeaths)
	out.printf("Reaction damage prevented avg: %s\n", num(a.Reactions.AvgReactionDamagePreventedPerGame))
	out.printf("Overkill avg/attack: %s / %.3f\n", num(a.Pressure.AvgOverkillPerGame), a.Pressure.OverkillPerAttack)

	out.printf("Economy draws/recruits/items/discards: %d / %d / %d / %d\n",
		a.Economy.CardsDrawnTotal, a.Economy.CardsRecruitedTotal, a.Economy.ItemsEquippedTotal, a.Economy.CardsDiscardedTotal)
	out.printf("Resources spend: %d/%d (%s%%) [H:%d I:%d He:%d R:%d]\n",
		a.Economy.ResourcesSpentTotal, a.Economy.ResourcesAvailableTotal, num(a.Economy.ResourceSpendPct),
		a.Economy.ResourcesSpentHeroes, a.Economy.ResourcesSpentItems,
		a.Economy.ResourcesSpentHealing, a.Economy.ResourcesSpentReactions)
	out.printf("Turn3 leader winrate: %s%% (%d/%d, reached=%d)\n",
		num(a.Snowball.LeaderWinRateWhenDefined), a.Snowball.LeaderTurn3Wins,
		a.Snowball.GamesWithLeaderTurn3, a.Snowball.GamesReachedTurn3)
	out.printf("Mulligans: total=%d, games=%d/%d (%s%%)\n",
		a.Mulligan.Total, a.Mulligan.GamesWithMulligan, a.Games, num(a.Mulligan.PctGamesWithMulligan))

	out.printf("Ended by no heroes: %d\n", a.EndedByNoHeroes)
	out.printf("Timeout games: %d\n", a.Timeouts)

	if len(a.Profiles) > 1 {
		out.printf("\nProfiles:\n")
		for _, p := range a.Profiles {
			out.printf("  %s: seats=%d wins=%d losses=%d timeouts=%d (%s%%)\n",
				p.Profile, p.Seats, p.Wins, p.Losses, p.Timeouts, num(p.WinRate*100))
		}
	}
	if len(r.Standings) > 0 {
		out.printf("\nStandings:\n")
		for _, s := range r.Standings {
			out.printf("  %d. %s %d pts (W%d L%d D%d)\n", s.Rank, s.Name, s.Points, s.Wins, s.Losses, s.Draws)
		}
	}
	return out.err
}

// EncodeJSON returns the report as indented JSON.
func EncodeJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// EncodeYAML returns the report as block-style YAML with the same keys as the
// JSON form.
func EncodeYAML(r Report) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert report: %w", err)
	}
	plain(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plain drops the flow and quoting styles inherited from JSON. The encoder
// re-quotes strings that would otherwise read as another type.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}

// IsYAMLPath reports whether path asks for YAML output.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// WriteFile writes the report to path, as YAML when the extension asks for it
// and as JSON otherwise.
func WriteFile(path string, r Report) error {
	var (
		data []byte
		err  error
	)
	if IsYAMLPath(path) {
		data, err = EncodeYAML(r)
	} else {
		data, err = EncodeJSON(r)
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
