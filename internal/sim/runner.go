// Package sim runs batches of seeded matches over a card pool and reduces
// them into a single report.
package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/eypacha/drawandroll/internal/bot"
	"github.com/eypacha/drawandroll/internal/game"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rng"
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/eypacha/drawandroll/internal/stats"
	"github.com/eypacha/drawandroll/internal/tournament"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a batch run.
type Options struct {
	Games    int
	Seed     string
	MaxTurns int
	// Workers bounds the number of matches played at once. Zero uses
	// GOMAXPROCS.
	Workers int
	BotA    string
	BotB    string
	// Rotate ignores BotA and BotB and cycles every ordered pair of
	// registered profiles across the batch.
	Rotate  bool
	Verbose bool
	// ReplayDir, when set, receives one replay file per match.
	ReplayDir string
}

// Result is everything a batch run produced.
type Result struct {
	RunID     string                       `json:"runId"`
	SeedRaw   string                       `json:"seedRaw"`
	SeedHash  uint32                       `json:"seedHash"`
	Games     []stats.MatchRecord          `json:"perGame"`
	Aggregate stats.Aggregate              `json:"aggregate"`
	Standings []tournament.Standing        `json:"standings,omitempty"`
	Pairings  []tournament.PairingSnapshot `json:"pairings,omitempty"`
}

// Runner plays a batch of matches over one card pool.
type Runner struct {
	pool   *cards.Pool
	opts   Options
	logger *zap.Logger
	league *tournament.League
	now    func() time.Time
}

// NewRunner validates opts and prepares a runner.
func NewRunner(pool *cards.Pool, opts Options, logger *zap.Logger) (*Runner, error) {
	if pool == nil || len(pool.Cards) == 0 {
		return nil, errors.New("card pool is empty")
	}
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = game.DefaultMaxTurns
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var entrants []string
	if opts.Rotate {
		entrants = bot.Names()
	} else {
		for _, name := range []string{opts.BotA, opts.BotB} {
			p, err := bot.Lookup(name)
			if err != nil {
				return nil, err
			}
			entrants = append(entrants, p.Name())
		}
	}
	league, err := tournament.NewLeague(entrants, logger)
	if err != nil {
		return nil, err
	}

	return &Runner{
		pool:   pool,
		opts:   opts,
		logger: logger,
		league: league,
		now:    time.Now,
	}, nil
}

// seatsFor returns the profile names playing match i.
func (r *Runner) seatsFor(i int) (string, string) {
	if r.opts.Rotate {
		return r.league.PairingFor(i)
	}
	a, _ := bot.Lookup(r.opts.BotA)
	b, _ := bot.Lookup(r.opts.BotB)
	return a.Name(), b.Name()
}

// Run plays every match and returns the reduced result. Matches are played
// concurrently but each has its own seed and state, so the result does not
// depend on scheduling.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	seedRaw := r.opts.Seed
	if seedRaw == "" {
		seedRaw = fmt.Sprintf("%d", r.now().UnixMilli())
	}
	base := rng.HashString(seedRaw)
	runID := uuid.New().String()

	r.logger.Info("batch started",
		zap.String("run_id", runID),
		zap.Int("games", r.opts.Games),
		zap.String("seed", seedRaw),
		zap.Uint32("seed_hash", base),
		zap.Int("workers", r.opts.Workers),
		zap.String("batch_id", r.pool.BatchID),
	)

	records := make([]stats.MatchRecord, r.opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i := 0; i < r.opts.Games; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := r.play(runID, rng.DeriveSeed(base, i), i)
			if err != nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     runID,
		SeedRaw:   seedRaw,
		SeedHash:  base,
		Games:     records,
		Aggregate: stats.Reduce(records),
		Standings: r.league.Standings(),
		Pairings:  r.league.Pairings(),
	}

	r.logger.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("decisive", result.Aggregate.WinnerDistribution.PlayerA+result.Aggregate.WinnerDistribution.PlayerB),
		zap.Int("timeouts", result.Aggregate.Timeouts),
	)
	return result, nil
}

func (r *Runner) play(runID string, seed uint32, i int) (stats.MatchRecord, error) {
	nameA, nameB := r.seatsFor(i)
	pa, err := bot.Lookup(nameA)
	if err != nil {
		return stats.MatchRecord{}, err
	}
	pb, err := bot.Lookup(nameB)
	if err != nil {
		return stats.MatchRecord{}, err
	}

	opts := []game.Option{
		game.WithLogger(r.logger.With(zap.Int("game", i+1))),
		game.WithSeed(seed),
		game.WithMaxTurns(r.opts.MaxTurns),
		game.WithGameIndex(i + 1),
	}
	var replay *game.Replay
	if r.opts.ReplayDir != "" {
		replay = game.NewReplay(fmt.Sprintf("%s-%d", runID, i+1), seed)
		opts = append(opts, game.WithEventBus(rules.NewEventBus()), game.WithReplay(replay))
	}

	m, err := game.NewMatch(r.pool.Cards, pa, pb, opts...)
	if err != nil {
		return stats.MatchRecord{}, err
	}
	rec := m.Run()
	r.logger.Debug("match state at exit", zap.Stringer("match", m))

	if replay != nil {
		if err := replay.SaveToFile(r.opts.ReplayDir); err != nil {
			return stats.MatchRecord{}, fmt.Errorf("save replay: %w", err)
		}
	}

	seat := tournament.SeatNone
	switch rules.PlayerID(rec.Winner) {
	case rules.PlayerA:
		seat = tournament.SeatPlayer1
	case rules.PlayerB:
		seat = tournament.SeatPlayer2
	}
	if err := r.league.RecordMatchResult(nameA, nameB, seat); err != nil {
		return stats.MatchRecord{}, err
	}

	if r.opts.Verbose {
		winner := rec.Winner
		if winner == "" {
			winner = "none"
		}
		r.logger.Info("match finished",
			zap.Int("game", i+1),
			zap.Int("of", r.opts.Games),
			zap.String("starter", rec.StartingPlayer),
			zap.String("winner", winner),
			zap.Int("turns", rec.TurnCount),
			zap.Int("attacks", rec.TotalAttacks),
		)
	}
	return rec, nil
}
