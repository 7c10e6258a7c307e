// Package game holds the match state, the validated economy and combat
// operations, and the driver that plays a full match between two policies.
package game

import (
	"errors"
	"fmt"

	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/game/rng"
	"github.com/eypacha/drawandroll/internal/game/rules"
	"github.com/eypacha/drawandroll/internal/game/watchers"
	"github.com/eypacha/drawandroll/internal/stats"
	"go.uber.org/zap"
)

// LeaderTurn is the turn at which the board leader is recorded.
const LeaderTurn = 3

// Match runs one seeded match between two policies. A Match is not safe for
// concurrent use; run matches in parallel by giving each its own Match.
type Match struct {
	logger   *zap.Logger
	bus      *rules.EventBus
	rand     rng.Rand
	seed     uint32
	index    int
	maxTurns int
	policies [2]Policy

	state    *State
	watcher  *watchers.MatchStatsWatcher
	started  bool
	leader   bool
	timedOut bool
	noHeroes bool
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the match logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Match) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSeed seeds the match's random source.
func WithSeed(seed uint32) Option {
	return func(m *Match) {
		m.seed = seed
		m.rand = rng.New(seed)
	}
}

// WithRand replaces the random source. The recorded seed is left unchanged.
func WithRand(r rng.Rand) Option {
	return func(m *Match) {
		if r != nil {
			m.rand = r
		}
	}
}

// WithMaxTurns sets the turn cap. Values below 1 keep the default.
func WithMaxTurns(n int) Option {
	return func(m *Match) {
		if n > 0 {
			m.maxTurns = n
		}
	}
}

// WithGameIndex sets the index stamped on the match record.
func WithGameIndex(i int) Option {
	return func(m *Match) {
		m.index = i
	}
}

// WithEventBus publishes match events on bus instead of a private one.
func WithEventBus(bus *rules.EventBus) Option {
	return func(m *Match) {
		if bus != nil {
			m.bus = bus
		}
	}
}

// WithReplay records every match event into r.
func WithReplay(r *Replay) Option {
	return func(m *Match) {
		m.bus.Subscribe(r.Record)
	}
}

// NewMatch shuffles a copy of deck, picks the first player, and returns a
// match ready to Run. Options are applied in order, so WithEventBus must come
// before WithReplay.
func NewMatch(deck []cards.Card, a, b Policy, opts ...Option) (*Match, error) {
	if a == nil || b == nil {
		return nil, errors.New("both seats need a policy")
	}
	if len(deck) == 0 {
		return nil, errors.New("deck is empty")
	}

	m := &Match{
		logger:   zap.NewNop(),
		bus:      rules.NewEventBus(),
		rand:     rng.New(0),
		maxTurns: DefaultMaxTurns,
		policies: [2]Policy{a, b},
		watcher:  watchers.NewMatchStatsWatcher(),
	}
	for _, opt := range opts {
		opt(m)
	}
	rules.Attach(m.bus, m.watcher)

	shuffled := make([]cards.Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(m.rand, shuffled)

	first := rules.PlayerA
	if m.rand.Int(0, 1) == 1 {
		first = rules.PlayerB
	}

	m.state = &State{
		Turn:    rules.NewTurnManager(first),
		Deck:    Deck{Cards: shuffled},
		Players: [2]*Player{newPlayer(rules.PlayerA), newPlayer(rules.PlayerB)},
	}
	return m, nil
}

// State exposes the live match state.
func (m *Match) State() *State {
	return m.state
}

// Bus returns the event bus the match publishes on.
func (m *Match) Bus() *rules.EventBus {
	return m.bus
}

// TimedOut reports whether the match hit its turn cap.
func (m *Match) TimedOut() bool {
	return m.timedOut
}

func (m *Match) policy(id rules.PlayerID) Policy {
	return m.policies[id.Index()]
}

// Start deals both opening hands, first player first, and runs the opening
// mulligans in the same order. It is a no-op after the first call.
func (m *Match) Start() {
	if m.started {
		return
	}
	m.started = true

	tm := m.state.Turn
	first := tm.FirstPlayer()
	second := first.Opponent()

	m.Draw(first, OpeningHandSize)
	m.Draw(second, OpeningHandSize)
	m.Mulligan(first)
	m.Mulligan(second)

	started := rules.NewEvent(rules.EventMatchStarted, tm.TurnNumber(), first)
	m.bus.Publish(started)
	m.bus.Publish(rules.NewEventWithAmount(rules.EventResourcesRefilled, tm.TurnNumber(), first,
		m.state.Player(first).Resources.Current()))
	m.bus.Publish(rules.NewEvent(rules.EventTurnStarted, tm.TurnNumber(), first))

	m.logger.Debug("match started",
		zap.String("first_player", string(first)),
		zap.Int("deck", len(m.state.Deck.Cards)),
	)
}

// Run plays the match to completion or to the turn cap and returns its
// record.
func (m *Match) Run() stats.MatchRecord {
	m.Start()
	for !m.state.Turn.Ended() {
		if m.state.Turn.TurnNumber() > m.maxTurns {
			m.timedOut = true
			evt := rules.NewEvent(rules.EventMatchEnded, m.state.Turn.TurnNumber(), "")
			evt.Data = "timeout"
			m.bus.Publish(evt)
			m.logger.Debug("match timed out", zap.Int("turn", m.state.Turn.TurnNumber()))
			break
		}
		m.Step()
	}
	return m.Record()
}

// Step processes the current step for the active player and moves on.
func (m *Match) Step() {
	m.Start()
	tm := m.state.Turn
	if tm.Ended() {
		return
	}
	active := tm.ActivePlayer()
	p := m.state.Player(active)

	switch tm.CurrentStep() {
	case rules.StepDraw:
		if tm.TurnsTaken(active) > 0 && !p.HasHeroes() {
			m.finish(active.Opponent())
			return
		}
		m.beginTurn(active)
		m.Draw(active, 1)
		m.advance()
	case rules.StepRecruit:
		m.runRecruit(active)
		m.advance()
	case rules.StepCombat:
		m.runCombat(active)
		if !p.HasHeroes() {
			m.finish(active.Opponent())
			return
		}
		m.advance()
	case rules.StepDiscard:
		m.runDiscard(active)
		if tm.Ended() {
			return
		}
		m.advance()
	case rules.StepEnd:
		m.wearEquipment(active)
		if !p.HasHeroes() {
			m.finish(active.Opponent())
			return
		}
		m.advance()
	}
}

func (m *Match) advance() {
	tm := m.state.Turn
	active := tm.ActivePlayer()
	step := tm.Advance(len(m.state.Player(active).Hand))

	if step == rules.StepCombat {
		for _, h := range m.state.Player(active).Heroes {
			if h != nil {
				h.HasAttackedThisPhase = false
			}
		}
	}

	evt := rules.NewEvent(rules.EventStepChanged, tm.TurnNumber(), tm.ActivePlayer())
	evt.Data = step.String()
	m.bus.Publish(evt)
	m.logger.Debug("step changed",
		zap.Int("turn", tm.TurnNumber()),
		zap.String("player", string(tm.ActivePlayer())),
		zap.Stringer("step", step),
	)
}

// beginTurn refills resources and lifts summoning sickness for the seat
// whose turn is starting.
func (m *Match) beginTurn(id rules.PlayerID) {
	tm := m.state.Turn
	p := m.state.Player(id)

	m.bus.Publish(rules.NewEvent(rules.EventTurnStarted, tm.TurnNumber(), id))
	refilled := p.Resources.Refill()
	m.bus.Publish(rules.NewEventWithAmount(rules.EventResourcesRefilled, tm.TurnNumber(), id, refilled))

	cleared := 0
	for _, h := range p.Heroes {
		if h != nil && h.SummoningSick {
			h.SummoningSick = false
			cleared++
		}
	}
	if cleared > 0 {
		m.bus.Publish(rules.NewEventWithAmount(rules.EventSummoningCleared, tm.TurnNumber(), id, cleared))
	}

	if tm.TurnNumber() == LeaderTurn && !m.leader {
		m.leader = true
		evt := rules.NewEvent(rules.EventLeaderDetermined, tm.TurnNumber(), m.boardLeader())
		m.bus.Publish(evt)
	}
}

// boardLeader returns the seat with more live heroes, then more total hp, or
// "" when level.
func (m *Match) boardLeader() rules.PlayerID {
	a, b := m.state.Player(rules.PlayerA), m.state.Player(rules.PlayerB)
	switch {
	case a.HeroCount() > b.HeroCount():
		return rules.PlayerA
	case b.HeroCount() > a.HeroCount():
		return rules.PlayerB
	case a.TotalHP() > b.TotalHP():
		return rules.PlayerA
	case b.TotalHP() > a.TotalHP():
		return rules.PlayerB
	default:
		return ""
	}
}

func (m *Match) rejected(err error) {
	m.logger.Warn("policy action rejected", zap.Error(err))
}

func (m *Match) runRecruit(id rules.PlayerID) {
	pol := m.policy(id)
	for {
		play, ok := pol.PickHeroRecruitPlay(m.state, id)
		if !ok {
			break
		}
		if err := m.RecruitHero(id, play.CardID, play.Slot); err != nil {
			m.rejected(err)
			break
		}
	}
	for {
		play, ok := pol.PickItemEquipPlay(m.state, id)
		if !ok {
			break
		}
		if err := m.EquipItem(id, play.CardID, play.Slot); err != nil {
			m.rejected(err)
			break
		}
	}
	for {
		play, ok := pol.PickHealingRecruitPlay(m.state, id)
		if !ok {
			break
		}
		if err := m.CastHealing(id, play.CardID, play.Slot); err != nil {
			m.rejected(err)
			break
		}
	}
}

func (m *Match) runCombat(id rules.PlayerID) {
	opponent := m.state.Opponent(id)
	for _, atk := range m.policy(id).PickAttacks(m.state, id) {
		if !opponent.HasHeroes() {
			break
		}
		_, err := m.ResolveAttack(id, atk.AttackerSlot, atk.DefenderSlot)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoDefender), errors.Is(err, ErrCannotAttack):
			// Planned against a board that has changed since.
			m.logger.Debug("attack skipped", zap.Error(err))
		default:
			m.rejected(err)
		}
	}
}

func (m *Match) runDiscard(id rules.PlayerID) {
	p := m.state.Player(id)
	required := len(p.Hand) - rules.HandLimit
	if required <= 0 {
		return
	}
	hand := make([]cards.Card, len(p.Hand))
	copy(hand, p.Hand)

	err := m.Discard(id, m.policy(id).PickDiscardCardIDs(hand, required))
	if err == nil {
		return
	}
	m.rejected(err)
	if err := m.Discard(id, RankDiscards(hand, required, BaselineDiscardPriority)); err != nil {
		m.logger.Error("discard fallback failed, abandoning match", zap.Error(err))
		m.timedOut = true
		m.state.Turn.Finish("")
	}
}

func (m *Match) finish(winner rules.PlayerID) {
	tm := m.state.Turn
	tm.Finish(winner)
	m.noHeroes = true

	evt := rules.NewEvent(rules.EventMatchEnded, tm.TurnNumber(), winner)
	evt.Data = "no_heroes"
	m.bus.Publish(evt)
	m.logger.Debug("match ended",
		zap.String("winner", string(winner)),
		zap.Int("turn", tm.TurnNumber()),
	)
}

// Record assembles the match record from the stats watcher and final state.
func (m *Match) Record() stats.MatchRecord {
	tm := m.state.Turn
	rec := m.watcher.Record()
	rec.GameIndex = m.index
	rec.SeedUsed = m.seed
	rec.ProfileA = m.policies[0].Name()
	rec.ProfileB = m.policies[1].Name()
	rec.StartingPlayer = string(tm.FirstPlayer())
	rec.Winner = string(tm.Winner())
	rec.WinnerIsStarter = rec.Winner != "" && tm.Winner() == tm.FirstPlayer()
	rec.TurnCount = max(1, tm.TurnNumber())
	rec.EndedByNoHeroes = m.noHeroes
	rec.TimedOutByMaxTurns = m.timedOut
	rec.FinalHeroesPlayerA = m.state.Player(rules.PlayerA).HeroCount()
	rec.FinalHeroesPlayerB = m.state.Player(rules.PlayerB).HeroCount()
	rec.DeckRemaining = len(m.state.Deck.Cards)
	return rec
}

// String summarizes the match for logs.
func (m *Match) String() string {
	tm := m.state.Turn
	return fmt.Sprintf("match %d seed=%d turn=%d step=%s active=%s", m.index, m.seed,
		tm.TurnNumber(), tm.CurrentStep(), tm.ActivePlayer())
}
