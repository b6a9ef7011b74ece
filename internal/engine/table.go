package engine

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/evaluator"
	"github.com/feltline/cardroom/internal/handid"
)

var (
	// ErrActionInFlight means another action is still being processed.
	ErrActionInFlight = errors.New("engine: action already in flight")
	// ErrNotYourTurn means the submitting player is not the current actor.
	ErrNotYourTurn = errors.New("engine: not this player's turn")
	// ErrHandInProgress means StartHand was called mid-hand.
	ErrHandInProgress = errors.New("engine: hand already in progress")
	// ErrNoHand means an action arrived with no hand running.
	ErrNoHand = errors.New("engine: no hand in progress")
	// ErrNotEnoughPlayers means fewer than two seats have chips.
	ErrNotEnoughPlayers = errors.New("engine: need at least two players with chips")
)

// Seat describes one table position at construction time. A nil Agent
// seats a human whose actions arrive through SubmitAction.
type Seat struct {
	Name  string
	Chips int
	Agent Agent
}

// DelayProfile bounds the simulated think time before an agent acts.
// A zero profile makes agents act inline, which keeps simulations
// synchronous.
type DelayProfile struct {
	Min time.Duration
	Max time.Duration
}

// Config holds the table parameters that persist across hands
type Config struct {
	Seats      []Seat
	SmallBlind int
	BigBlind   int
	ThinkDelay DelayProfile
}

// Table runs hands of no-limit hold'em for a fixed set of seats. All
// mutation happens under one mutex; agents act either inline or from a
// clock timer, and humans through SubmitAction. The table survives
// across hands, carrying chips forward and rotating the button.
type Table struct {
	mu    sync.Mutex
	log   *log.Logger
	clock quartz.Clock
	rng   *rand.Rand
	bus   EventBus

	players []Player
	agents  []Agent
	deck    *deck.Deck
	board   []deck.Card

	smallBlind int
	bigBlind   int
	delay      DelayProfile

	phase     Phase
	dealer    int
	current   int
	lastRaise int
	handID    string
	handNum   int
	handDone  bool

	inFlight atomic.Bool
	timer    *quartz.Timer
}

// Option configures a Table during creation
type Option func(*Table)

// WithLogger sets the table's logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.log = logger }
}

// WithClock sets the clock used for think-delay timers. Tests pass a
// mock to control time explicitly.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithEventBus sets a shared event bus
func WithEventBus(bus EventBus) Option {
	return func(t *Table) { t.bus = bus }
}

// WithDeck sets a specific deck, overriding the RNG-shuffled default
func WithDeck(d *deck.Deck) Option {
	return func(t *Table) { t.deck = d }
}

// NewTable creates a table from the given seats. The RNG is required
// to make randomness explicit and testing deterministic.
func NewTable(rng *rand.Rand, cfg Config, opts ...Option) (*Table, error) {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if len(cfg.Seats) < 2 {
		return nil, errors.New("engine: at least two seats required")
	}
	if len(cfg.Seats) > 10 {
		return nil, errors.New("engine: at most ten seats supported")
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, errors.New("engine: blinds must be positive with big blind >= small blind")
	}

	t := &Table{
		log:        log.New(io.Discard),
		clock:      quartz.NewReal(),
		rng:        rng,
		bus:        NewEventBus(),
		players:    make([]Player, len(cfg.Seats)),
		agents:     make([]Agent, len(cfg.Seats)),
		smallBlind: cfg.SmallBlind,
		bigBlind:   cfg.BigBlind,
		delay:      cfg.ThinkDelay,
		dealer:     -1,
		handDone:   true,
	}
	for i, seat := range cfg.Seats {
		t.players[i] = Player{
			ID:    i,
			Name:  seat.Name,
			Chips: seat.Chips,
			AI:    seat.Agent != nil,
		}
		t.agents[i] = seat.Agent
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.deck == nil {
		t.deck = deck.New(rng)
	}
	return t, nil
}

// Events returns the table's event bus for subscribing
func (t *Table) Events() EventBus { return t.bus }

// HandComplete reports whether no hand is currently running
func (t *Table) HandComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handDone
}

// HandID returns the identifier of the current or most recent hand
func (t *Table) HandID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handID
}

// HandNumber returns how many hands have been started
func (t *Table) HandNumber() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handNum
}

// CurrentActor returns the ID of the player due to act, or -1 when no
// hand is running
func (t *Table) CurrentActor() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handDone {
		return -1
	}
	return t.players[t.current].ID
}

// Players returns a snapshot of every seat with hole cards stripped
func (t *Table) Players() []Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	players := make([]Player, len(t.players))
	for i, p := range t.players {
		p.Hole = nil
		players[i] = p
	}
	return players
}

// Snapshot returns the game from one player's perspective. Only that
// player's hole cards are included.
func (t *Table) Snapshot(playerID int) (GameContext, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	seat := t.seatOf(playerID)
	if seat < 0 {
		return GameContext{}, false
	}
	return t.snapshotLocked(seat), true
}

// ValidActions lists the legal moves for a player, or nil when it is
// not their turn
func (t *Table) ValidActions(playerID int) []ValidAction {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handDone {
		return nil
	}
	seat := t.seatOf(playerID)
	if seat < 0 || seat != t.current {
		return nil
	}
	return ValidActionsFor(t.players[seat], HighestBet(t.players), MinimumBet(t.bigBlind, t.lastRaise))
}

// Reconfigure applies new stakes and pacing starting with the next
// hand. Settings are fetched once per deal, so edits land between
// hands and never mid-hand.
func (t *Table) Reconfigure(smallBlind, bigBlind int, delay DelayProfile) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.handDone {
		return ErrHandInProgress
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return errors.New("engine: blinds must be positive with big blind >= small blind")
	}
	t.smallBlind = smallBlind
	t.bigBlind = bigBlind
	t.delay = delay
	return nil
}

// StartHand deals a new hand: rotates the button, posts blinds, deals
// hole cards and hands the action to the first player after the big
// blind. With a zero think delay and only agents seated, the entire
// hand plays out before StartHand returns.
func (t *Table) StartHand() error {
	if !t.inFlight.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer t.inFlight.Store(false)
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.handDone {
		return ErrHandInProgress
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	funded := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrNotEnoughPlayers
	}

	t.handNum++
	t.handID = handid.New(t.rng)
	t.board = t.board[:0]
	t.phase = Preflop
	t.lastRaise = 0
	t.dealer = t.nextFundedLocked(t.dealer)

	for i := range t.players {
		t.players[i] = ResetForNewHand(t.players[i])
		if t.players[i].Chips == 0 {
			// busted seats sit the hand out
			t.players[i].Folded = true
		}
	}
	t.players[t.dealer].Dealer = true

	t.deck.Reset()
	for i := range t.players {
		if t.players[i].Folded {
			continue
		}
		hole, err := t.deck.DrawN(2)
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		t.players[i].Hole = hole
	}

	sb, bb := t.blindSeatsLocked()
	t.players[sb] = PostBlind(t.players[sb], t.smallBlind)
	t.players[bb] = PostBlind(t.players[bb], t.bigBlind)

	t.handDone = false
	t.log.Info("Starting hand",
		"hand", t.handID,
		"num", t.handNum,
		"dealer", t.players[t.dealer].Name,
		"sb", t.players[sb].Name,
		"bb", t.players[bb].Name)
	t.bus.Publish(NewHandStartEvent(t.handID, t.handNum, t.snapshotPlayersLocked(), t.dealer, t.smallBlind, t.bigBlind))

	t.advanceLocked(bb)
	return nil
}

// SubmitAction applies a human player's action. Illegal requests are
// coerced to the nearest legal action rather than rejected, and the
// adjustment is published on the action event.
func (t *Table) SubmitAction(playerID int, action Action, amount int) error {
	if !t.inFlight.CompareAndSwap(false, true) {
		t.log.Warn("Rejecting action, another is in flight", "player", playerID)
		return ErrActionInFlight
	}
	defer t.inFlight.Store(false)
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handDone {
		return ErrNoHand
	}
	seat := t.seatOf(playerID)
	if seat < 0 || seat != t.current || t.agents[seat] != nil {
		t.log.Warn("Rejecting action, not player's turn", "player", playerID)
		return ErrNotYourTurn
	}

	t.applyLocked(seat, action, amount, false, "")
	return nil
}

// seatOf maps a player ID to its seat index, or -1
func (t *Table) seatOf(playerID int) int {
	for i, p := range t.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// nextFundedLocked returns the next seat after from with chips
func (t *Table) nextFundedLocked(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := (from + i + n) % n
		if t.players[idx].Chips > 0 {
			return idx
		}
	}
	return from
}

// nextDealtLocked returns the next seat after from that was dealt in
func (t *Table) nextDealtLocked(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if !t.players[idx].Folded {
			return idx
		}
	}
	return from
}

// blindSeatsLocked picks the blind seats for the hand being dealt.
// Heads-up the button posts the small blind and the other player the
// big blind.
func (t *Table) blindSeatsLocked() (sb, bb int) {
	dealt := 0
	for _, p := range t.players {
		if !p.Folded {
			dealt++
		}
	}
	if dealt == 2 {
		sb = t.dealer
		bb = t.nextDealtLocked(sb)
		return sb, bb
	}
	sb = t.nextDealtLocked(t.dealer)
	bb = t.nextDealtLocked(sb)
	return sb, bb
}

// contendersLocked counts players still in the hand
func (t *Table) contendersLocked() int {
	n := 0
	for _, p := range t.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// snapshotPlayersLocked copies every player including hole cards.
// Consumers decide what to reveal per perspective.
func (t *Table) snapshotPlayersLocked() []Player {
	players := make([]Player, len(t.players))
	for i, p := range t.players {
		p.Hole = append([]deck.Card(nil), p.Hole...)
		players[i] = p
	}
	return players
}

// snapshotLocked builds the read-only view handed to decision makers.
// Every other player's hole cards are stripped.
func (t *Table) snapshotLocked(seat int) GameContext {
	players := make([]Player, len(t.players))
	for i, p := range t.players {
		if i == seat {
			p.Hole = append([]deck.Card(nil), p.Hole...)
		} else {
			p.Hole = nil
		}
		players[i] = p
	}
	return GameContext{
		Player:       players[seat],
		Players:      players,
		Board:        append([]deck.Card(nil), t.board...),
		Pot:          TotalPot(t.players),
		MinimumBet:   MinimumBet(t.bigBlind, t.lastRaise),
		Phase:        t.phase,
		BettingRound: int(t.phase),
		Position:     PositionOf(seat, t.dealer, len(t.players)),
	}
}

// applyLocked coerces the requested action to a legal one, applies it
// and advances the hand. Coercion rules: a check facing a bet becomes
// a call when affordable and otherwise a fold; a call facing nothing
// becomes a check; a raise the player cannot afford becomes a call,
// which caps to all-in; a raise below the minimum is lifted to it.
func (t *Table) applyLocked(seat int, requested Action, amount int, fallback bool, reasoning string) {
	p := t.players[seat]
	highest := HighestBet(t.players)
	toCall := highest - p.CurrentBet
	minRaise := MinimumBet(t.bigBlind, t.lastRaise)

	action := requested
	raiseBy := amount
	switch action {
	case Check:
		if toCall > 0 {
			if p.Chips >= toCall {
				action = Call
			} else {
				action = Fold
			}
		}
	case Call:
		if toCall <= 0 {
			action = Check
		}
	case Raise:
		if p.Chips <= toCall {
			action = Call
		} else {
			if raiseBy < minRaise {
				raiseBy = min(minRaise, p.Chips-toCall)
			}
			if raiseBy > p.Chips-toCall {
				raiseBy = p.Chips - toCall
			}
		}
	}
	if action != requested {
		t.log.Warn("Adjusting illegal action",
			"hand", t.handID,
			"player", p.Name,
			"requested", requested,
			"applied", action)
	}

	moved := 0
	switch action {
	case Fold:
		t.players[seat] = FoldPlayer(p)
	case Check:
		t.players[seat] = PlaceBet(p, 0)
	case Call:
		t.players[seat] = PlaceBet(p, toCall)
		moved = p.Chips - t.players[seat].Chips
	case Raise:
		t.players[seat] = PlaceBet(p, toCall+raiseBy)
		moved = p.Chips - t.players[seat].Chips
		// only a full raise moves the minimum; a short all-in does not
		if actual := t.players[seat].CurrentBet - highest; actual >= minRaise {
			t.lastRaise = actual
		}
	}

	applied := t.players[seat]
	potAfter := TotalPot(t.players)
	t.log.Info("Player action",
		"hand", t.handID,
		"phase", t.phase,
		"player", applied.Name,
		"action", action,
		"amount", moved,
		"allIn", applied.AllIn,
		"pot", potAfter)
	t.bus.Publish(NewPlayerActionEvent(t.handID, applied, action, requested, moved, fallback, reasoning, t.phase, potAfter))

	t.advanceLocked(seat)
}

// advanceLocked moves the hand forward after seat acted: end the hand
// when only one player remains, close the betting round when everyone
// has matched, otherwise pass the action along.
func (t *Table) advanceLocked(from int) {
	if t.contendersLocked() == 1 {
		t.foldoutLocked()
		return
	}
	if BettingComplete(t.players) {
		t.nextPhaseLocked()
		return
	}
	t.current = NextActor(t.players, from)
	t.promptLocked()
}

// nextPhaseLocked reveals the next street and reopens betting. When
// nobody can bet the streets run out back to back, each still
// publishing its reveal.
func (t *Table) nextPhaseLocked() {
	if t.phase == River {
		t.showdownLocked()
		return
	}

	for i := range t.players {
		t.players[i] = ResetCurrentBet(t.players[i])
	}
	t.lastRaise = 0
	t.phase++

	draw := 0
	switch t.phase {
	case Flop:
		draw = 3
	case Turn, River:
		draw = 1
	}
	cards, err := t.deck.DrawN(draw)
	if err != nil {
		// cannot happen with at most ten seats; the deck always covers
		// twenty hole cards plus five board cards
		panic(fmt.Sprintf("engine: dealing %s: %v", t.phase, err))
	}
	t.board = append(t.board, cards...)

	t.log.Info("Phase change",
		"hand", t.handID,
		"phase", t.phase,
		"board", deck.Cards(t.board).String(),
		"pot", TotalPot(t.players))
	t.bus.Publish(NewPhaseChangeEvent(t.handID, t.phase, t.board, TotalPot(t.players)))

	t.advanceLocked(t.dealer)
}

// promptLocked hands the action to the current seat: agents get a
// think-delay timer (or act inline when the delay is zero), humans get
// an action request on the bus.
func (t *Table) promptLocked() {
	seat := t.current
	if t.agents[seat] == nil {
		p := t.players[seat]
		toCall := max(0, HighestBet(t.players)-p.CurrentBet)
		t.bus.Publish(NewActionRequestEvent(t.handID, p, toCall, MinimumBet(t.bigBlind, t.lastRaise), t.phase, TotalPot(t.players)))
		return
	}

	d := t.thinkDelayLocked()
	if d <= 0 {
		t.agentActLocked(seat)
		return
	}
	handID := t.handID
	t.timer = t.clock.AfterFunc(d, func() {
		t.agentTurn(seat, handID)
	})
}

// thinkDelayLocked draws a think time from the configured profile
func (t *Table) thinkDelayLocked() time.Duration {
	if t.delay.Max <= 0 {
		return 0
	}
	span := t.delay.Max - t.delay.Min
	if span <= 0 {
		return t.delay.Min
	}
	return t.delay.Min + time.Duration(t.rng.Int64N(int64(span)))
}

// agentTurn runs from the think-delay timer goroutine. Stale timers
// from a finished or superseded turn are dropped.
func (t *Table) agentTurn(seat int, handID string) {
	t.inFlight.Store(true)
	defer t.inFlight.Store(false)
	t.mu.Lock()
	defer t.mu.Unlock()

	t.timer = nil
	if t.handDone || t.handID != handID || t.current != seat {
		return
	}
	t.agentActLocked(seat)
}

// agentActLocked asks the seat's agent for a decision and applies it
func (t *Table) agentActLocked(seat int) {
	decision := t.agents[seat].MakeDecision(t.snapshotLocked(seat))
	t.applyLocked(seat, decision.Action, decision.Amount, decision.Fallback, decision.Reasoning)
}

// foldoutLocked ends a hand that folded down to one player. The
// winner takes the pot without showing cards.
func (t *Table) foldoutLocked() {
	winner := -1
	for i, p := range t.players {
		if !p.Folded {
			winner = i
			break
		}
	}
	pot := TotalPot(t.players)
	payouts := map[int]int{t.players[winner].ID: pot}
	net := t.netResultsLocked(payouts)
	t.players[winner].Chips += pot

	w := t.players[winner]
	t.log.Info("Hand complete",
		"hand", t.handID,
		"winner", w.Name,
		"pot", pot,
		"foldout", true)
	t.bus.Publish(NewHandEndEvent(t.handID, pot, true,
		[]WinnerInfo{{PlayerID: w.ID, Name: w.Name, Amount: pot}},
		payouts, net))
	t.handDone = true
}

// showdownLocked compares the remaining hands and pays out every pot.
// Each pot goes to the best five-card hand among its eligible players,
// split on exact ties with leftover chips to the earliest seats. A pot
// with a single eligible player is an uncalled bet finding its way
// home and is not reported as a win.
func (t *Table) showdownLocked() {
	t.phase = Showdown

	best := make(map[int]evaluator.Hand)
	var reveals []Reveal
	for _, p := range t.players {
		if p.Folded {
			continue
		}
		cards := make([]deck.Card, 0, 7)
		cards = append(cards, p.Hole...)
		cards = append(cards, t.board...)
		hand, err := evaluator.Best(cards)
		if err != nil {
			panic(fmt.Sprintf("engine: evaluating %s at showdown: %v", p.Name, err))
		}
		best[p.ID] = hand
		reveals = append(reveals, Reveal{
			PlayerID: p.ID,
			Name:     p.Name,
			Hole:     append([]deck.Card(nil), p.Hole...),
			HandDesc: hand.String(),
		})
	}

	pots := SidePots(t.players)
	payouts := make(map[int]int)
	var winners []WinnerInfo
	for _, pot := range pots {
		// SidePots never lists folded players as eligible, but guard
		// anyway since it is also a public function over arbitrary input
		contenders := make([]int, 0, len(pot.Eligible))
		holes := make([][]deck.Card, 0, len(pot.Eligible))
		for _, id := range pot.Eligible {
			if _, ok := best[id]; !ok {
				continue
			}
			contenders = append(contenders, id)
			holes = append(holes, t.players[t.seatOf(id)].Hole)
		}
		if len(contenders) == 0 {
			continue
		}
		idxs, err := evaluator.ShowdownWinners(holes, t.board)
		if err != nil {
			panic(fmt.Sprintf("engine: resolving pot of %d: %v", pot.Amount, err))
		}
		potWinners := make([]int, len(idxs))
		for i, idx := range idxs {
			potWinners[i] = contenders[idx]
		}
		share := SplitPot(potWinners, pot.Amount)
		for id, amount := range share {
			payouts[id] += amount
		}
		if len(pot.Eligible) == 1 {
			continue
		}
		for _, id := range potWinners {
			seat := t.seatOf(id)
			winners = append(winners, WinnerInfo{
				PlayerID: id,
				Name:     t.players[seat].Name,
				Amount:   share[id],
				HandDesc: best[id].String(),
			})
		}
	}

	net := t.netResultsLocked(payouts)
	for i := range t.players {
		if amount := payouts[t.players[i].ID]; amount > 0 {
			t.players[i].Chips += amount
		}
	}

	pot := TotalPot(t.players)
	t.bus.Publish(NewShowdownEvent(t.handID, t.board, pots, reveals))
	for _, w := range winners {
		t.log.Info("Showdown winner",
			"hand", t.handID,
			"player", w.Name,
			"amount", w.Amount,
			"with", w.HandDesc)
	}
	t.bus.Publish(NewHandEndEvent(t.handID, pot, false, winners, payouts, net))
	t.handDone = true
}

// netResultsLocked maps each player to winnings minus contributions
func (t *Table) netResultsLocked(payouts map[int]int) map[int]int {
	net := make(map[int]int, len(t.players))
	for _, p := range t.players {
		net[p.ID] = payouts[p.ID] - p.TotalBet
	}
	return net
}
