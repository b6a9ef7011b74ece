package engine

import (
	"sync"
	"time"

	"github.com/feltline/cardroom/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeHandStart     EventType = "hand_start"
	EventTypeHandEnd       EventType = "hand_end"
	EventTypePhaseChange   EventType = "phase_change"
	EventTypePlayerAction  EventType = "player_action"
	EventTypeActionRequest EventType = "action_request"
	EventTypeShowdown      EventType = "showdown"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a poker game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published when a new hand begins. Players carries
// full copies including hole cards; renderers decide per perspective
// what to reveal.
type HandStartEvent struct {
	HandID     string
	HandNum    int
	Players    []Player
	Dealer     int
	SmallBlind int
	BigBlind   int
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// NewHandStartEvent creates a new hand start event
func NewHandStartEvent(handID string, handNum int, players []Player, dealer, smallBlind, bigBlind int) HandStartEvent {
	return HandStartEvent{
		HandID:     handID,
		HandNum:    handNum,
		Players:    players,
		Dealer:     dealer,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		timestamp:  time.Now(),
	}
}

// PhaseChangeEvent is published when the betting round changes
type PhaseChangeEvent struct {
	HandID    string
	Phase     Phase
	Board     []deck.Card
	Pot       int
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewPhaseChangeEvent creates a new phase change event
func NewPhaseChangeEvent(handID string, phase Phase, board []deck.Card, pot int) PhaseChangeEvent {
	cards := make([]deck.Card, len(board))
	copy(cards, board)
	return PhaseChangeEvent{
		HandID:    handID,
		Phase:     phase,
		Board:     cards,
		Pot:       pot,
		timestamp: time.Now(),
	}
}

// PlayerActionEvent is published when a player takes an action. When
// the requested action was illegal the applied one differs and Coerced
// is set, keeping the adjustment observable downstream.
type PlayerActionEvent struct {
	HandID    string
	PlayerID  int
	Name      string
	Action    Action
	Amount    int
	Requested Action
	Coerced   bool
	Fallback  bool
	AllIn     bool
	Reasoning string
	Phase     Phase
	PotAfter  int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(handID string, player Player, applied, requested Action, amount int, fallback bool, reasoning string, phase Phase, potAfter int) PlayerActionEvent {
	return PlayerActionEvent{
		HandID:    handID,
		PlayerID:  player.ID,
		Name:      player.Name,
		Action:    applied,
		Amount:    amount,
		Requested: requested,
		Coerced:   applied != requested,
		Fallback:  fallback,
		AllIn:     player.AllIn,
		Reasoning: reasoning,
		Phase:     phase,
		PotAfter:  potAfter,
		timestamp: time.Now(),
	}
}

// ActionRequestEvent is published when a human player must act
type ActionRequestEvent struct {
	HandID    string
	PlayerID  int
	Name      string
	ToCall    int
	MinRaise  int
	Phase     Phase
	Pot       int
	timestamp time.Time
}

func (e ActionRequestEvent) EventType() EventType { return EventTypeActionRequest }
func (e ActionRequestEvent) Timestamp() time.Time { return e.timestamp }

// NewActionRequestEvent creates a new action request event
func NewActionRequestEvent(handID string, player Player, toCall, minRaise int, phase Phase, pot int) ActionRequestEvent {
	return ActionRequestEvent{
		HandID:    handID,
		PlayerID:  player.ID,
		Name:      player.Name,
		ToCall:    toCall,
		MinRaise:  minRaise,
		Phase:     phase,
		Pot:       pot,
		timestamp: time.Now(),
	}
}

// Reveal pairs a player with the cards shown at showdown
type Reveal struct {
	PlayerID int
	Name     string
	Hole     []deck.Card
	HandDesc string
}

// ShowdownEvent is published when hands are revealed and compared
type ShowdownEvent struct {
	HandID    string
	Board     []deck.Card
	Pots      []Pot
	Reveals   []Reveal
	timestamp time.Time
}

func (e ShowdownEvent) EventType() EventType { return EventTypeShowdown }
func (e ShowdownEvent) Timestamp() time.Time { return e.timestamp }

// NewShowdownEvent creates a new showdown event
func NewShowdownEvent(handID string, board []deck.Card, pots []Pot, reveals []Reveal) ShowdownEvent {
	cards := make([]deck.Card, len(board))
	copy(cards, board)
	return ShowdownEvent{
		HandID:    handID,
		Board:     cards,
		Pots:      pots,
		Reveals:   reveals,
		timestamp: time.Now(),
	}
}

// WinnerInfo describes one winner's share of a finished hand
type WinnerInfo struct {
	PlayerID int
	Name     string
	Amount   int
	HandDesc string
}

// HandEndEvent is published when a hand completes. Net maps each
// player to winnings minus contributions, so a ledger downstream can
// record per-hand outcomes.
type HandEndEvent struct {
	HandID    string
	Pot       int
	Foldout   bool
	Winners   []WinnerInfo
	Payouts   map[int]int
	Net       map[int]int
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// NewHandEndEvent creates a new hand end event
func NewHandEndEvent(handID string, pot int, foldout bool, winners []WinnerInfo, payouts, net map[int]int) HandEndEvent {
	return HandEndEvent{
		HandID:    handID,
		Pot:       pot,
		Foldout:   foldout,
		Winners:   winners,
		Payouts:   payouts,
		Net:       net,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. The
// lock matters: think-delay timers publish from their own goroutine.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
