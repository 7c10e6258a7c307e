package rules

import (
	"sync"
)

// EventType indicates the category of a match event.
type EventType string

const (
	// Match/turn events
	EventMatchStarted      EventType = "MATCH_STARTED"
	EventMatchEnded        EventType = "MATCH_ENDED"
	EventTurnStarted       EventType = "TURN_STARTED"
	EventStepChanged       EventType = "STEP_CHANGED"
	EventLeaderDetermined  EventType = "LEADER_DETERMINED"
	EventResourcesRefilled EventType = "RESOURCES_REFILLED"
	EventResourcesSpent    EventType = "RESOURCES_SPENT"

	// Card events
	EventCardsDrawn     EventType = "CARDS_DRAWN"
	EventMulligan       EventType = "MULLIGAN"
	EventCardsDiscarded EventType = "CARDS_DISCARDED"

	// Board events
	EventHeroRecruited    EventType = "HERO_RECRUITED"
	EventItemEquipped     EventType = "ITEM_EQUIPPED"
	EventEquipmentBroken  EventType = "EQUIPMENT_BROKEN"
	EventHealed           EventType = "HEALED"
	EventHeroDestroyed    EventType = "HERO_DESTROYED"
	EventSummoningCleared EventType = "SUMMONING_CLEARED"

	// Combat events
	EventAttackResolved  EventType = "ATTACK_RESOLVED"
	EventCriticalHit     EventType = "CRITICAL_HIT"
	EventFumble          EventType = "FUMBLE"
	EventReactionPlayed  EventType = "REACTION_PLAYED"
	EventCounterattack   EventType = "COUNTERATTACK"
	EventDeathPrevented  EventType = "DEATH_PREVENTED"
	EventDamagePrevented EventType = "DAMAGE_PREVENTED"
)

// Spend categories carried in Event.Data for EventResourcesSpent.
const (
	SpendHeroes    = "heroes"
	SpendItems     = "items"
	SpendHealing   = "healing"
	SpendReactions = "reactions"
)

// Causes carried in Event.Data for EventHeroDestroyed and EventDeathPrevented.
const (
	CauseAttack        = "attack"
	CauseCounterattack = "counterattack"
	CauseReactive      = "reactive"
	CauseHealing       = "healing"
)

// Event is a state change other subsystems may react to. Events carry no
// wall-clock data so a match's event stream is a pure function of its seed.
type Event struct {
	Type     EventType
	Turn     int
	PlayerID PlayerID // seat the event happened to (owner, spender, attacker)
	SourceID string   // card ID, when a card caused the event
	Slot     int      // board slot, -1 when not applicable
	Amount   int      // damage, healing, cost, count
	Overflow int      // overkill or overheal beyond Amount
	Flag     bool     // event-specific boolean (target destroyed, reaction heal)
	Data     string   // category, cause, or step name
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Listeners run in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []handleListener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

type handleListener struct {
	handle   int
	callback Listener
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, handleListener{handle: handle, callback: listener})
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i := len(bus.listeners) - 1; i >= 0; i-- {
		if bus.listeners[i].handle == handle {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			return
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, l := range bus.listeners {
		l.callback(event)
	}
	for _, l := range bus.typedListeners[event.Type] {
		l.Callback(event)
	}
}

// NewEvent creates an event for a seat with no slot attached.
func NewEvent(eventType EventType, turn int, player PlayerID) Event {
	return Event{
		Type:     eventType,
		Turn:     turn,
		PlayerID: player,
		Slot:     -1,
	}
}

// NewEventWithAmount creates an event with an amount value.
func NewEventWithAmount(eventType EventType, turn int, player PlayerID, amount int) Event {
	evt := NewEvent(eventType, turn, player)
	evt.Amount = amount
	return evt
}
