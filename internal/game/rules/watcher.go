package rules

// Watcher observes match events and accumulates derived state.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears accumulated state.
	Reset()

	// Key returns a unique key for this watcher instance.
	Key() string
}

// BaseWatcher provides the key and condition bookkeeping shared by watchers.
type BaseWatcher struct {
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher with the given key.
func NewBaseWatcher(key string) *BaseWatcher {
	return &BaseWatcher{key: key}
}

// Key returns the watcher key.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// ConditionMet returns whether the tracked condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// Attach subscribes every watcher to bus and returns the handles.
func Attach(bus *EventBus, watchers ...Watcher) []int {
	handles := make([]int, 0, len(watchers))
	for _, w := range watchers {
		handles = append(handles, bus.Subscribe(w.Watch))
	}
	return handles
}
