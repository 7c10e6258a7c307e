package rules

import "testing"

type fumbleWatcher struct {
	*BaseWatcher
	count int
}

func (w *fumbleWatcher) Watch(e Event) {
	if e.Type != EventFumble {
		return
	}
	w.count++
	w.SetCondition(true)
}

func (w *fumbleWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.count = 0
}

func TestAttachWatchers(t *testing.T) {
	bus := NewEventBus()
	w := &fumbleWatcher{BaseWatcher: NewBaseWatcher("fumbles")}

	handles := Attach(bus, w)
	if len(handles) != 1 {
		t.Fatalf("expected one handle, got %d", len(handles))
	}

	bus.Publish(NewEvent(EventCriticalHit, 1, PlayerA))
	if w.ConditionMet() {
		t.Fatalf("critical hit must not trip the fumble watcher")
	}

	bus.Publish(NewEvent(EventFumble, 1, PlayerA))
	bus.Publish(NewEvent(EventFumble, 2, PlayerB))
	if !w.ConditionMet() || w.count != 2 {
		t.Fatalf("expected 2 fumbles, got %d (condition=%v)", w.count, w.ConditionMet())
	}
	if w.Key() != "fumbles" {
		t.Fatalf("unexpected key %q", w.Key())
	}

	w.Reset()
	if w.ConditionMet() || w.count != 0 {
		t.Fatalf("reset did not clear watcher")
	}
}
