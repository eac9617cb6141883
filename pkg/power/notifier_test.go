package power

import "testing"

func TestNotifier_SubscribeAndPublish(t *testing.T) {
	n := NewNotifier()

	var got []EventClass
	n.Subscribe(func(ev EventClass) { got = append(got, ev) })

	n.Publish(SuspendPrepare)
	n.Publish(PostSuspend)

	if len(got) != 2 || got[0] != SuspendPrepare || got[1] != PostSuspend {
		t.Errorf("received %v, want [SUSPEND_PREPARE POST_SUSPEND]", got)
	}
}

func TestNotifier_DispatchOrder(t *testing.T) {
	n := NewNotifier()

	var order []int
	n.Subscribe(func(EventClass) { order = append(order, 1) })
	n.Subscribe(func(EventClass) { order = append(order, 2) })
	n.Subscribe(func(EventClass) { order = append(order, 3) })

	n.Publish(PostSuspend)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("dispatch order = %v, want [1 2 3]", order)
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	sub := n.Subscribe(func(EventClass) { calls++ })

	n.Publish(PostSuspend)
	n.Unsubscribe(sub)
	n.Publish(PostSuspend)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestNotifier_UnsubscribeSafety(t *testing.T) {
	n := NewNotifier()

	// All of these must be no-ops, not panics.
	n.Unsubscribe(nil)
	n.Unsubscribe(&Subscription{id: 42})

	sub := n.Subscribe(func(EventClass) {})
	n.Unsubscribe(sub)
	n.Unsubscribe(sub) // double unsubscribe
}

func TestEventClassString(t *testing.T) {
	tests := map[EventClass]string{
		SuspendPrepare:   "SUSPEND_PREPARE",
		PostSuspend:      "POST_SUSPEND",
		HibernatePrepare: "HIBERNATE_PREPARE",
		PostHibernate:    "POST_HIBERNATE",
		RestorePrepare:   "RESTORE_PREPARE",
		PostRestore:      "POST_RESTORE",
		EventClass(99):   "UNKNOWN",
	}
	for ev, want := range tests {
		if got := ev.String(); got != want {
			t.Errorf("EventClass(%d).String() = %q, want %q", ev, got, want)
		}
	}
}
