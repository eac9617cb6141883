package power

import "sync"

// EventClass tags a power-state transition event.
type EventClass uint8

const (
	// SuspendPrepare - the system is about to suspend to RAM.
	SuspendPrepare EventClass = 1

	// PostSuspend - the system completed resume from suspend. This is
	// the only class the backlight driver reacts to.
	PostSuspend EventClass = 2

	// HibernatePrepare - the system is about to hibernate.
	HibernatePrepare EventClass = 3

	// PostHibernate - hibernation was aborted or finished.
	PostHibernate EventClass = 4

	// RestorePrepare - a hibernation image is about to be restored.
	RestorePrepare EventClass = 5

	// PostRestore - restore from hibernation completed.
	PostRestore EventClass = 6
)

// String returns the event class name.
func (e EventClass) String() string {
	switch e {
	case SuspendPrepare:
		return "SUSPEND_PREPARE"
	case PostSuspend:
		return "POST_SUSPEND"
	case HibernatePrepare:
		return "HIBERNATE_PREPARE"
	case PostHibernate:
		return "POST_HIBERNATE"
	case RestorePrepare:
		return "RESTORE_PREPARE"
	case PostRestore:
		return "POST_RESTORE"
	default:
		return "UNKNOWN"
	}
}

// Handler receives power events. Handlers run synchronously on the
// publishing goroutine and should return quickly.
type Handler func(EventClass)

// Subscription identifies a registered handler.
type Subscription struct {
	id uint64
}

// Notifier dispatches power events to subscribed handlers.
// It is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	dispatch sync.Mutex // serializes Publish; one event at a time
	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns its subscription handle.
func (n *Notifier) Subscribe(h Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.handlers[id] = h
	n.order = append(n.order, id)
	return &Subscription{id: id}
}

// Unsubscribe removes s. Safe to call with nil or with a subscription
// that was never registered or already removed.
func (n *Notifier) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.handlers[s.id]; !ok {
		return
	}
	delete(n.handlers, s.id)
	for i, id := range n.order {
		if id == s.id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// Publish delivers ev to all handlers in subscription order. Handlers
// run synchronously; Publish returns after the last handler does.
func (n *Notifier) Publish(ev EventClass) {
	n.dispatch.Lock()
	defer n.dispatch.Unlock()

	n.mu.Lock()
	hs := make([]Handler, 0, len(n.order))
	for _, id := range n.order {
		if h, ok := n.handlers[id]; ok {
			hs = append(hs, h)
		}
	}
	n.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}
