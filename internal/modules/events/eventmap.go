package events

// EventMap maps event kinds to an ordered collection of handlers. Handlers
// registered last are visited first. The map is not safe for concurrent
// use; the matchmaker serializes access to it.
type EventMap struct {
	buckets map[Kind][]Handler
}

// NewEventMap creates an empty event map with a bucket per kind.
func NewEventMap() *EventMap {
	buckets := make(map[Kind][]Handler, len(Kinds()))
	for _, kind := range Kinds() {
		buckets[kind] = nil
	}
	return &EventMap{buckets: buckets}
}

// Register prepends the handler into the bucket for its kind.
func (m *EventMap) Register(h Handler) {
	m.buckets[h.Kind()] = append([]Handler{h}, m.buckets[h.Kind()]...)
}

// Deregister removes the handler with a matching tag from its kind's
// bucket. Removing an absent handler is a no-op.
func (m *EventMap) Deregister(h Handler) {
	bucket := m.buckets[h.Kind()]
	for i, registered := range bucket {
		if registered.Tag() == h.Tag() {
			m.buckets[h.Kind()] = append(bucket[:i:i], bucket[i+1:]...)
			return
		}
	}
}

// Len reports the number of handlers registered for the kind.
func (m *EventMap) Len(kind Kind) int {
	return len(m.buckets[kind])
}

// Registered reports whether a handler with the tag is registered for the
// kind.
func (m *EventMap) Registered(kind Kind, tag int64) bool {
	for _, h := range m.buckets[kind] {
		if h.Tag() == tag {
			return true
		}
	}
	return false
}

// Clear drops every registered handler.
func (m *EventMap) Clear() {
	for _, kind := range Kinds() {
		m.buckets[kind] = nil
	}
}

// Poll returns the handlers in the event's bucket whose IsReady reports
// true, in dispatch order.
func (m *EventMap) Poll(ev Event) []Handler {
	var ready []Handler
	for _, h := range m.buckets[ev.Kind] {
		if h.IsReady(ev.Ctx) {
			ready = append(ready, h)
		}
	}
	return ready
}

// Handle dispatches the event. Readiness is evaluated immediately before
// each invocation so a handler observes the state left by the handlers
// before it. Errors do not stop the dispatch; the last one is returned.
// Handlers that do not requeue, or that returned an error on this
// invocation, are deregistered only after the iteration completes so
// removal is never observable by peers in the same dispatch.
func (m *EventMap) Handle(ev Event) error {
	var lastErr error
	var deregister []Handler

	bucket := make([]Handler, len(m.buckets[ev.Kind]))
	copy(bucket, m.buckets[ev.Kind])

	for _, h := range bucket {
		if !h.IsReady(ev.Ctx) {
			continue
		}
		err := h.Handle(ev.Ctx)
		if err != nil {
			lastErr = err
		}
		if !h.Requeue() || err != nil {
			deregister = append(deregister, h)
		}
	}

	for _, h := range deregister {
		m.Deregister(h)
	}
	return lastErr
}
