package ornament

import "sync"

// Status is the snapshot a Scene publishes at the end of every tick.
type Status struct {
	Tick       uint64
	Elapsed    float64
	Phase      Phase
	Gesture    Gesture
	Progress   float64
	Ring       RingState
	Core       CoreMarker
	Topper     float64
	PhotoScale float64
	Photos     []string
}

// Mailbox connects goroutines outside the tick loop to a Scene. Posted
// events are drained into the scene's injection queue at the start of each
// tick; Status returns the last published snapshot. It is the only type in
// this package safe for concurrent use.
type Mailbox struct {
	mu     sync.Mutex
	events []Event
	status Status
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Post queues evt for the next tick.
func (m *Mailbox) Post(evt Event) {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
}

// Status returns the last status published by the scene.
func (m *Mailbox) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.status
	st.Photos = append([]string(nil), m.status.Photos...)
	return st
}

// drain appends all queued events to dst and empties the mailbox.
func (m *Mailbox) drain(dst []Event) []Event {
	m.mu.Lock()
	dst = append(dst, m.events...)
	clear(m.events)
	m.events = m.events[:0]
	m.mu.Unlock()
	return dst
}

func (m *Mailbox) publish(st Status) {
	m.mu.Lock()
	m.status = st
	m.mu.Unlock()
}
