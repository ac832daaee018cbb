package ornament

// EventKind identifies an input event.
type EventKind uint8

const (
	EventGesture EventKind = iota
	EventRawGesture
	EventHand
	EventPointer
	EventPointerLost
	EventToggle
	EventPhotos
)

var eventKindNames = [...]string{"gesture", "raw", "hand", "pointer", "pointer-lost", "toggle", "photos"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is a single queued input. Only the fields relevant to Kind are read.
type Event struct {
	Kind    EventKind
	Gesture Gesture
	Raw     RawGesture
	X, Y    float64
	Photos  []string
}

// InjectGesture queues an already-debounced gesture. The event is consumed
// on a following Update.
func (s *Scene) InjectGesture(g Gesture) {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventGesture, Gesture: g})
}

// InjectRawGesture queues an unsmoothed recognizer sample; it reaches the
// phase machine only after passing the gesture debouncer.
func (s *Scene) InjectRawGesture(r RawGesture) {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventRawGesture, Raw: r})
}

// InjectHand queues normalized hand coordinates in [0, 1]. Pointer and hand
// events never wait behind other events: every one queued is applied on the
// next Update, the last one winning.
func (s *Scene) InjectHand(x, y float64) {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventHand, X: x, Y: y})
}

// InjectPointer queues a pointer position in NDC.
func (s *Scene) InjectPointer(x, y float64) {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventPointer, X: x, Y: y})
}

// InjectPointerLost queues the pointer leaving the viewport.
func (s *Scene) InjectPointerLost() {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventPointerLost})
}

// InjectToggle queues a manual phase toggle.
func (s *Scene) InjectToggle() {
	s.injectQueue = append(s.injectQueue, Event{Kind: EventToggle})
}

// InjectPhotos queues an upload of user photo URLs.
func (s *Scene) InjectPhotos(urls ...string) {
	cp := append([]string(nil), urls...)
	s.injectQueue = append(s.injectQueue, Event{Kind: EventPhotos, Photos: cp})
}

// InjectRawGestures queues a run of identical recognizer samples, one per
// tick.
func (s *Scene) InjectRawGestures(r RawGesture, ticks int) {
	for i := 0; i < ticks; i++ {
		s.InjectRawGesture(r)
	}
}

// Pending returns the number of queued events not yet consumed.
func (s *Scene) Pending() int {
	return len(s.injectQueue)
}

// continuous reports whether events of kind k carry a latest value that
// supersedes earlier ones. Hosts report these every frame.
func (k EventKind) continuous() bool {
	return k == EventHand || k == EventPointer || k == EventPointerLost
}

// processInjected applies every queued pointer and hand event and the first
// discrete event, in queue order. Later discrete events stay queued, one per
// tick. Returns true if an event was consumed.
func (s *Scene) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	kept := s.injectQueue[:0]
	popped := false
	for _, evt := range s.injectQueue {
		switch {
		case evt.Kind.continuous():
			s.applyEvent(evt)
		case !popped:
			popped = true
			s.applyEvent(evt)
		default:
			kept = append(kept, evt)
		}
	}
	clear(s.injectQueue[len(kept):])
	s.injectQueue = kept
	return true
}

func (s *Scene) applyEvent(evt Event) {
	switch evt.Kind {
	case EventGesture:
		s.input.setGesture(evt.Gesture, s.elapsed)
	case EventRawGesture:
		s.input.pushRaw(evt.Raw, s.elapsed)
	case EventHand:
		s.input.setHand(evt.X, evt.Y, s.elapsed)
	case EventPointer:
		s.input.setPointer(Vec2{X: evt.X, Y: evt.Y})
	case EventPointerLost:
		s.input.clearPointer()
	case EventToggle:
		s.toggleRequested = true
	case EventPhotos:
		s.addPhotos(evt.Photos)
	}
}
