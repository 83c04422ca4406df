package scheduler

// Event is a notification emitted by the schedulers. Events are published
// synchronously, in the order their triggering ticks occur.
type Event interface {
	event()
}

// ProgressTick reports the seconds left in the current work countdown.
type ProgressTick struct {
	Remaining int
}

// BreakTick reports the seconds left in the current break countdown.
type BreakTick struct {
	Remaining int
}

// BreakStarted announces a new break. Forced breaks cannot be skipped.
type BreakStarted struct {
	Duration int // seconds
	Forced   bool
	Type     string
}

// BreakEnded announces the end of a break. Completed is false when the
// break was skipped before its countdown finished.
type BreakEnded struct {
	Completed bool
}

// ReminderFired announces a posture reminder. A new firing supersedes any
// reminder still on screen.
type ReminderFired struct {
	Message string
}

func (ProgressTick) event()  {}
func (BreakTick) event()     {}
func (BreakStarted) event()  {}
func (BreakEnded) event()    {}
func (ReminderFired) event() {}

// Bus fans events out to subscribers, in registration order, on the
// caller's goroutine.
type Bus struct {
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener for all events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subs = append(b.subs, fn)
}

func (b *Bus) publish(e Event) {
	for _, fn := range b.subs {
		fn(e)
	}
}

// Collector is a Bus subscriber that queues events for later draining.
// The TUI ticks the schedulers, then drains whatever they emitted.
type Collector struct {
	events []Event
}

func NewCollector(b *Bus) *Collector {
	c := &Collector{}
	b.Subscribe(c.collect)
	return c
}

func (c *Collector) collect(e Event) {
	c.events = append(c.events, e)
}

// Drain returns queued events in emission order and clears the queue.
func (c *Collector) Drain() []Event {
	out := c.events
	c.events = nil
	return out
}
