package timing

import (
	"fmt"
	"sync"

	"github.com/sarchlab/blockgen/hooking"
)

// TickEvent asks a ticking component to update its state.
type TickEvent struct {
	Time VTimeInCycle
}

// A Ticker updates its state once per tick. It returns true if it made
// progress and wants to be ticked again.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events for one handler, never more than one per
// tick.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	Engine    EventScheduler
	secondary bool

	scheduled    bool
	nextTickTime VTimeInCycle
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(handler Handler, engine EventScheduler) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
	}
}

// NewSecondaryTickScheduler creates a scheduler whose ticks run after all
// primary events of the same tick.
func NewSecondaryTickScheduler(
	handler Handler,
	engine EventScheduler,
) *TickScheduler {
	t := NewTickScheduler(handler, engine)
	t.secondary = true

	return t
}

// TickNow schedules a tick at the current time.
func (t *TickScheduler) TickNow() {
	t.schedule(t.CurrentTime())
}

// TickLater schedules a tick at the next game tick.
func (t *TickScheduler) TickLater() {
	t.schedule(t.CurrentTime() + 1)
}

func (t *TickScheduler) schedule(time VTimeInCycle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.scheduled && t.nextTickTime >= time {
		return
	}

	t.scheduled = true
	t.nextTickTime = time

	t.Engine.Schedule(ScheduledEvent{
		Event:       TickEvent{Time: time},
		Time:        time,
		Handler:     t.handler,
		IsSecondary: t.secondary,
	})
}

// CurrentTime returns the engine time.
func (t *TickScheduler) CurrentTime() VTimeInCycle {
	return t.Engine.CurrentTime()
}

// ComponentBase gives a component a name and hook support.
type ComponentBase struct {
	*hooking.HookableBase

	name string
}

// NewComponentBase creates a ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
	}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

// TickingComponent is a component that only needs a Tick function. It keeps
// ticking every game tick as long as the ticker makes progress.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a ticking component.
func NewTickingComponent(
	name string,
	engine EventScheduler,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// Handle runs the ticker on tick events.
func (c *TickingComponent) Handle(e any) error {
	if _, ok := e.(TickEvent); !ok {
		return fmt.Errorf("%s: unexpected event %T", c.Name(), e)
	}

	c.TickScheduler.lock.Lock()
	c.scheduled = false
	c.TickScheduler.lock.Unlock()

	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
