// Package timing drives the simulation clock. Time is counted in game ticks
// and every event runs to completion before the next one starts.
package timing

import "github.com/sarchlab/blockgen/hooking"

// VTimeInCycle is the simulation time counted in game ticks.
type VTimeInCycle uint64

// Handler processes events. Events are plain data and handlers use a type
// switch to tell them apart.
type Handler interface {
	Handle(event any) error
}

// TimeTeller exposes the current game tick.
type TimeTeller interface {
	CurrentTime() VTimeInCycle
}

// EventScheduler schedules events in the simulation timeline.
type EventScheduler interface {
	TimeTeller
	Schedule(event ScheduledEvent)
}

// An Engine runs scheduled events in time order.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run processes events until none is left.
	Run() error

	// RunUntil processes events up to and including the given tick.
	RunUntil(end VTimeInCycle) error

	// Pause blocks event processing until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}

// ScheduledEvent is the engine-facing wrapper of an event.
type ScheduledEvent struct {
	// Event is the payload delivered to the handler.
	Event any

	// Time is the tick at which the event is handled.
	Time VTimeInCycle

	// Handler processes the event.
	Handler Handler

	// IsSecondary events run after all primary events of the same tick.
	IsSecondary bool
}

// HookPosBeforeEvent is invoked before an event is handled.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is invoked after an event is handled.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}
