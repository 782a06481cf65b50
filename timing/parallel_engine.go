package timing

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/blockgen/hooking"
)

// A ParallelEngine handles all events of the same tick concurrently. Primary
// events of a tick still finish before the secondary events of that tick
// start. Handlers must be safe for concurrent use.
type ParallelEngine struct {
	*hooking.HookableBase

	timeLock sync.RWMutex
	now      VTimeInCycle

	queue          eventQueue
	secondaryQueue eventQueue
	maxGoroutines  int

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewParallelEngine creates a ParallelEngine that runs at most GOMAXPROCS
// handlers at a time.
func NewParallelEngine() *ParallelEngine {
	return &ParallelEngine{
		HookableBase:   hooking.NewHookableBase(),
		queue:          newScheduledEventQueue(),
		secondaryQueue: newScheduledEventQueue(),
		maxGoroutines:  runtime.GOMAXPROCS(0),
	}
}

func (e *ParallelEngine) readNow() VTimeInCycle {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.now
}

func (e *ParallelEngine) writeNow(t VTimeInCycle) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Schedule registers an event to be handled in the future.
func (e *ParallelEngine) Schedule(evt ScheduledEvent) {
	now := e.readNow()
	if evt.Time < now {
		panic(fmt.Sprintf(
			"timing: cannot schedule event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt.Event), evt.Time, now,
		))
	}

	eventCopy := evt
	if evt.IsSecondary {
		e.secondaryQueue.Push(&eventCopy)
		return
	}

	e.queue.Push(&eventCopy)
}

// Run processes rounds until no event is left.
func (e *ParallelEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		q, ok := e.nextQueue()
		if !ok {
			return nil
		}

		if err := e.runRound(q); err != nil {
			return err
		}
	}
}

// RunUntil processes all events scheduled at or before end. When it returns
// without error, the current time is end.
func (e *ParallelEngine) RunUntil(end VTimeInCycle) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		q, ok := e.nextQueue()
		if !ok || q.Peek().Time > end {
			break
		}

		if err := e.runRound(q); err != nil {
			return err
		}
	}

	if e.readNow() < end {
		e.writeNow(end)
	}

	return nil
}

// nextQueue picks the queue whose earliest event runs next. Primary events
// win ties.
func (e *ParallelEngine) nextQueue() (eventQueue, bool) {
	primary := e.queue.Peek()
	secondary := e.secondaryQueue.Peek()

	switch {
	case primary == nil && secondary == nil:
		return nil, false
	case primary == nil:
		return e.secondaryQueue, true
	case secondary == nil || primary.Time <= secondary.Time:
		return e.queue, true
	}

	return e.secondaryQueue, true
}

// runRound pops every event of the earliest tick in q and handles them
// concurrently. Events scheduled for the same tick while the round runs are
// handled in the next round.
func (e *ParallelEngine) runRound(q eventQueue) error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	now := q.Peek().Time
	if now < e.readNow() {
		panic(fmt.Sprintf(
			"timing: cannot run event in the past, @ %d, now %d",
			now, e.readNow()))
	}

	e.writeNow(now)

	var round []*ScheduledEvent
	for q.Len() > 0 && q.Peek().Time == now {
		round = append(round, q.Pop())
	}

	var g errgroup.Group
	g.SetLimit(e.maxGoroutines)

	for _, evt := range round {
		g.Go(func() error { return e.handle(evt) })
	}

	return g.Wait()
}

func (e *ParallelEngine) handle(evt *ScheduledEvent) error {
	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	if evt.Handler != nil {
		if err := evt.Handler.Handle(evt.Event); err != nil {
			return fmt.Errorf("timing: handling %s @ %d: %w",
				reflect.TypeOf(evt.Event), evt.Time, err)
		}
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}

// Pause prevents the engine from starting another round until Continue is
// called. Events of the running round still complete.
func (e *ParallelEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue resumes event processing after a Pause.
func (e *ParallelEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the tick of the running round.
func (e *ParallelEngine) CurrentTime() VTimeInCycle {
	return e.readNow()
}

var _ Engine = (*ParallelEngine)(nil)
