package simulation

import (
	"sync"

	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/monitoring"
	"github.com/sarchlab/blockgen/timing"
)

// progressHook moves the progress bar of the current run as the engine time
// advances.
type progressHook struct {
	mu    sync.Mutex
	bar   *monitoring.ProgressBar
	start timing.VTimeInCycle
}

func (h *progressHook) track(bar *monitoring.ProgressBar, start timing.VTimeInCycle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.bar = bar
	h.start = start
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bar == nil {
		return
	}

	evt := ctx.Item.(*timing.ScheduledEvent)
	if evt.Time >= h.start {
		h.bar.SetFinished(uint64(evt.Time - h.start))
	}
}
