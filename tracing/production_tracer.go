// Package tracing records what producers do into a DataRecorder.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/blockgen/datarecording"
	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/producer"
)

// Table names written by a ProductionTracer.
const (
	ProductionTable = "production"
	BindingTable    = "binding"
	PushTable       = "push"
)

type productionEntry struct {
	Tick      uint64 `structs:"tick"`
	Producer  string `structs:"producer"`
	Recipe    string `structs:"recipe"`
	Item      string `structs:"item"`
	Requested int    `structs:"requested"`
	Actual    int    `structs:"actual"`
	Buffer    int    `structs:"buffer"`
}

type bindingEntry struct {
	Tick     uint64 `structs:"tick"`
	Producer string `structs:"producer"`
	Recipe   string `structs:"recipe"`
	Event    string `structs:"event"`
}

type pushEntry struct {
	Tick      uint64 `structs:"tick"`
	Producer  string `structs:"producer"`
	Item      string `structs:"item"`
	Pushed    int    `structs:"pushed"`
	Remaining int    `structs:"remaining"`
}

// NamedHookable is a hookable object with a name, such as a producer.
type NamedHookable interface {
	hooking.Hookable
	Name() string
}

// ProductionTracer is a hook that stores production attempts, binding changes,
// and output pushes.
type ProductionTracer struct {
	backend datarecording.DataRecorder
}

// NewProductionTracer creates a tracer and the tables it writes.
func NewProductionTracer(backend datarecording.DataRecorder) *ProductionTracer {
	backend.CreateTable(ProductionTable, productionEntry{})
	backend.CreateTable(BindingTable, bindingEntry{})
	backend.CreateTable(PushTable, pushEntry{})

	return &ProductionTracer{backend: backend}
}

// Attach lets the tracer record a producer. Attaching twice panics.
func (t *ProductionTracer) Attach(domain NamedHookable) {
	for _, h := range domain.Hooks() {
		if h == hooking.Hook(t) {
			panic(fmt.Sprintf("domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(t)))
		}
	}

	domain.AcceptHook(t)
}

// Func records the hook item.
func (t *ProductionTracer) Func(ctx hooking.HookCtx) {
	name := domainName(ctx.Domain)

	switch ctx.Pos {
	case producer.HookPosProduced:
		r := ctx.Item.(producer.ProductionRecord)
		t.backend.InsertData(ProductionTable, productionEntry{
			Tick:      uint64(r.Time),
			Producer:  name,
			Recipe:    string(r.Recipe),
			Item:      string(r.Item),
			Requested: r.Requested,
			Actual:    r.Actual,
			Buffer:    r.Buffer.Count,
		})
	case producer.HookPosOutputPushed:
		r := ctx.Item.(producer.PushRecord)
		t.backend.InsertData(PushTable, pushEntry{
			Tick:      uint64(r.Time),
			Producer:  name,
			Item:      string(r.Item),
			Pushed:    r.Pushed,
			Remaining: r.Remaining,
		})
	case producer.HookPosRecipeBound,
		producer.HookPosRecipeAssigned,
		producer.HookPosRecipeLost:
		r := ctx.Item.(producer.BindingRecord)
		t.backend.InsertData(BindingTable, bindingEntry{
			Tick:     uint64(r.Time),
			Producer: name,
			Recipe:   string(r.Recipe),
			Event:    producer.BindingEvent(ctx.Pos),
		})
	}
}

func domainName(d hooking.Hookable) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}

	return ""
}
