package producer

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/world"
)

var (
	fluidA  = ident.MustParse("test:fluid_a")
	blockB  = ident.MustParse("test:block_b")
	resultX = ident.MustParse("test:x")
	resultY = ident.MustParse("test:y")
	origin  = world.Pos{}
)

type hookRecorder struct {
	ctxs []hooking.HookCtx
}

func (r *hookRecorder) Func(ctx hooking.HookCtx) {
	r.ctxs = append(r.ctxs, ctx)
}

func (r *hookRecorder) at(pos *hooking.HookPos) []any {
	var items []any

	for _, ctx := range r.ctxs {
		if ctx.Pos == pos {
			items = append(items, ctx.Item)
		}
	}

	return items
}

var _ = Describe("Producer", func() {
	var (
		engine   *timing.SerialEngine
		registry *recipe.Registry
		w        *world.World
		nb       *world.Neighborhood
		builder  Builder
		hooks    *hookRecorder

		consumingX *recipe.Recipe
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		registry = recipe.NewRegistry()
		w = world.New(item.DefaultCatalog())
		nb = w.Neighborhood(origin)
		hooks = &hookRecorder{}

		consumingX = recipe.MakeBuilder().
			WithResult(resultX, 2).
			WithLeft(fluidA).
			WithRight(blockB).
			ConsumingLeft().
			MustBuild("test:consuming_x")
		Expect(registry.Register(consumingX)).To(Succeed())

		builder = MakeBuilder().
			WithEngine(engine).
			WithRecipes(registry).
			WithNeighbors(nb).
			WithCatalog(w.Catalog())
	})

	build := func() *Comp {
		c := builder.Build("Producer")
		c.AcceptHook(hooks)

		return c
	}

	Context("when producing", func() {
		It("should drain the consumed neighbor by the actual yield", func() {
			reservoir := w.PlaceReservoir(origin.Offset(world.North), fluidA, 10)
			w.SetBlock(origin.Offset(world.South), blockB)
			c := build()
			c.AssignRecipe(consumingX)

			c.Update(20)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultX, 2)))
			Expect(reservoir.Amount()).To(Equal(8))

			w.PlaceReservoir(origin.Offset(world.North), fluidA, 1)
			c.Update(40)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultX, 3)))
			Expect(w.BlockAt(origin.Offset(world.North))).To(Equal(ident.Air))

			records := hooks.at(HookPosProduced)
			Expect(records).To(HaveLen(2))
			Expect(records[1].(ProductionRecord).Requested).To(Equal(2))
			Expect(records[1].(ProductionRecord).Actual).To(Equal(1))
		})

		It("should only produce on multiples of the tick rate", func() {
			w.PlaceReservoir(origin.Offset(world.North), fluidA, 10)
			w.SetBlock(origin.Offset(world.South), blockB)
			c := build()
			c.AssignRecipe(consumingX)

			for now := timing.VTimeInCycle(1); now < 20; now++ {
				c.Update(now)
			}

			Expect(c.Buffer().IsEmpty()).To(BeTrue())
			Expect(hooks.at(HookPosProduced)).To(BeEmpty())
		})

		It("should drain the right side when the recipe consumes it", func() {
			west := w.PlaceReservoir(origin.Offset(world.West), ident.MustParse("lava"), 5)
			east := w.PlaceReservoir(origin.Offset(world.East), ident.MustParse("water"), 5)
			obsidian, _ := lookupDefault("blockgen:obsidian")
			Expect(registry.Register(obsidian)).To(Succeed())
			c := build()
			c.AssignRecipe(obsidian)

			c.Update(0)

			Expect(c.Buffer()).To(Equal(item.NewStack(ident.MustParse("obsidian"), 1)))
			Expect(west.Amount()).To(Equal(4))
			Expect(east.Amount()).To(Equal(5))
		})

		It("should never drain neighbors for inexhaustible recipes", func() {
			water := w.PlaceReservoir(origin.Offset(world.North), ident.MustParse("water"), 3)
			lava := w.PlaceReservoir(origin.Offset(world.South), ident.MustParse("lava"), 3)
			cobble, _ := lookupDefault("blockgen:cobblestone")
			Expect(registry.Register(cobble)).To(Succeed())
			c := build()
			c.AssignRecipe(cobble)

			for now := timing.VTimeInCycle(0); now <= 200; now += 20 {
				c.Update(now)
			}

			Expect(water.Amount()).To(Equal(3))
			Expect(lava.Amount()).To(Equal(3))
			Expect(c.Buffer()).To(Equal(
				item.NewStack(ident.MustParse("cobblestone"), 11)))
			for _, r := range hooks.at(HookPosProduced) {
				Expect(r.(ProductionRecord).Actual).To(Equal(1))
			}
		})

		It("should produce nothing when the consumed side is gone", func() {
			w.SetBlock(origin.Offset(world.South), blockB)
			c := build()
			c.AssignRecipe(consumingX)

			c.Update(20)

			Expect(c.Buffer().IsEmpty()).To(BeTrue())
			records := hooks.at(HookPosProduced)
			Expect(records).To(HaveLen(1))
			Expect(records[0].(ProductionRecord).Actual).To(Equal(0))
		})

		It("should cap the buffer at the max stack size", func() {
			w.PlaceInfiniteReservoir(origin.Offset(world.North), fluidA)
			w.SetBlock(origin.Offset(world.South), blockB)
			builder = builder.WithKind(BasicKind{Name: "test", Modifier: 2.5})
			c := build()
			c.AssignRecipe(consumingX)
			c.buffer = item.NewStack(resultX, item.DefaultMaxStackSize-1)

			c.Update(20)

			Expect(c.Buffer()).To(Equal(
				item.NewStack(resultX, item.DefaultMaxStackSize)))
		})

		It("should replace a buffer holding another item", func() {
			w.PlaceInfiniteReservoir(origin.Offset(world.North), fluidA)
			w.SetBlock(origin.Offset(world.South), blockB)
			c := build()
			c.AssignRecipe(consumingX)
			c.buffer = item.NewStack(resultY, 30)

			c.Update(20)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultX, 2)))
		})

		DescribeTable("should floor the yield after the kind modifier",
			func(kind Kind, speed float64, expected int) {
				r := recipe.MakeBuilder().
					WithResult(resultY, 3).
					WithSpeed(speed).
					MustBuild("test:y")
				Expect(registry.Register(r)).To(Succeed())
				builder = builder.WithKind(kind)
				c := build()
				c.AssignRecipe(r)

				c.Update(0)

				if expected == 0 {
					Expect(c.Buffer().IsEmpty()).To(BeTrue())
					return
				}
				Expect(c.Buffer()).To(Equal(item.NewStack(resultY, expected)))
			},
			Entry("stone at full speed", StoneKind, 1.0, 3),
			Entry("stone at a quarter speed", StoneKind, 0.25, 0),
			Entry("iron at three quarter speed", IronKind, 0.75, 4),
			Entry("gold at three quarter speed", GoldKind, 0.75, 9),
			Entry("netherite at a tenth speed", NetheriteKind, 0.1, 4),
		)
	})

	Context("when querying neighbors", func() {
		var (
			mockCtrl  *gomock.Controller
			neighbors *MockNeighborAccessor
			both      *recipe.Recipe
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			neighbors = NewMockNeighborAccessor(mockCtrl)

			both = recipe.MakeBuilder().
				WithResult(resultX, 4).
				WithLeft(fluidA).
				WithRight(blockB).
				ConsumingLeft().
				ConsumingRight().
				MustBuild("test:both")
			Expect(registry.Register(both)).To(Succeed())

			neighbors.EXPECT().
				StateAt(gomock.Any()).
				DoAndReturn(func(dir world.Direction) ident.ID {
					switch dir {
					case world.West:
						return fluidA
					case world.East:
						return blockB
					}
					return ident.Air
				}).
				AnyTimes()

			builder = builder.WithNeighbors(neighbors)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should consume the minimum of both sides", func() {
			neighbors.EXPECT().QueryAvailable(world.West, 4).Return(4)
			neighbors.EXPECT().QueryAvailable(world.East, 4).Return(3)
			neighbors.EXPECT().Consume(world.West, 3)
			neighbors.EXPECT().Consume(world.East, 3)
			c := build()
			c.AssignRecipe(both)

			c.Update(0)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultX, 3)))
		})

		It("should not consume when a side has nothing", func() {
			neighbors.EXPECT().QueryAvailable(world.West, 4).Return(4)
			neighbors.EXPECT().QueryAvailable(world.East, 4).Return(0)
			c := build()
			c.AssignRecipe(both)

			c.Update(0)

			Expect(c.Buffer().IsEmpty()).To(BeTrue())
		})

		It("should ignore a neighbor that reports more than requested", func() {
			neighbors.EXPECT().QueryAvailable(world.West, 4).Return(100)
			neighbors.EXPECT().QueryAvailable(world.East, 4).Return(100)
			neighbors.EXPECT().Consume(world.West, 4)
			neighbors.EXPECT().Consume(world.East, 4)
			c := build()
			c.AssignRecipe(both)

			c.Update(0)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultX, 4)))
		})
	})

	Context("when pushing output", func() {
		var (
			mockCtrl *gomock.Controller
			sink     *MockOutputSink
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			sink = NewMockOutputSink(mockCtrl)
			builder = builder.WithOutput(sink)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should keep what the output rejects", func() {
			c := build()
			c.buffer = item.NewStack(resultY, 10)
			sink.EXPECT().
				Insert(item.NewStack(resultY, 10), false).
				Return(item.NewStack(resultY, 4))

			c.Update(20)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultY, 4)))
			pushes := hooks.at(HookPosOutputPushed)
			Expect(pushes).To(ConsistOf(PushRecord{
				Time:      20,
				Item:      resultY,
				Pushed:    6,
				Remaining: 4,
			}))
		})

		It("should not report when nothing is accepted", func() {
			c := build()
			c.buffer = item.NewStack(resultY, 10)
			sink.EXPECT().
				Insert(gomock.Any(), false).
				Return(item.NewStack(resultY, 10))

			c.Update(20)

			Expect(c.Buffer()).To(Equal(item.NewStack(resultY, 10)))
			Expect(hooks.at(HookPosOutputPushed)).To(BeEmpty())
		})

		It("should not call the output with an empty buffer", func() {
			c := build()

			c.Update(20)
		})

		It("should push while unbound", func() {
			c := build()
			c.buffer = item.NewStack(resultY, 2)
			sink.EXPECT().
				Insert(item.NewStack(resultY, 2), false).
				Return(item.Empty)

			c.Update(40)

			Expect(c.Buffer().IsEmpty()).To(BeTrue())
			Expect(c.Binding()).To(Equal(BindingUnbound))
		})
	})

	Context("when binding recipes", func() {
		It("should rescan only on the rescan interval", func() {
			w.PlaceReservoir(origin.Offset(world.West), fluidA, 10)
			w.SetBlock(origin.Offset(world.East), blockB)
			c := build()

			for now := timing.VTimeInCycle(1); now < DefaultRescanInterval; now++ {
				c.Update(now)
			}
			Expect(c.Binding()).To(Equal(BindingUnbound))

			c.Update(DefaultRescanInterval)

			Expect(c.Binding()).To(Equal(BindingBound))
			Expect(c.BoundRecipeID()).To(Equal(consumingX.ID()))
			Expect(hooks.at(HookPosRecipeBound)).To(ConsistOf(BindingRecord{
				Time:   DefaultRescanInterval,
				Recipe: consumingX.ID(),
			}))
		})

		It("should match a mirrored pair", func() {
			w.SetBlock(origin.Offset(world.North), blockB)
			w.PlaceReservoir(origin.Offset(world.South), fluidA, 10)
			c := build()

			c.Update(0)

			Expect(c.BoundRecipeID()).To(Equal(consumingX.ID()))
		})

		It("should stay unbound without a matching pair", func() {
			w.PlaceReservoir(origin.Offset(world.North), fluidA, 10)
			w.SetBlock(origin.Offset(world.East), blockB)
			c := build()

			c.Update(0)

			Expect(c.Binding()).To(Equal(BindingUnbound))
			Expect(hooks.ctxs).To(BeEmpty())
		})

		It("should not rescan while bound", func() {
			c := build()
			c.AssignRecipe(consumingX)
			w.SetBlock(origin.Offset(world.North), ident.MustParse("water"))
			w.SetBlock(origin.Offset(world.South), ident.MustParse("lava"))
			Expect(registry.Reload(append(recipe.Defaults(), consumingX))).
				To(Succeed())

			c.Update(DefaultRescanInterval)

			Expect(c.BoundRecipeID()).To(Equal(consumingX.ID()))
		})

		It("should prefer recipes with a modifier", func() {
			Expect(registry.Reload(recipe.Defaults())).To(Succeed())
			w.SetBlock(origin.Offset(world.Down), ident.MustParse("stone"))
			w.SetBlock(origin.Offset(world.West), ident.MustParse("lava"))
			w.SetBlock(origin.Offset(world.East), ident.MustParse("water"))
			c := build()

			c.Update(0)

			Expect(c.BoundRecipeID()).To(Equal(ident.ID("blockgen:stone")))
			result, ok := c.CurrentResult()
			Expect(ok).To(BeTrue())
			Expect(result).To(Equal(item.NewStack(ident.MustParse("stone"), 1)))
		})

		It("should notify when a recipe is assigned", func() {
			c := build()

			c.AssignRecipe(consumingX)
			c.AssignRecipe(nil)

			Expect(hooks.at(HookPosRecipeAssigned)).To(Equal([]any{
				BindingRecord{Recipe: consumingX.ID()},
				BindingRecord{},
			}))
			Expect(c.HasBoundRecipe()).To(BeFalse())
		})

		It("should unbind when the bound recipe leaves the registry", func() {
			c := build()
			c.AssignRecipe(consumingX)
			Expect(registry.Reload(recipe.Defaults())).To(Succeed())

			c.Update(20)

			Expect(c.Binding()).To(Equal(BindingUnbound))
			Expect(hooks.at(HookPosRecipeLost)).To(ConsistOf(BindingRecord{
				Time:   20,
				Recipe: consumingX.ID(),
			}))
			_, ok := c.CurrentResult()
			Expect(ok).To(BeFalse())
		})
	})

	Context("when saving and loading", func() {
		It("should save the bound recipe", func() {
			c := build()
			c.AssignRecipe(consumingX)

			Expect(c.Save()).To(Equal(Snapshot{Recipe: "test:consuming_x"}))
		})

		It("should save nothing while unbound", func() {
			c := build()

			Expect(c.Save()).To(Equal(Snapshot{}))
		})

		It("should resolve a loaded recipe on the next tick", func() {
			c := build()
			c.Load(Snapshot{Recipe: "test:consuming_x"})

			Expect(c.Binding()).To(Equal(BindingPending))
			Expect(c.Save()).To(Equal(Snapshot{Recipe: "test:consuming_x"}))

			c.Update(7)

			Expect(c.Binding()).To(Equal(BindingBound))
			Expect(hooks.at(HookPosRecipeBound)).To(ConsistOf(BindingRecord{
				Time:   7,
				Recipe: consumingX.ID(),
			}))
		})

		It("should report the binding and the buffer together", func() {
			c := build()

			Expect(c.Status()).To(Equal(Status{Binding: BindingUnbound}))

			c.Load(Snapshot{Recipe: "test:consuming_x"})
			Expect(c.Status().Binding).To(Equal(BindingPending))

			c.Update(7)

			Expect(c.Status()).To(Equal(Status{
				Binding: BindingBound,
				Recipe:  consumingX.ID(),
				Buffer:  c.Buffer(),
			}))
		})

		It("should drop a loaded recipe that does not exist", func() {
			c := build()
			c.Load(Snapshot{Recipe: "test:missing"})

			c.Update(7)

			Expect(c.Binding()).To(Equal(BindingUnbound))
			Expect(hooks.at(HookPosRecipeLost)).To(HaveLen(1))
		})

		It("should stay unbound after loading a malformed id", func() {
			c := build()
			c.AssignRecipe(consumingX)

			c.Load(Snapshot{Recipe: "Not A Recipe!"})

			Expect(c.Binding()).To(Equal(BindingUnbound))
		})

		It("should stay unbound after loading an empty snapshot", func() {
			c := build()
			c.AssignRecipe(consumingX)

			c.Load(Snapshot{})

			Expect(c.Binding()).To(Equal(BindingUnbound))
		})
	})

	Context("when driven by the engine", func() {
		It("should bind, produce, and fill the container above", func() {
			w.PlaceInfiniteReservoir(origin.Offset(world.North), fluidA)
			w.SetBlock(origin.Offset(world.South), blockB)
			chest := w.PlaceContainer(origin.Offset(world.Up),
				ident.MustParse("chest"), 27)
			builder = builder.WithOutput(nb.Output(world.Up))
			c := build()
			c.TickNow()

			Expect(engine.RunUntil(60)).To(Succeed())

			Expect(c.Binding()).To(Equal(BindingBound))
			Expect(chest.Count(resultX)).To(Equal(6))
			Expect(c.Buffer().IsEmpty()).To(BeTrue())
		})
	})

	It("should panic when built without neighbors", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithRecipes(registry).
				Build("Producer")
		}).To(Panic())
	})
})

func lookupDefault(id ident.ID) (*recipe.Recipe, bool) {
	for _, r := range recipe.Defaults() {
		if r.ID() == id {
			return r, true
		}
	}

	return nil, false
}

var _ = Describe("BindingEvent", func() {
	It("should name binding positions", func() {
		Expect(BindingEvent(HookPosRecipeBound)).To(Equal("bound"))
		Expect(BindingEvent(HookPosRecipeAssigned)).To(Equal("assigned"))
		Expect(BindingEvent(HookPosRecipeLost)).To(Equal("lost"))
		Expect(BindingEvent(HookPosProduced)).To(Equal("Produced"))
	})
})
