package simulation

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/blockgen/config"
	"github.com/sarchlab/blockgen/datarecording"
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/producer"
	"github.com/sarchlab/blockgen/tracing"
	"github.com/sarchlab/blockgen/world"
)

var _ = Describe("Simulation", func() {
	var (
		simulation *Simulation
	)

	BeforeEach(func() {
		var err error
		simulation, err = MakeBuilder().WithoutMonitoring().Build()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(simulation.Terminate()).To(Succeed())
	})

	chestCount := func(pos world.Pos, id string) int {
		c, ok := simulation.World().ContainerAt(pos.Offset(world.Up))
		Expect(ok).To(BeTrue())

		return c.Count(ident.MustParse(id))
	}

	It("should register producers by name", func() {
		producers := Demo(simulation)

		Expect(simulation.Producers()).To(Equal(producers))
		p, ok := simulation.Producer("basalt")
		Expect(ok).To(BeTrue())
		Expect(p).To(BeIdenticalTo(producers[1]))

		_, ok = simulation.Producer("nobody")
		Expect(ok).To(BeFalse())
	})

	It("should panic on a duplicated producer name", func() {
		simulation.NewProducer("gen", world.Pos{}, producer.StoneKind)

		Expect(func() {
			simulation.NewProducer("gen", world.Pos{X: 5}, producer.StoneKind)
		}).To(Panic())
	})

	It("should run the demo", func() {
		Demo(simulation)

		Expect(simulation.RunFor(200)).To(Succeed())

		Expect(simulation.Engine().CurrentTime()).To(BeEquivalentTo(200))
		Expect(chestCount(DemoCobblePos, "cobblestone")).To(Equal(10))
		Expect(chestCount(DemoBasaltPos, "basalt")).To(Equal(DemoLavaAmount))
		Expect(simulation.World().BlockAt(DemoBasaltPos.Offset(world.North))).
			To(Equal(ident.Air))

		sand, _ := simulation.Producer("sand")
		Expect(sand.Buffer()).To(Equal(item.NewStack(ident.MustParse("sand"), 40)))

		Expect(simulation.RunFor(200)).To(Succeed())

		Expect(chestCount(DemoBasaltPos, "basalt")).To(Equal(DemoLavaAmount))
		Expect(sand.Buffer().Count).To(Equal(item.DefaultMaxStackSize))
		for _, p := range simulation.Producers() {
			Expect(p.Binding()).To(Equal(producer.BindingBound))
		}
	})

	It("should use the configured rates", func() {
		cfg := config.Default()
		cfg.TickRate = 5
		cfg.RescanInterval = 7
		fast, err := MakeBuilder().WithConfig(cfg).WithoutMonitoring().Build()
		Expect(err).ToNot(HaveOccurred())
		defer fast.Terminate()

		fast.World().SetBlock(world.Pos{X: 1}, ident.MustParse("water"))
		fast.World().SetBlock(world.Pos{X: -1}, ident.MustParse("lava"))
		fast.World().PlaceContainer(world.Pos{Y: 1}, ident.MustParse("chest"), 1)
		p := fast.NewProducer("gen", world.Pos{}, producer.StoneKind)

		Expect(fast.RunFor(20)).To(Succeed())

		c, _ := fast.World().ContainerAt(world.Pos{Y: 1})
		Expect(p.Binding()).To(Equal(producer.BindingBound))
		Expect(c.Count(ident.MustParse("cobblestone"))).To(Equal(4))
	})

	It("should reject an invalid configuration", func() {
		cfg := config.Default()
		cfg.TickRate = 0

		_, err := MakeBuilder().WithConfig(cfg).Build()

		Expect(err).To(MatchError(config.ErrInvalid))
	})

	Context("when saving and loading state", func() {
		It("should restore the bindings", func() {
			Demo(simulation)
			Expect(simulation.RunFor(1)).To(Succeed())

			var buf bytes.Buffer
			Expect(simulation.SaveState(&buf)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(`"blockgen:basalt"`))

			restored, err := MakeBuilder().WithoutMonitoring().Build()
			Expect(err).ToNot(HaveOccurred())
			defer restored.Terminate()

			Demo(restored)

			Expect(restored.LoadState(&buf)).To(Succeed())
			for _, p := range restored.Producers() {
				Expect(p.Binding()).To(Equal(producer.BindingPending))
			}

			Expect(restored.RunFor(1)).To(Succeed())
			for _, p := range restored.Producers() {
				orig, _ := simulation.Producer(p.Name())
				Expect(p.BoundRecipeID()).To(Equal(orig.BoundRecipeID()))
			}
		})

		It("should skip unknown producers", func() {
			simulation.NewProducer("gen", world.Pos{}, producer.StoneKind)

			err := simulation.LoadState(strings.NewReader(
				`{"ghost": {"recipe": "blockgen:stone"}, "gen": {"recipe": "blockgen:sand"}}`))

			Expect(err).ToNot(HaveOccurred())
			p, _ := simulation.Producer("gen")
			Expect(p.Binding()).To(Equal(producer.BindingPending))
		})

		It("should reject malformed state", func() {
			err := simulation.LoadState(strings.NewReader(`[1, 2`))

			Expect(err).To(HaveOccurred())
		})
	})

	Context("when recording", func() {
		It("should write production rows", func() {
			path := filepath.Join(GinkgoT().TempDir(), "run")
			recorded, err := MakeBuilder().
				WithoutMonitoring().
				WithOutputFileName(path).
				Build()
			Expect(err).ToNot(HaveOccurred())

			Demo(recorded)
			Expect(recorded.RunFor(200)).To(Succeed())
			Expect(recorded.Terminate()).To(Succeed())

			reader, err := datarecording.NewReader(path + ".sqlite3")
			Expect(err).ToNot(HaveOccurred())
			defer reader.Close()

			reader.MapTable(tracing.ProductionTable, struct {
				Producer string `structs:"producer"`
				Actual   int    `structs:"actual"`
			}{})

			_, total, err := reader.Query(context.Background(),
				tracing.ProductionTable, datarecording.QueryParams{
					Where: "producer = ?",
					Args:  []any{"cobble"},
				})
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(10))
		})
	})

	Context("with the parallel engine", func() {
		var parallel *Simulation

		BeforeEach(func() {
			var err error
			parallel, err = MakeBuilder().
				WithParallelEngine().
				WithoutMonitoring().
				Build()
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() {
			Expect(parallel.Terminate()).To(Succeed())
		})

		It("should run the demo with the same result", func() {
			Demo(parallel)

			Expect(parallel.RunFor(200)).To(Succeed())

			c, _ := parallel.World().ContainerAt(DemoBasaltPos.Offset(world.Up))
			Expect(c.Count(ident.MustParse("basalt"))).To(Equal(DemoLavaAmount))
			c, _ = parallel.World().ContainerAt(DemoCobblePos.Offset(world.Up))
			Expect(c.Count(ident.MustParse("cobblestone"))).To(Equal(10))
		})

		It("should not over-drain a shared reservoir", func() {
			const amount = 30

			w := parallel.World()
			shared := world.Pos{X: 1}
			w.PlaceReservoir(shared, ident.MustParse("lava"), amount)

			left := world.Pos{X: 0}
			right := world.Pos{X: 2}
			for _, pos := range []world.Pos{left, right} {
				w.SetBlock(pos.Offset(world.Down), ident.MustParse("soul_soil"))
				w.PlaceContainer(pos.Offset(world.Up), ident.MustParse("chest"), 27)
			}
			w.SetBlock(left.Offset(world.West), ident.MustParse("blue_ice"))
			w.SetBlock(right.Offset(world.East), ident.MustParse("blue_ice"))

			parallel.NewProducer("left", left, producer.GoldKind)
			parallel.NewProducer("right", right, producer.GoldKind)

			Expect(parallel.RunFor(200)).To(Succeed())

			basalt := ident.MustParse("basalt")
			total := 0
			for _, pos := range []world.Pos{left, right} {
				c, ok := w.ContainerAt(pos.Offset(world.Up))
				Expect(ok).To(BeTrue())
				total += c.Count(basalt)
			}

			Expect(total).To(Equal(amount))
			Expect(w.BlockAt(shared)).To(Equal(ident.Air))
		})
	})

	Context("when monitoring", func() {
		It("should register producers with the monitor", func() {
			cfg := config.Default()
			cfg.Monitor.Enabled = true
			monitored, err := MakeBuilder().
				WithConfig(cfg).
				WithoutMonitorServer().
				Build()
			Expect(err).ToNot(HaveOccurred())
			defer monitored.Terminate()

			Demo(monitored)
			Expect(monitored.RunFor(40)).To(Succeed())

			Expect(monitored.Monitor()).ToNot(BeNil())
			Expect(monitored.MonitorURL()).To(BeEmpty())
		})
	})
})
