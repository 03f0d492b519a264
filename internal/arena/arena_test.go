package arena

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Arena", func() {
	var a *Arena

	BeforeEach(func() {
		a = New(300, WithRand(constRand(0.5)))
	})

	It("defaults the center to radius plus canvas padding", func() {
		Expect(a.Center()).To(Equal(Point{X: 350, Y: 350}))
		Expect(a.Contains(650, 350)).To(BeTrue())
		Expect(a.Contains(651, 350)).To(BeFalse())
	})

	It("normalizes coordinates against the radius", func() {
		nx, ny, nd := a.Normalize(500, 350)
		Expect(nx).To(BeNumerically("~", 0.5, 1e-12))
		Expect(ny).To(BeNumerically("~", 0, 1e-12))
		Expect(nd).To(BeNumerically("~", 0.5, 1e-12))
	})

	Describe("spawning and selection", func() {
		It("ignores spawns outside the arena", func() {
			t, ok := a.Spawn(10, 10)
			Expect(ok).To(BeFalse())
			Expect(t).To(BeNil())
			Expect(a.Len()).To(BeZero())
		})

		It("selects the newest top and alternates palettes", func() {
			first, _ := a.Spawn(300, 350)
			Expect(first.Selected).To(BeTrue())
			Expect(first.Palette).To(Equal(Palettes[0]))

			second, _ := a.Spawn(400, 350)
			Expect(second.Palette).To(Equal(Palettes[1]))
			Expect(a.Top(0).Selected).To(BeFalse())
			Expect(a.Selected()).To(Equal(a.Top(1)))
			Expect(a.Spawned()).To(Equal(2))
		})

		It("round-trips selection through two toggles", func() {
			a.Spawn(350, 350)
			orig := a.Top(0).Selected

			t1, hit1 := a.ToggleSelect(355, 350)
			t2, hit2 := a.ToggleSelect(355, 350)

			Expect(hit1).To(BeTrue())
			Expect(hit2).To(BeTrue())
			Expect(t1).To(BeIdenticalTo(t2))
			Expect(t2.Selected).To(Equal(orig))
		})

		It("toggles only the first of overlapping tops", func() {
			a.Spawn(350, 350)
			a.Spawn(356, 350)
			Expect(a.Top(0).Selected).To(BeFalse())
			Expect(a.Top(1).Selected).To(BeTrue())

			t, hit := a.ToggleSelect(353, 350)
			Expect(hit).To(BeTrue())
			Expect(t).To(BeIdenticalTo(a.Top(0)))
			Expect(a.Top(0).Selected).To(BeTrue())
			Expect(a.Top(1).Selected).To(BeTrue())
		})

		It("misses when no disk contains the point", func() {
			a.Spawn(350, 350)
			t, hit := a.ToggleSelect(450, 350)
			Expect(hit).To(BeFalse())
			Expect(t).To(BeNil())
		})

		It("toggles on a hit and spawns on a miss", func() {
			_, spawned, ok := a.Click(350, 350)
			Expect(ok).To(BeTrue())
			Expect(spawned).To(BeTrue())

			t, spawned, ok := a.Click(352, 350)
			Expect(ok).To(BeTrue())
			Expect(spawned).To(BeFalse())
			Expect(t.Selected).To(BeFalse())
			Expect(a.Len()).To(Equal(1))

			_, _, ok = a.Click(0, 0)
			Expect(ok).To(BeFalse())
		})

		It("returns nil for out-of-range indices", func() {
			Expect(a.Top(-1)).To(BeNil())
			Expect(a.Top(0)).To(BeNil())
		})
	})

	Describe("stepping", func() {
		It("keeps a motionless spinning top at the center", func() {
			t, _ := a.Spawn(350, 350)
			t.AngularVelocity = 0.3

			for i := 0; i < 100; i++ {
				a.Step()
			}

			Expect(a.Len()).To(Equal(1))
			Expect(a.Top(0).X).To(Equal(350.0))
			Expect(a.Top(0).Y).To(Equal(350.0))
			Expect(a.Frame()).To(Equal(100))
		})

		It("prunes resting tops in the same step", func() {
			t, _ := a.Spawn(350, 350)
			t.VX = 0.05
			t.AngularVelocity = 0.005

			res := a.Step()

			Expect(res.Removed).To(Equal(1))
			Expect(res.Live).To(BeZero())
			Expect(a.Len()).To(BeZero())
		})

		It("prunes tops that leave through the rim", func() {
			t, _ := a.Spawn(649, 350)
			t.X = 350 + 311
			t.VX = 5

			res := a.Step()

			Expect(res.Removed).To(Equal(1))
			Expect(a.Len()).To(BeZero())
		})

		It("fades a top's flash within seven frames", func() {
			t, _ := a.Spawn(350, 350)
			t.VX = 2
			t.AngularVelocity = 0.3
			t.CollisionFlash = 1

			for i := 0; i < 6; i++ {
				a.Step()
			}
			Expect(a.Top(0).CollisionFlash).To(BeNumerically(">", 0))
			Expect(a.FlashIntensity()).To(Equal(1.0))

			a.Step()
			Expect(a.Top(0).CollisionFlash).To(BeZero())
			Expect(a.FlashIntensity()).To(BeNumerically("~", 1-ArenaFlashDecay, 1e-12))
		})

		It("decays the arena flash to zero without flashing tops", func() {
			a.flash = 0.2
			Expect(a.Step().Flash).To(BeNumerically("~", 0.08, 1e-12))
			Expect(a.Step().Flash).To(BeZero())
		})

		It("bounces a head-on pair apart", func() {
			a.Spawn(338.5, 350)
			a.Spawn(361.5, 350)
			a.Top(0).VX = 1
			a.Top(1).VX = -1

			res := a.Step()

			Expect(res.Collisions).To(Equal(1))
			Expect(res.Flash).To(Equal(1.0))
			left, right := a.Top(0), a.Top(1)
			Expect(left.VX).To(BeNumerically("<", 0))
			Expect(right.VX).To(BeNumerically(">", 0))
			Expect(left.DistanceTo(right.X, right.Y)).To(BeNumerically(">", 23))
		})

		It("keeps a crowded arena bounded and never grows on its own", func() {
			crowd := New(300, WithRand(NewRand(42)))
			pos := rand.New(rand.NewSource(42))
			for crowd.Len() < 50 {
				r := pos.Float64() * 250
				th := pos.Float64() * 2 * math.Pi
				crowd.Spawn(350+r*math.Cos(th), 350+r*math.Sin(th))
			}

			live := crowd.Len()
			for step := 0; step < 500; step++ {
				res := crowd.Step()
				Expect(res.Live).To(BeNumerically("<=", live))
				live = res.Live
				for _, t := range crowd.Tops() {
					Expect(t.DistanceTo(350, 350)).To(BeNumerically("<=", 300+t.Radius()))
					Expect(t.Removed()).To(BeFalse())
				}
			}
		})

		It("is deterministic for a fixed seed", func() {
			run := func() []Top {
				ar := New(300, WithRand(NewRand(7)))
				for _, x := range []float64{200, 300, 340, 360, 500} {
					ar.Spawn(x, 350)
				}
				for i := 0; i < 200; i++ {
					ar.Step()
				}
				return ar.Tops()
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("snapshots", func() {
		It("copies render state without aliasing", func() {
			t, _ := a.Spawn(350, 350)
			t.VX = 3
			t.VY = 4

			snap := a.Snapshot()
			Expect(snap.Tops).To(HaveLen(1))
			Expect(snap.Tops[0].Speed).To(BeNumerically("~", 5, 1e-12))
			Expect(snap.Tops[0].DirX).To(BeNumerically("~", 0.6, 1e-12))
			Expect(snap.Tops[0].Selected).To(BeTrue())

			snap.Tops[0].X = 0
			Expect(a.Top(0).X).To(Equal(350.0))
		})
	})
})
