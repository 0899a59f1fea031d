package rig_test

import (
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/ship"
	"github.com/san-kum/rigsim/internal/xform"
)

const tol = 1e-9

var quiet = rig.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func rigSpec(left, right rig.Variant) ship.RigSpec {
	return ship.RigSpec{
		Prefix:    "main",
		Base:      mgl64.Vec3{0, 0, 10},
		HalfWidth: 8,
		Drop:      7,
		Aft:       6,
		Variant:   [2]rig.Variant{left, right},
	}
}

func skeletonFor(left, right rig.Variant) *scene.Skeleton {
	skel, err := ship.RigSkeleton("brig", rigSpec(left, right))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return skel
}

func build(skel *scene.Skeleton) (*scene.Model, *rig.Armature, error) {
	model, err := scene.NewModel(scene.NewRoot("render"), skel)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	model.Root().SetPos(nil, mgl64.Vec3{512, 512, 25})
	arm, err := rig.New("main", model, model.Root(), quiet)
	return model, arm, err
}

func newArmature(left, right rig.Variant) *rig.Armature {
	_, arm, err := build(skeletonFor(left, right))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return arm
}

func without(skel *scene.Skeleton, joint string) *scene.Skeleton {
	out := &scene.Skeleton{Name: skel.Name}
	for _, j := range skel.Joints {
		if j.Name != joint {
			out.Joints = append(out.Joints, j)
		}
	}
	return out
}

func bone(arm *rig.Armature, r rig.Role) *rig.BoneControl {
	b, ok := arm.Bone(r).Get()
	ExpectWithOffset(1, ok).To(BeTrue(), "bone %s absent", r)
	return b
}

func expectNear(got, want mgl64.Vec3) {
	ExpectWithOffset(1, xform.VecNear(got, want, tol)).To(BeTrue(), "got %v, want %v", got, want)
}

func expectSamePoses(got, want []rig.Pose) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))
	for i := range want {
		ExpectWithOffset(1, got[i].Bone).To(Equal(want[i].Bone))
		ExpectWithOffset(1, xform.VecNear(got[i].Pos, want[i].Pos, tol)).To(BeTrue(), "%s pos", want[i].Bone)
		ExpectWithOffset(1, xform.VecNear(got[i].HPR, want[i].HPR, 1e-7)).To(BeTrue(), "%s hpr", want[i].Bone)
		ExpectWithOffset(1, xform.VecNear(got[i].Scale, want[i].Scale, tol)).To(BeTrue(), "%s scale", want[i].Bone)
	}
}

// steer moves the control off its rest pose on every channel.
func steer(arm *rig.Armature) {
	ctl := arm.Control()
	ctl.SetLocalRot(mgl64.Vec3{25, -8, 12}, rig.All)
	ctl.SetLocalPos(mgl64.Vec3{0.3, -0.2, 0.5})
	ctl.SetLocalScale(mgl64.Vec3{1.2, 1.2, 1.2}, rig.All)
}

var _ = Describe("Armature", func() {
	Describe("construction", func() {
		DescribeTable("binds every brace variant at rest",
			func(v rig.Variant) {
				arm := newArmature(v, v)
				Expect(arm.Dirty()).To(BeFalse())
				Expect(arm.Variant(rig.Left)).To(Equal(v))
				Expect(arm.Variant(rig.Right)).To(Equal(v))

				for r := rig.Role(0); r < rig.NumRoles; r++ {
					b, ok := arm.Bone(r).Get()
					if !ok {
						continue
					}
					expectNear(b.LocalPos(), mgl64.Vec3{})
					expectNear(b.LocalRot(), mgl64.Vec3{})
					expectNear(b.LocalScale(), mgl64.Vec3{1, 1, 1})
				}
			},
			Entry("direct", rig.Direct),
			Entry("two-tier", rig.TwoTier),
			Entry("pole", rig.Pole),
		)

		It("mixes variants per side", func() {
			arm := newArmature(rig.Pole, rig.Direct)
			Expect(arm.Variant(rig.Left)).To(Equal(rig.Pole))
			Expect(arm.Variant(rig.Right)).To(Equal(rig.Direct))
			Expect(arm.Bone(rig.BracePoleR).Present()).To(BeFalse())
		})

		It("leaves optional bones absent", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			for _, r := range []rig.Role{rig.BracePoleL, rig.BraceLowerL, rig.BraceLowerTopR, rig.BraceTopControlL} {
				Expect(arm.Bone(r).Present()).To(BeFalse(), "%s", r)
				Expect(arm.Bone(r)).To(Equal(rig.Absent))
			}
		})

		It("rejects a rig without a required bone", func() {
			skel := without(skeletonFor(rig.Direct, rig.Direct), "main-yard-frame-tail-r")
			_, _, err := build(skel)
			Expect(err).To(MatchError(rig.ErrMissingRequiredBone))
			Expect(err.Error()).To(ContainSubstring("main-yard-frame-tail-r"))
		})

		It("rejects a pole side without its lower brace", func() {
			skel := without(skeletonFor(rig.Pole, rig.Pole), "main-brace-lower-top-l")
			_, _, err := build(skel)
			Expect(err).To(MatchError(rig.ErrInconsistentVariant))
		})

		It("rejects a direct side without its brace control", func() {
			skel := without(skeletonFor(rig.Direct, rig.TwoTier), "main-brace-control-r")
			_, _, err := build(skel)
			Expect(err).To(MatchError(rig.ErrInconsistentVariant))
		})

		It("parents proxies like the role table", func() {
			arm := newArmature(rig.TwoTier, rig.TwoTier)
			Expect(bone(arm, rig.YardL).Proxy().Parent()).To(BeIdenticalTo(bone(arm, rig.Band).Proxy()))
			Expect(bone(arm, rig.BraceLowerR).Proxy().Parent()).To(BeIdenticalTo(bone(arm, rig.BraceUpperR).Proxy()))
			Expect(bone(arm, rig.YardFrameTailL).Origin().Parent()).To(BeIdenticalTo(bone(arm, rig.YardFrameL).Origin()))
		})
	})

	Describe("dirty flag", func() {
		var arm *rig.Armature

		BeforeEach(func() {
			arm = newArmature(rig.TwoTier, rig.Direct)
		})

		It("skips evaluation while clean", func() {
			Expect(arm.Update()).To(BeFalse())
			Expect(arm.Passes()).To(Equal(0))
		})

		DescribeTable("is set by every setter",
			func(set func(c *rig.BoneControl)) {
				set(arm.Control())
				Expect(arm.Dirty()).To(BeTrue())
				Expect(arm.Update()).To(BeTrue())
				Expect(arm.Dirty()).To(BeFalse())
				Expect(arm.Update()).To(BeFalse())
				Expect(arm.Passes()).To(Equal(1))
			},
			Entry("local pos", func(c *rig.BoneControl) { c.SetLocalPos(mgl64.Vec3{0, 0, 1}) }),
			Entry("local rot", func(c *rig.BoneControl) { c.SetLocalRot(mgl64.Vec3{5, 0, 0}, rig.All) }),
			Entry("local scale", func(c *rig.BoneControl) { c.SetLocalScale(mgl64.Vec3{2, 2, 2}, rig.All) }),
			Entry("global pos", func(c *rig.BoneControl) { c.SetGlobalPos(c.GlobalPos()) }),
			Entry("global rot", func(c *rig.BoneControl) { c.SetGlobalRot(mgl64.Vec3{0, 3, 0}, rig.Mask{false, true, false}) }),
			Entry("global scale", func(c *rig.BoneControl) { c.SetGlobalScale(mgl64.Vec3{1, 1, 1}, rig.All) }),
			Entry("empty mask", func(c *rig.BoneControl) { c.SetLocalRot(mgl64.Vec3{5, 5, 5}, rig.None) }),
		)
	})

	Describe("evaluation", func() {
		DescribeTable("is idempotent",
			func(v rig.Variant) {
				arm := newArmature(v, v)
				steer(arm)
				arm.Evaluate()
				first := arm.Snapshot()
				arm.Evaluate()
				expectSamePoses(arm.Snapshot(), first)
			},
			Entry("direct", rig.Direct),
			Entry("two-tier", rig.TwoTier),
			Entry("pole", rig.Pole),
		)

		DescribeTable("keeps the rest pose",
			func(v rig.Variant) {
				arm := newArmature(v, v)
				rest := arm.Snapshot()
				arm.Evaluate()
				expectSamePoses(arm.Snapshot(), rest)
				Expect(arm.Degenerate()).To(Equal(0))
			},
			Entry("direct", rig.Direct),
			Entry("two-tier", rig.TwoTier),
			Entry("pole", rig.Pole),
		)

		It("joins both yards at the yard frame tail", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			steer(arm)
			arm.Evaluate()
			tail := bone(arm, rig.YardFrameTail).GlobalPos()
			expectNear(bone(arm, rig.YardL).GlobalPos(), tail)
			expectNear(bone(arm, rig.YardR).GlobalPos(), tail)
		})

		It("copies the control pose onto the band frame", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			steer(arm)
			arm.Evaluate()
			ctl := arm.Control()
			frame := bone(arm, rig.BandFrame)
			expectNear(frame.LocalPos(), ctl.LocalPos())
			Expect(xform.VecNear(frame.LocalRot(), ctl.LocalRot(), 1e-7)).To(BeTrue())
		})

		It("scales the yard span with the control", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			arm.Control().SetLocalScale(mgl64.Vec3{1.5, 1.5, 1.5}, rig.All)
			arm.Evaluate()
			expectNear(bone(arm, rig.ScaleFrame).GlobalScale(), arm.Control().GlobalScale())
			expectNear(bone(arm, rig.YardFrameL).LocalScale(), mgl64.Vec3{1, 1, 1})
			expectNear(bone(arm, rig.YardFrameR).LocalScale(), mgl64.Vec3{1, 1, 1})
		})

		It("aims the yards at their tails", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			arm.Control().SetLocalRot(mgl64.Vec3{40, 0, 0}, rig.All)
			arm.Evaluate()
			for _, pair := range [][2]rig.Role{{rig.YardL, rig.YardFrameTailL}, {rig.YardR, rig.YardFrameTailR}} {
				yard, tail := bone(arm, pair[0]), bone(arm, pair[1])
				forward := yard.Proxy().NetMatrix().Col(1).Vec3().Normalize()
				want := tail.Proxy().NetMatrix().Col(3).Vec3().Sub(yard.Proxy().NetMatrix().Col(3).Vec3()).Normalize()
				expectNear(forward, want)
			}
		})
	})

	Describe("axis masks", func() {
		It("writes only the flagged axis", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			ctl := arm.Control()
			ctl.SetLocalRot(mgl64.Vec3{10, 20, 30}, rig.All)
			ctl.SetLocalRot(mgl64.Vec3{45, 99, 99}, rig.Mask{true, false, false})
			expectNear(ctl.LocalRot(), mgl64.Vec3{45, 20, 30})
		})

		It("writes only the flagged scale axes", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			ctl := arm.Control()
			ctl.SetLocalScale(mgl64.Vec3{2, 3, 4}, rig.Mask{false, true, true})
			expectNear(ctl.LocalScale(), mgl64.Vec3{1, 3, 4})
		})
	})

	Describe("stretch", func() {
		It("scales the upper brace by the distance ratio", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			upper, ctl := bone(arm, rig.BraceUpperL), bone(arm, rig.BraceControlL)
			ctl.SetLocalPos(mgl64.Vec3{-1, -3, -1.5})
			arm.Evaluate()

			d0 := upper.RestDistance(ctl)
			d1 := upper.Proxy().Distance(ctl.Proxy())
			Expect(d0).To(BeNumerically(">", 0))
			Expect(d1).NotTo(BeNumerically("~", d0, 1e-3))
			Expect(upper.Scale(rig.Parent)[1]).To(BeNumerically("~", d1/d0, tol))
			Expect(upper.Scale(rig.Parent)[0]).To(BeNumerically("~", 1, tol))
		})

		It("keeps the rest distance from bind time", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			upper, ctl := bone(arm, rig.BraceUpperR), bone(arm, rig.BraceControlR)
			d0 := upper.Origin().Distance(ctl.Origin())
			ctl.SetLocalPos(mgl64.Vec3{2, 0, 0})
			arm.Evaluate()
			arm.Evaluate()
			Expect(upper.RestDistance(ctl)).To(BeNumerically("~", d0, tol))
		})
	})

	Describe("brace variants", func() {
		It("stretches the lower brace of a two-tier side", func() {
			arm := newArmature(rig.TwoTier, rig.TwoTier)
			upper, lower := bone(arm, rig.BraceUpperL), bone(arm, rig.BraceLowerL)
			ctl := bone(arm, rig.BraceControlL)
			ctl.SetLocalPos(mgl64.Vec3{0, 2, 1})
			arm.Evaluate()

			Expect(upper.Scale(rig.Parent)[1]).To(BeNumerically("~", 1, tol))
			want := lower.Proxy().Distance(ctl.Proxy()) / lower.RestDistance(ctl)
			Expect(lower.Scale(rig.Parent)[1]).To(BeNumerically("~", want, tol))
			Expect(want).NotTo(BeNumerically("~", 1, 1e-3))
		})

		It("bends a pole side through the pole", func() {
			arm := newArmature(rig.Pole, rig.Pole)
			top, bottom := bone(arm, rig.BraceTopControlR), bone(arm, rig.BraceBottomControlR)
			pole := bone(arm, rig.BracePoleR)

			top.SetLocalPos(mgl64.Vec3{0.5, 1, 0.4})
			top.SetLocalRot(mgl64.Vec3{20, 0, 0}, rig.All)
			bottom.SetLocalRot(mgl64.Vec3{0, 10, 0}, rig.All)
			arm.Evaluate()

			mid := top.GlobalPos().Add(bottom.GlobalPos()).Mul(0.5)
			expectNear(pole.GlobalPos(), mid)
			Expect(xform.VecNear(pole.LocalRot(), mgl64.Vec3{10, 5, 0}, 1e-7)).To(BeTrue(), "%v", pole.LocalRot())

			lowerTop := bone(arm, rig.BraceLowerTopR)
			want := lowerTop.Proxy().Distance(top.Proxy()) / lowerTop.RestDistance(top)
			Expect(lowerTop.Scale(rig.Parent)[1]).To(BeNumerically("~", want, tol))

			lowerBottom := bone(arm, rig.BraceLowerBottomR)
			want = lowerBottom.Proxy().Distance(bottom.Proxy()) / lowerBottom.RestDistance(bottom)
			Expect(lowerBottom.Scale(rig.Parent)[1]).To(BeNumerically("~", want, tol))
		})
	})

	Describe("degenerate geometry", func() {
		It("keeps the orientation when the target sits on the bone", func() {
			arm := newArmature(rig.Direct, rig.Direct)
			upper, ctl := bone(arm, rig.BraceUpperL), bone(arm, rig.BraceControlL)
			before := upper.GlobalRot()

			ctl.SetGlobalPos(upper.GlobalPos())
			arm.Evaluate()

			Expect(arm.Degenerate()).To(BeNumerically(">", 0))
			expectNear(upper.GlobalRot(), before)
			Expect(arm.Dirty()).To(BeFalse())
		})

		It("skips the stretch when the rest distance is zero", func() {
			skel := skeletonFor(rig.Direct, rig.Direct)
			model, err := scene.NewModel(scene.NewRoot("scratch"), skel)
			Expect(err).NotTo(HaveOccurred())
			j, _ := model.Joint("main-brace-upper-l")
			tip := j.Pos(model.Root())
			for i := range skel.Joints {
				if skel.Joints[i].Name == "main-brace-control-l" {
					skel.Joints[i].Pos = tip
				}
			}

			_, arm, err := build(skel)
			Expect(err).NotTo(HaveOccurred())
			upper, ctl := bone(arm, rig.BraceUpperL), bone(arm, rig.BraceControlL)
			ctl.SetLocalPos(mgl64.Vec3{0, -4, -2})
			arm.Evaluate()

			Expect(upper.RestDistance(ctl)).To(BeNumerically("~", 0, 1e-6))
			Expect(arm.Degenerate()).To(BeNumerically(">", 0))
			Expect(upper.Scale(rig.Parent)[1]).To(BeNumerically("~", 1, tol))
		})
	})

	It("turns the band with the control but never rolls it", func() {
		arm := newArmature(rig.Pole, rig.TwoTier)
		band := bone(arm, rig.Band)
		rest := band.LocalRot()

		arm.Control().SetLocalRot(mgl64.Vec3{30, 0, 0}, rig.All)
		arm.Evaluate()
		got := band.LocalRot()
		Expect(got[0]).To(BeNumerically("~", 30, 1e-7))
		Expect(got[1]).To(BeNumerically("~", rest[1], 1e-7))
		Expect(got[2]).To(BeNumerically("~", rest[2], 1e-7))

		arm.Control().SetLocalRot(mgl64.Vec3{30, 10, 20}, rig.All)
		arm.Evaluate()
		expectNear(band.LocalRot(), mgl64.Vec3{30, 10, 0})
	})

	It("reports links for every present bone pair", func() {
		arm := newArmature(rig.Pole, rig.Direct)
		for _, l := range arm.Links() {
			Expect(arm.Bone(l.From).Present()).To(BeTrue(), "%s", l.From)
			Expect(arm.Bone(l.To).Present()).To(BeTrue(), "%s", l.To)
		}
	})
})
