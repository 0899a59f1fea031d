package scene

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/xform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, xform.VecNear(want, got, 1e-9), "want %v, got %v", want, got)
}

func TestRelativeTransforms(t *testing.T) {
	root := NewRoot("render")
	a := root.Attach("a", xform.New(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{90, 0, 0}, mgl64.Vec3{1, 1, 1}))
	b := a.Attach("b", xform.New(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))

	// a's +Y points at world -X
	vecNear(t, mgl64.Vec3{8, 0, 0}, b.Pos(nil))
	vecNear(t, mgl64.Vec3{0, 2, 0}, b.Pos(a))
	assert.InDelta(t, 90, b.HPR(nil)[0], 1e-9)
	assert.InDelta(t, 0, b.HPR(a)[0], 1e-9)
	assert.InDelta(t, 2, a.Distance(b), 1e-9)
}

func TestSetPosInOtherFrame(t *testing.T) {
	root := NewRoot("render")
	a := root.Attach("a", xform.New(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{45, 10, 0}, mgl64.Vec3{2, 2, 2}))
	b := root.Attach("b", xform.New(mgl64.Vec3{-4, 0, 1}, mgl64.Vec3{-30, 0, 20}, mgl64.Vec3{1, 1, 1}))
	c := b.AttachNew("c")

	c.SetPos(a, mgl64.Vec3{1, 1, 1})
	vecNear(t, mgl64.Vec3{1, 1, 1}, c.Pos(a))
}

func TestSetHPRAndScaleInOtherFrame(t *testing.T) {
	root := NewRoot("render")
	a := root.Attach("a", xform.New(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{45, 10, 0}, mgl64.Vec3{1, 1, 1}))
	b := root.Attach("b", xform.New(mgl64.Vec3{-4, 0, 1}, mgl64.Vec3{-30, 0, 20}, mgl64.Vec3{1, 1, 1}))
	c := b.Attach("c", xform.New(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	before := c.Pos(nil)

	c.SetHPR(a, mgl64.Vec3{20, -15, 5})
	vecNear(t, mgl64.Vec3{20, -15, 5}, c.HPR(a))
	vecNear(t, before, c.Pos(nil))

	c.SetScale(a, mgl64.Vec3{2, 3, 4})
	vecNear(t, mgl64.Vec3{2, 3, 4}, c.Scale(a))
	vecNear(t, mgl64.Vec3{20, -15, 5}, c.HPR(a))
}

func TestWrtReparentKeepsWorld(t *testing.T) {
	root := NewRoot("render")
	a := root.Attach("a", xform.New(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{30, 0, 0}, mgl64.Vec3{1, 1, 1}))
	b := root.Attach("b", xform.New(mgl64.Vec3{0, 3, 1}, mgl64.Vec3{0, 20, 0}, mgl64.Vec3{1, 1, 1}))
	world := b.NetMatrix()

	require.NoError(t, b.WrtReparent(a))
	assert.Equal(t, a, b.Parent())
	assert.True(t, xform.MatNear(world, b.NetMatrix(), 1e-9))
	assert.Len(t, root.Children(), 1)

	assert.ErrorIs(t, a.Reparent(b), ErrCycle)
}

func TestAttachFrameCopiesWorld(t *testing.T) {
	root := NewRoot("render")
	a := root.Attach("a", xform.New(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{30, 0, 0}, mgl64.Vec3{2, 2, 2}))
	b := a.Attach("b", xform.New(mgl64.Vec3{0, 3, 1}, mgl64.Vec3{0, 20, 0}, mgl64.Vec3{1, 1, 1}))
	f := root.AttachNew("other").AttachFrame("frame", b)
	assert.True(t, xform.MatNear(b.NetMatrix(), f.NetMatrix(), 1e-9))
}

func TestLookAt(t *testing.T) {
	root := NewRoot("render")
	n := root.Attach("n", xform.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{1, 2, 1}))
	target := root.Attach("t", xform.New(mgl64.Vec3{-5, 5, 0}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))

	require.NoError(t, n.LookAt(target, xform.AxisZ))
	assert.InDelta(t, 45, n.HPR(root)[0], 1e-9)
	vecNear(t, mgl64.Vec3{1, 2, 1}, n.Local().Scale)

	same := root.AttachNew("same")
	prev := same.Local()
	assert.ErrorIs(t, same.LookAt(root.AttachNew("origin"), xform.AxisZ), ErrDegenerateAim)
	assert.Equal(t, prev, same.Local())
}

func testSkeleton() *Skeleton {
	return &Skeleton{
		Name: "hull",
		Joints: []JointSpec{
			{Name: "mast", Pos: [3]float64{0, 1, 0}},
			{Name: "yard", Parent: "mast", Pos: [3]float64{0, 0, 4}, HPR: [3]float64{90, 0, 0}},
		},
	}
}

func TestModelControlAndSync(t *testing.T) {
	render := NewRoot("render")
	m, err := NewModel(render, testSkeleton())
	require.NoError(t, err)
	m.Root().SetPos(nil, mgl64.Vec3{100, 0, 0})

	yard, ok := m.Joint("yard")
	require.True(t, ok)

	proxy, ok := m.ControlJoint("yard")
	require.True(t, ok)
	assert.Equal(t, m.Root(), proxy.Parent())
	assert.True(t, xform.MatNear(yard.NetMatrix(), proxy.NetMatrix(), 1e-9))

	again, _ := m.ControlJoint("yard")
	assert.Same(t, proxy, again)
	assert.Equal(t, 1, m.Controlled())

	_, ok = m.ControlJoint("missing")
	assert.False(t, ok)

	proxy.SetPos(render, mgl64.Vec3{0, 0, 0})
	m.Sync()
	vecNear(t, mgl64.Vec3{}, yard.Pos(nil))
	assert.Equal(t, []string{"mast", "yard"}, m.JointNames())
}

func TestModelRejectsBadSkeletons(t *testing.T) {
	_, err := NewModel(NewRoot("r"), &Skeleton{Joints: []JointSpec{{Name: "a", Parent: "b"}}})
	assert.ErrorIs(t, err, ErrUnknownParent)

	_, err = NewModel(NewRoot("r"), &Skeleton{Joints: []JointSpec{{Name: "a"}, {Name: "a"}}})
	assert.ErrorIs(t, err, ErrDuplicateJoint)
}

func TestSkeletonFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skel.yaml")
	require.NoError(t, SaveSkeleton(path, testSkeleton()))

	loaded, err := LoadSkeleton(path)
	require.NoError(t, err)
	assert.Equal(t, "hull", loaded.Name)
	require.Len(t, loaded.Joints, 2)
	assert.Equal(t, "mast", loaded.Joints[1].Parent)
	vecNear(t, mgl64.Vec3{1, 1, 1}, loaded.Joints[0].Transform().Scale)
}
