package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/xform"
	"gopkg.in/yaml.v3"
)

// JointSpec describes one skeleton joint relative to its parent joint, or to
// the model root when Parent is empty. A zero Scale means unit scale.
type JointSpec struct {
	Name   string     `yaml:"name"`
	Parent string     `yaml:"parent,omitempty"`
	Pos    [3]float64 `yaml:"pos,flow"`
	HPR    [3]float64 `yaml:"hpr,flow"`
	Scale  [3]float64 `yaml:"scale,flow,omitempty"`
}

func (j JointSpec) Transform() xform.Transform {
	scale := mgl64.Vec3(j.Scale)
	if j.Scale == [3]float64{} {
		scale = mgl64.Vec3{1, 1, 1}
	}
	return xform.New(mgl64.Vec3(j.Pos), mgl64.Vec3(j.HPR), scale)
}

// Skeleton is a joint hierarchy in definition order; parents precede children.
type Skeleton struct {
	Name   string      `yaml:"name"`
	Joints []JointSpec `yaml:"joints"`
}

func LoadSkeleton(path string) (*Skeleton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var skel Skeleton
	if err := yaml.Unmarshal(data, &skel); err != nil {
		return nil, fmt.Errorf("parse skeleton %s: %w", path, err)
	}
	return &skel, nil
}

func SaveSkeleton(path string, skel *Skeleton) error {
	data, err := yaml.Marshal(skel)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Model is a skeletal model placed in a scene. Joints can be handed over to
// control proxies; Sync copies each proxy's world transform back onto its joint.
type Model struct {
	name    string
	root    *Node
	joints  []*Node
	byName  map[string]*Node
	proxies map[*Node]*Node
}

// NewModel instantiates skel under parent. The model root starts at identity.
func NewModel(parent *Node, skel *Skeleton) (*Model, error) {
	m := &Model{
		name:    skel.Name,
		root:    parent.AttachNew(skel.Name),
		joints:  make([]*Node, 0, len(skel.Joints)),
		byName:  make(map[string]*Node, len(skel.Joints)),
		proxies: make(map[*Node]*Node),
	}

	for _, spec := range skel.Joints {
		if _, dup := m.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJoint, spec.Name)
		}
		p := m.root
		if spec.Parent != "" {
			var ok bool
			if p, ok = m.byName[spec.Parent]; !ok {
				return nil, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, spec.Parent, spec.Name)
			}
		}
		j := p.Attach(spec.Name, spec.Transform())
		m.joints = append(m.joints, j)
		m.byName[spec.Name] = j
	}

	return m, nil
}

func (m *Model) Name() string { return m.name }

// Root is the model root node; move it to place the model in the scene.
func (m *Model) Root() *Node { return m.root }

func (m *Model) Joint(name string) (*Node, bool) {
	j, ok := m.byName[name]
	return j, ok
}

func (m *Model) JointNames() []string {
	names := make([]string, len(m.joints))
	for i, j := range m.joints {
		names[i] = j.Name()
	}
	return names
}

// ControlJoint returns the proxy node driving the named joint, creating it
// under the model root at the joint's current world transform. Controlling
// the same joint twice returns the same proxy.
func (m *Model) ControlJoint(name string) (*Node, bool) {
	j, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	if p, ok := m.proxies[j]; ok {
		return p, true
	}
	p := m.root.AttachFrame(name, j)
	m.proxies[j] = p
	return p, true
}

func (m *Model) Controlled() int { return len(m.proxies) }

// Sync poses every controlled joint from its proxy. Joints are visited parents
// first so that each one sees its ancestors' final pose.
func (m *Model) Sync() {
	for _, j := range m.joints {
		if p, ok := m.proxies[j]; ok {
			j.CopyWorld(p)
		}
	}
}
