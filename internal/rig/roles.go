package rig

import "fmt"

// Role is a bone's function within an armature. Its joint is named
// "<prefix>-<role>".
type Role int

const (
	YardControl Role = iota
	BraceControlL
	BraceControlR
	BraceTopControlL
	BraceTopControlR
	BraceBottomControlL
	BraceBottomControlR
	BandFrame
	YardFrame
	YardFrameTail
	ScaleFrame
	YardFrameL
	YardFrameR
	YardFrameTailL
	YardFrameTailR
	BracePoleL
	BracePoleR
	Band
	YardL
	YardR
	BraceUpperL
	BraceUpperR
	BraceLowerL
	BraceLowerR
	BraceLowerTopL
	BraceLowerTopR
	BraceLowerBottomL
	BraceLowerBottomR
	NumRoles
)

const noParent Role = -1

// roleTable lists every role in bind order; parents come before children.
var roleTable = [NumRoles]struct {
	suffix   string
	parent   Role
	required bool
}{
	YardControl:         {"yard-control", noParent, true},
	BraceControlL:       {"brace-control-l", noParent, false},
	BraceControlR:       {"brace-control-r", noParent, false},
	BraceTopControlL:    {"brace-top-control-l", noParent, false},
	BraceTopControlR:    {"brace-top-control-r", noParent, false},
	BraceBottomControlL: {"brace-bottom-control-l", noParent, false},
	BraceBottomControlR: {"brace-bottom-control-r", noParent, false},
	BandFrame:           {"band-frame", noParent, true},
	YardFrame:           {"yard-frame", BandFrame, true},
	YardFrameTail:       {"yard-frame-tail", YardFrame, true},
	ScaleFrame:          {"scale-frame", BandFrame, true},
	YardFrameL:          {"yard-frame-l", ScaleFrame, true},
	YardFrameR:          {"yard-frame-r", ScaleFrame, true},
	YardFrameTailL:      {"yard-frame-tail-l", YardFrameL, true},
	YardFrameTailR:      {"yard-frame-tail-r", YardFrameR, true},
	BracePoleL:          {"brace-pole-l", noParent, false},
	BracePoleR:          {"brace-pole-r", noParent, false},
	Band:                {"band", noParent, true},
	YardL:               {"yard-l", Band, true},
	YardR:               {"yard-r", Band, true},
	BraceUpperL:         {"brace-upper-l", YardL, true},
	BraceUpperR:         {"brace-upper-r", YardR, true},
	BraceLowerL:         {"brace-lower-l", BraceUpperL, false},
	BraceLowerR:         {"brace-lower-r", BraceUpperR, false},
	BraceLowerTopL:      {"brace-lower-top-l", BraceUpperL, false},
	BraceLowerTopR:      {"brace-lower-top-r", BraceUpperR, false},
	BraceLowerBottomL:   {"brace-lower-bottom-l", BraceUpperL, false},
	BraceLowerBottomR:   {"brace-lower-bottom-r", BraceUpperR, false},
}

func (r Role) String() string {
	if r < 0 || r >= NumRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleTable[r].suffix
}

// Parent is the role the bone is parented to, and false for top-level bones.
func (r Role) Parent() (Role, bool) {
	p := roleTable[r].parent
	return p, p != noParent
}

// ParseRole finds a role by its joint suffix, e.g. "yard-control".
func ParseRole(s string) (Role, error) {
	for r := range NumRoles {
		if roleTable[r].suffix == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// JointName is the joint a role binds to for the given rig prefix.
func JointName(prefix string, r Role) string {
	return prefix + "-" + roleTable[r].suffix
}

// Side is one half of the brace rigging.
type Side int

const (
	Left Side = iota
	Right
)

var Sides = [...]Side{Left, Right}

// Sign is -1 for the left side (-X) and +1 for the right.
func (s Side) Sign() float64 {
	if s == Left {
		return -1
	}
	return 1
}

func (s Side) String() string {
	if s == Left {
		return "l"
	}
	return "r"
}

type sideRoles struct {
	control, topControl, bottomControl        Role
	pole, upper, lower, lowerTop, lowerBottom Role
}

var braceRoles = [...]sideRoles{
	Left: {
		control: BraceControlL, topControl: BraceTopControlL, bottomControl: BraceBottomControlL,
		pole: BracePoleL, upper: BraceUpperL, lower: BraceLowerL, lowerTop: BraceLowerTopL, lowerBottom: BraceLowerBottomL,
	},
	Right: {
		control: BraceControlR, topControl: BraceTopControlR, bottomControl: BraceBottomControlR,
		pole: BracePoleR, upper: BraceUpperR, lower: BraceLowerR, lowerTop: BraceLowerTopR, lowerBottom: BraceLowerBottomR,
	},
}

// Variant is the brace topology of one side.
type Variant int

const (
	// Direct: the upper brace stretches straight to the brace control.
	Direct Variant = iota
	// TwoTier: the upper brace aims at the control and the lower brace stretches to it.
	TwoTier
	// Pole: a pole bone between top and bottom controls bends a forked lower brace.
	Pole
)

func (v Variant) String() string {
	switch v {
	case Direct:
		return "direct"
	case TwoTier:
		return "two-tier"
	case Pole:
		return "pole"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}
