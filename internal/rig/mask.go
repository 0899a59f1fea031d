package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mask selects which of the three components (h, p, r or x, y, z) a write touches.
type Mask [3]bool

var (
	All  = Mask{true, true, true}
	None = Mask{}
)

// ParseMask converts a dynamic flag list. An empty list means All.
func ParseMask(flags []bool) (Mask, error) {
	switch len(flags) {
	case 0:
		return All, nil
	case 3:
		return Mask{flags[0], flags[1], flags[2]}, nil
	default:
		return None, fmt.Errorf("%w: got %d", ErrInvalidAxisMask, len(flags))
	}
}

// merge returns cur with the masked components replaced from v.
func (m Mask) merge(cur, v mgl64.Vec3) mgl64.Vec3 {
	for i, on := range m {
		if on {
			cur[i] = v[i]
		}
	}
	return cur
}

func (m Mask) String() string {
	b := []byte("---")
	for i, c := range "xyz" {
		if m[i] {
			b[i] = byte(c)
		}
	}
	return string(b)
}
