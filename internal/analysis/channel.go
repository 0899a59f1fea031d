package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigsim/internal/storage"
)

var (
	ErrBadChannel   = errors.New("analysis: channel must be armature/role/field")
	ErrUnknownField = errors.New("analysis: unknown field")
)

// Fields are the per-pose scalars a channel can select.
var Fields = []string{"x", "y", "z", "h", "p", "r", "sx", "sy", "sz"}

type Channel struct {
	Armature string
	Role     string
	Field    string
	index    int
}

func ParseChannel(s string) (Channel, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Channel{}, fmt.Errorf("%w: %q", ErrBadChannel, s)
	}
	for i, f := range Fields {
		if f == parts[2] {
			return Channel{Armature: parts[0], Role: parts[1], Field: f, index: i}, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: %q", ErrUnknownField, parts[2])
}

// Bone is the joint name the channel reads.
func (c Channel) Bone() string { return c.Armature + "-" + c.Role }

func (c Channel) String() string { return c.Armature + "/" + c.Role + "/" + c.Field }

// Extract returns the channel's value at each recorded tick, in tick order
// as stored.
func (c Channel) Extract(records []storage.Record) []float64 {
	bone := c.Bone()
	out := make([]float64, 0)
	for _, r := range records {
		if r.Armature != c.Armature || r.Bone != bone {
			continue
		}
		var v [3]float64
		switch c.index / 3 {
		case 0:
			v = r.Pos
		case 1:
			v = r.HPR
		default:
			v = r.Scale
		}
		out = append(out, v[c.index%3])
	}
	return out
}

type Summary struct {
	Min, Max, Mean, Std float64
	N                   int
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: data[0], Max: data[0], N: len(data)}
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(data))
	for _, v := range data {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(len(data)))
	return s
}
