package driver

import (
	"fmt"
	"slices"

	"github.com/san-kum/rigsim/internal/ship"
)

// Any selects every mast or every sail.
const Any = "all"

type Action int

const (
	Rotate Action = iota
	Move
	Scale
)

var actionNames = [...]string{"rotate", "move", "scale"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Selection is what pointer input steers: an action on the yard controls of
// one mast or all masts, and one sail or all sails.
type Selection struct {
	Action Action
	Mast   string
	Sail   string
}

func DefaultSelection() Selection {
	return Selection{Action: Rotate, Mast: Any, Sail: Any}
}

// ParseSelection validates names against the layout. "course" names the
// lowest sail.
func ParseSelection(l ship.Layout, action, mast, sail string) (Selection, error) {
	a, err := ParseAction(action)
	if err != nil {
		return Selection{}, err
	}
	if mast != Any && !slices.Contains(l.MastNames(), mast) {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownMast, mast)
	}
	if sail != Any {
		sail = ship.SailName(sail)
		if !slices.Contains(l.SailNames(), sail) {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownSail, sail)
		}
	}
	return Selection{Action: a, Mast: mast, Sail: sail}, nil
}

// Prefixes expands the selection into armature names.
func (s Selection) Prefixes(l ship.Layout) []string {
	masts := []string{s.Mast}
	if s.Mast == Any {
		masts = l.MastNames()
	}
	sails := []string{s.Sail}
	if s.Sail == Any {
		sails = l.SailNames()
	}
	out := make([]string, 0, len(masts)*len(sails))
	for _, m := range masts {
		for _, sl := range sails {
			out = append(out, ship.Prefix(m, sl))
		}
	}
	return out
}

func (s Selection) String() string {
	sail := s.Sail
	if sail == "" {
		sail = "course"
	}
	return fmt.Sprintf("%s %s/%s", s.Action, s.Mast, sail)
}
