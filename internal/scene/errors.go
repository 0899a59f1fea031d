package scene

import "errors"

var (
	// ErrDegenerateAim indicates a look-at target coincident with the node.
	ErrDegenerateAim = errors.New("scene: aim target coincides with node")

	// ErrUnknownParent indicates a skeleton joint whose parent is not defined before it.
	ErrUnknownParent = errors.New("scene: joint parent not defined")

	// ErrDuplicateJoint indicates two skeleton joints with the same name.
	ErrDuplicateJoint = errors.New("scene: duplicate joint name")

	// ErrCycle indicates a reparent that would make a node its own ancestor.
	ErrCycle = errors.New("scene: reparent would create a cycle")
)
