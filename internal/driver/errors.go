package driver

import "errors"

var (
	ErrUnknownAction   = errors.New("driver: unknown action")
	ErrUnknownMast     = errors.New("driver: unknown mast")
	ErrUnknownSail     = errors.New("driver: unknown sail")
	ErrUnknownArmature = errors.New("driver: unknown armature")
)
