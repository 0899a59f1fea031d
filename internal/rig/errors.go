package rig

import "errors"

var (
	// ErrMissingRequiredBone indicates a rig lacking a bone that every variant needs.
	ErrMissingRequiredBone = errors.New("rig: required bone missing")

	// ErrInconsistentVariant indicates a brace side whose present bones match no variant.
	ErrInconsistentVariant = errors.New("rig: brace bones match no variant")

	// ErrInvalidAxisMask indicates an axis mask without exactly three flags.
	ErrInvalidAxisMask = errors.New("rig: axis mask needs exactly 3 flags")

	// ErrUnknownRole indicates a role name outside the role table.
	ErrUnknownRole = errors.New("rig: unknown role")

	// ErrZeroRestDistance indicates a stretch pair whose origin frames coincide.
	ErrZeroRestDistance = errors.New("rig: stretch rest distance is zero")
)
