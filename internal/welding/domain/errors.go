package welding

import "errors"

var (
	// ErrInvalidPortIndex is returned when a side is addressed by an index other than 1 or 2.
	ErrInvalidPortIndex = errors.New("welding: port index must be 1 or 2")
	// ErrNotWeld is returned when a joint type is not one of the weld classes.
	ErrNotWeld = errors.New("welding: not a weld joint type")
	// ErrEmptyJointID is returned when a joint has no property row to write to.
	ErrEmptyJointID = errors.New("welding: empty joint id")
	// ErrNoConnectors is returned when the model has no connection points.
	ErrNoConnectors = errors.New("no connectors found")
	// ErrInvalidStartNumber is returned when a numbering offset is not positive.
	ErrInvalidStartNumber = errors.New("welding: invalid start number")
)
