package disktree

import (
	"errors"
	"fmt"
)

// ErrContiguityViolation is matched by every *ContiguityError. It means the
// volume's flat list does not keep each directory's entries together, so the
// hierarchy cannot be rebuilt. Retrying will not help.
var ErrContiguityViolation = errors.New("disktree: contiguity violation")

// ContiguityError describes the entry that could not be placed.
type ContiguityError struct {
	VolumeID string
	// Index of the entry in the volume's file list.
	Index int
	Path  string
	// Scope is the innermost directory open when the entry was reached,
	// "" for the volume root.
	Scope  string
	Reason string
}

func (e *ContiguityError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "<root>"
	}
	return fmt.Sprintf("%v: volume %q entry %d %q (open scope %s): %s",
		ErrContiguityViolation, e.VolumeID, e.Index, e.Path, scope, e.Reason)
}

func (e *ContiguityError) Is(target error) bool {
	return target == ErrContiguityViolation
}
