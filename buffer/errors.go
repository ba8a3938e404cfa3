package buffer

import "errors"

var (
	// ErrRangeOutOfBounds is returned when an edit range does not address
	// existing document positions.
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrOverlappingEdits is returned when two edits of one batch overlap or
	// insert at the same position.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// ErrVersionMismatch is returned by ApplyAt when the document changed since
// the version the edits were computed against.
var ErrVersionMismatch = errors.New("document version mismatch")
