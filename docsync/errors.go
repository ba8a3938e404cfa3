package docsync

import "errors"

var (
	ErrRowOutOfRange    = errors.New("docsync: row out of range")
	ErrColumnOutOfRange = errors.New("docsync: column out of range")
)
