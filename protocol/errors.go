package protocol

import "errors"

var (
	// ErrUnknownType is returned for a message whose "type" is not known to
	// the decoder.
	ErrUnknownType = errors.New("protocol: unknown message type")
	// ErrMalformed is returned for invalid JSON, missing fields, or an
	// Intent whose payload does not match its kind.
	ErrMalformed = errors.New("protocol: malformed message")
)
