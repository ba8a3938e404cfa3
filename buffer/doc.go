// Package buffer implements the text document that backs a csvi grid.
//
// Text is stored as lines split on the document's end-of-line sequence.
// Coordinates are 0-based (Row, Col) with Col counted in bytes. Text need
// not be valid UTF-8. PosFromRuneOffset and friends map offsets to positions.
// Ranges are half-open selections in document coordinates: [Start, End).
package buffer
