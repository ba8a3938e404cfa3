// Package grid is a Bubble Tea component that shows a delimited document as
// a spreadsheet-style grid.
//
// The grid never edits a document. It renders the last grid it was given
// (SetData or UpdateMsg) and reports user actions as protocol intents through
// Config.Emit. The owner routes intents to a synchronizer, which answers with
// a fresh grid.
//
// Interaction is a two-state machine:
//
//	Browse:  arrows move the focused cell; typing a letter or digit, F2 or a
//	         double click opens the cell editor.
//	Editing: an inline text input owns the focused cell. Enter or losing
//	         focus saves (one update intent when the value changed), Esc
//	         discards.
package grid
