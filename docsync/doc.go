// Package docsync keeps grid views and a delimited text document in step.
//
// The Synchronizer owns no copy of the document: every operation reads the
// current text from the buffer, computes one batch of range edits and submits
// it atomically. Every document change, including the ones the synchronizer
// caused itself, is answered with a freshly split grid pushed to all
// attached views.
package docsync
