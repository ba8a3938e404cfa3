// Package protocol defines the messages exchanged between a grid view and
// the document synchronizer, and their JSON wire form.
//
// A view sends intents (fire-and-forget requests to mutate the document).
// The synchronizer answers every document change with a GridUpdate carrying
// the full re-derived grid. Both directions use flat JSON objects tagged with
// a "type" field:
//
//	{"type":"update","rowIndex":0,"columnIndex":2,"value":"x"}
//	{"type":"addRow","rowIndex":1,"isBefore":false}
//	{"type":"update","data":[["a","b"],["c","d"]],"version":7}
//
// The "update" type is shared by both directions; callers pick the decoder for
// the direction they are reading.
package protocol
