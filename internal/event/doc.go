// Package event defines the canonical event envelope and the event-type
// registry used by the narrative log write path.
//
// Events are immutable facts extracted from the conversation. The registry
// enforces the closed kind/subkind enumeration and payload validity before
// persistence assigns the sequence position. A stable event contract is the
// foundation for replay and projection correctness; external tooling matches
// on kind/subkind exhaustively, so existing names must not be renamed or
// removed without a migration path.
package event
