package engine

import "github.com/Rhymond/go-money"

// EventKind discriminates pipeline progress events.
type EventKind int

const (
	// EventStage announces a stage change.
	EventStage EventKind = iota
	// EventAccountFill carries the simulated account balance during the
	// account-funding sub-stage.
	EventAccountFill
	// EventActive marks an envelope as the active cursor for its stage.
	EventActive
	// EventProgress carries an envelope's accumulated progress after a
	// stuffing step.
	EventProgress
	// EventFailed terminates the run after a store write failure.
	EventFailed
	// EventDone is the final event of a successful run.
	EventDone
)

// Event is one pipeline progress update. The pipeline emits events in
// execution order; a presentation layer renders them however it likes.
type Event struct {
	Kind       EventKind
	Stage      Stage
	EnvelopeID int64
	// Index is the cursor position local to the current stage.
	Index  int
	Amount *money.Money
	Err    error
}
