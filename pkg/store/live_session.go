package store

import "time"

// LiveSession is the ephemeral recording state of a session while a lecture
// is streaming. It mirrors nothing durable: the database rows are the record,
// this is scratch state for the live path.
type LiveSession struct {
	ID           string
	Recording    bool
	LastSequence int64 // StartMs of the most recent segment
	ListenerHint int   // Advisory; authoritative counts live in presence
	StartedAt    time.Time
	UpdatedAt    time.Time
}
