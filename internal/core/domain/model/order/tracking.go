package order

import (
	"slices"
	"time"
)

// TrackingEvent is one entry of an order's tracking log.
type TrackingEvent struct {
	Status    Status
	Timestamp time.Time
	Location  string
	Notes     string
}

// TrackingLog is an append-only, time-ordered sequence of tracking events.
// Existing entries are never modified; readers get copies.
type TrackingLog struct {
	events []TrackingEvent
}

// NewTrackingLog restores a log from persisted events.
func NewTrackingLog(events []TrackingEvent) TrackingLog {
	return TrackingLog{events: slices.Clone(events)}
}

// Events returns a copy of the log.
func (l TrackingLog) Events() []TrackingEvent {
	return slices.Clone(l.events)
}

func (l TrackingLog) Len() int {
	return len(l.events)
}

// Last returns the most recent event.
func (l TrackingLog) Last() (TrackingEvent, bool) {
	if len(l.events) == 0 {
		return TrackingEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// append returns a new log with e added at the end; the receiver's backing
// array is never shared with the result.
func (l TrackingLog) append(e TrackingEvent) TrackingLog {
	events := make([]TrackingEvent, len(l.events), len(l.events)+1)
	copy(events, l.events)
	return TrackingLog{events: append(events, e)}
}
