package domain

import "time"

// Round is one batch of matches formed from one triggering of the queue.
// EndTime stays nil while the round is in progress.
type Round struct {
	RoundID      int64      `json:"round_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Participants int        `json:"participants"`
}

// Valid reports whether the round is identified.
func (r *Round) Valid() bool {
	return r != nil && r.RoundID != 0
}

// Equal compares rounds by primary key.
func (r *Round) Equal(other *Round) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.RoundID == other.RoundID
}

// Duration returns the elapsed time of a completed round, or zero while the
// round is still in progress.
func (r *Round) Duration() time.Duration {
	if r == nil || r.EndTime == nil {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
