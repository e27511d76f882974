// Package clock derives a listening party's phase and playback offset from
// wall-clock time. Every participant evaluates the same two timestamps
// against their own clock, so all players converge on the same offset
// without any coordination between them.
package clock

import (
	"context"
	"fmt"
	"time"
)

// Phase is where a party currently sits in its lifecycle.
type Phase string

const (
	// PhasePending: ingestion has not produced an end time yet; nothing to
	// count down to and nothing to play.
	PhasePending Phase = "pending"
	// PhaseScheduled: the party is fully ingested but has not started.
	PhaseScheduled Phase = "scheduled"
	// PhaseLive: playback is in progress; join at SeekOffset.
	PhaseLive Phase = "live"
	// PhaseFinished: the party is over.
	PhaseFinished Phase = "finished"
)

// Snapshot is one evaluation of the party clock. SeekOffsetSeconds is only
// meaningful while live; CountdownText only while scheduled.
type Snapshot struct {
	Phase             Phase  `json:"phase"`
	CountdownText     string `json:"countdown_text,omitempty"`
	TimeUntilStartSec int64  `json:"time_until_start_seconds,omitempty"`
	SeekOffsetSeconds int64  `json:"seek_offset_seconds"`
}

// Evaluate computes the party phase at now. end is nil until ingestion
// completes. finished short-circuits the wall clock: a participant whose
// player reached the end of the episode is finished even if their clock says
// otherwise.
//
// A participant joining at or after the start gets a non-negative seek
// offset immediately; late joiners do not hear the beginning.
func Evaluate(now, start time.Time, end *time.Time, finished bool) Snapshot {
	if finished {
		return Snapshot{Phase: PhaseFinished}
	}
	if end == nil {
		return Snapshot{Phase: PhasePending}
	}
	if now.Before(start) {
		until := start.Sub(now)
		return Snapshot{
			Phase:             PhaseScheduled,
			CountdownText:     FormatCountdown(until),
			TimeUntilStartSec: int64(until / time.Second),
		}
	}
	if now.Before(*end) {
		offset := now.Sub(start)
		if offset < 0 {
			offset = 0
		}
		return Snapshot{
			Phase:             PhaseLive,
			SeekOffsetSeconds: int64(offset / time.Second),
		}
	}
	return Snapshot{Phase: PhaseFinished}
}

// FormatCountdown renders a duration as "1d 2h 3m 4s".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}

// Tick calls fn once per interval until ctx is cancelled. It is the driver
// for continuous re-evaluation on a participant's device; cancelling the
// context tears the loop down so view transitions do not leak timers.
func Tick(ctx context.Context, interval time.Duration, fn func(now time.Time)) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}
