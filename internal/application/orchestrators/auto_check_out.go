package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
)

// OverdueCloser closes open sessions that started before a cutoff.
type OverdueCloser interface {
	CloseOverdue(ctx context.Context, cutoff, now time.Time) ([]checkin.CheckIn, error)
}

// AutoCheckOutDeps holds dependencies for AutoCheckOut.
type AutoCheckOutDeps struct {
	CheckInStore OverdueCloser
	Events       events.Publisher // optional
	Now          func() time.Time
}

// AutoCheckOutResult reports what one sweep closed.
type AutoCheckOutResult struct {
	Closed     int      `json:"closed"`
	CheckInIDs []string `json:"checkin_ids"`
}

// ExecuteAutoCheckOut force-closes sessions open longer than maxHours,
// with CheckOutTime=now.
// PRE: maxHours > 0
// POST: Every session with now - CheckInTime > maxHours is closed; a second
// run with the same clock closes nothing
func ExecuteAutoCheckOut(ctx context.Context, maxHours int, deps AutoCheckOutDeps) (AutoCheckOutResult, error) {
	if maxHours <= 0 {
		return AutoCheckOutResult{}, failure.Validation("maxHours must be greater than zero")
	}
	now := nowOr(deps.Now)
	cutoff := now.Add(-time.Duration(maxHours) * time.Hour)

	closed, err := deps.CheckInStore.CloseOverdue(ctx, cutoff, now)
	if err != nil {
		return AutoCheckOutResult{}, failure.Store(err)
	}

	result := AutoCheckOutResult{Closed: len(closed), CheckInIDs: make([]string, 0, len(closed))}
	for _, c := range closed {
		result.CheckInIDs = append(result.CheckInIDs, c.ID)
		publish(ctx, deps.Events, events.Event{Type: events.CheckInAutoClose, OccurredAt: now, MemberID: c.MemberID, CheckInID: c.ID})
	}
	if result.Closed > 0 {
		log.Info().Str("event", "sessions_auto_closed").Int("count", result.Closed).Int("max_hours", maxHours).Msg("checkin_event")
	}
	return result, nil
}
