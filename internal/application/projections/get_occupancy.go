package projections

import (
	"context"
	"time"

	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
)

// OccupancyEntry is one member currently on the premises.
type OccupancyEntry struct {
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	CheckInID   string    `json:"checkin_id"`
	CheckInTime time.Time `json:"checkin_time"`
	Minutes     int64     `json:"minutes"`
	Overtime    bool      `json:"overtime"`
}

// GetOccupancyResult carries the query result.
type GetOccupancyResult struct {
	AsOf    time.Time        `json:"as_of"`
	Count   int              `json:"count"`
	Entries []OccupancyEntry `json:"entries"`
}

// GetOccupancyDeps holds dependencies for GetOccupancy.
type GetOccupancyDeps struct {
	CheckInStore  CheckInStore
	MemberStore   MemberStore
	OvertimeAfter time.Duration // zero disables the overtime flag
	Now           func() time.Time
}

// QueryGetOccupancy lists the open sessions, longest visit first.
// POST: Count equals len(Entries); members that cannot be read keep an empty name
func QueryGetOccupancy(ctx context.Context, deps GetOccupancyDeps) (GetOccupancyResult, error) {
	now := nowOr(deps.Now)
	open, err := deps.CheckInStore.ListOpen(ctx)
	if err != nil {
		return GetOccupancyResult{}, failure.Store(err)
	}

	entries := make([]OccupancyEntry, 0, len(open))
	for _, c := range open {
		e := OccupancyEntry{
			MemberID:    c.MemberID,
			CheckInID:   c.ID,
			CheckInTime: c.CheckInTime,
			Minutes:     checkin.DurationMinutes(c.Duration(now)),
			Overtime:    deps.OvertimeAfter > 0 && c.IsOvertime(now, deps.OvertimeAfter),
		}
		if m, err := deps.MemberStore.GetByID(ctx, c.MemberID); err == nil {
			e.MemberName = m.Name
		}
		entries = append(entries, e)
	}

	return GetOccupancyResult{AsOf: now, Count: len(entries), Entries: entries}, nil
}
