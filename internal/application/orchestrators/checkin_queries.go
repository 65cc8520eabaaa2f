package orchestrators

import (
	"context"
	"time"

	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
)

// CheckInReader is the check-in store surface needed for session queries.
type CheckInReader interface {
	ListOpen(ctx context.Context) ([]checkin.CheckIn, error)
	ListByMemberID(ctx context.Context, memberID string) ([]checkin.CheckIn, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]checkin.CheckIn, error)
}

// CheckInQueryDeps holds dependencies for session queries.
type CheckInQueryDeps struct {
	CheckInStore CheckInReader
	Now          func() time.Time
}

// ExecuteListOpenSessions returns everyone currently on the premises with
// time elapsed so far.
func ExecuteListOpenSessions(ctx context.Context, deps CheckInQueryDeps) ([]Session, error) {
	list, err := deps.CheckInStore.ListOpen(ctx)
	if err != nil {
		return nil, failure.Store(err)
	}
	return sessions(list, nowOr(deps.Now)), nil
}

// ExecuteListMemberSessions returns a member's visit history, oldest first.
func ExecuteListMemberSessions(ctx context.Context, memberID string, deps CheckInQueryDeps) ([]Session, error) {
	if memberID == "" {
		return nil, failure.Validation("member id is required")
	}
	list, err := deps.CheckInStore.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, failure.Store(err)
	}
	return sessions(list, nowOr(deps.Now)), nil
}

// ExecuteListSessionsInRange returns sessions started in [from, to).
// PRE: to is after from
func ExecuteListSessionsInRange(ctx context.Context, from, to time.Time, deps CheckInQueryDeps) ([]Session, error) {
	if !to.After(from) {
		return nil, failure.Validation("date range end must be after its start")
	}
	list, err := deps.CheckInStore.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, failure.Store(err)
	}
	return sessions(list, nowOr(deps.Now)), nil
}

func sessions(list []checkin.CheckIn, now time.Time) []Session {
	out := make([]Session, 0, len(list))
	for _, c := range list {
		out = append(out, NewSession(c, now))
	}
	return out
}
