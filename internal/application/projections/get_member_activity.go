package projections

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
)

// GetMemberActivityQuery carries query parameters.
type GetMemberActivityQuery struct {
	MemberID string
	From     time.Time // defaults to 30 days before now
	To       time.Time // defaults to now
}

// GetMemberActivityResult carries the query result.
type GetMemberActivityResult struct {
	MemberID     string                 `json:"member_id"`
	From         time.Time              `json:"from"`
	To           time.Time              `json:"to"`
	Visits       int                    `json:"visits"`
	TotalMinutes int64                  `json:"total_minutes"`
	TotalText    string                 `json:"total_text"`
	OnPremises   bool                   `json:"on_premises"`
	Bookings     map[booking.Status]int `json:"bookings"`
}

// GetMemberActivityDeps holds dependencies for GetMemberActivity.
type GetMemberActivityDeps struct {
	MemberStore  MemberStore
	CheckInStore CheckInStore
	BookingStore BookingStore
	Now          func() time.Time
}

// QueryGetMemberActivity summarises a member's visits and bookings in a window.
// PRE: MemberID refers to an existing member
// POST: TotalMinutes includes the elapsed part of a visit still open
func QueryGetMemberActivity(ctx context.Context, query GetMemberActivityQuery, deps GetMemberActivityDeps) (GetMemberActivityResult, error) {
	now := nowOr(deps.Now)
	if query.To.IsZero() {
		query.To = now
	}
	if query.From.IsZero() {
		query.From = query.To.AddDate(0, 0, -30)
	}
	if !query.To.After(query.From) {
		return GetMemberActivityResult{}, failure.Validation("date range end must be after its start")
	}

	if _, err := deps.MemberStore.GetByID(ctx, query.MemberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return GetMemberActivityResult{}, failure.NotFound("member not found")
		}
		return GetMemberActivityResult{}, failure.Store(err)
	}

	visits, err := deps.CheckInStore.ListByMemberIDAndDateRange(ctx, query.MemberID, query.From, query.To)
	if err != nil {
		return GetMemberActivityResult{}, failure.Store(err)
	}
	result := GetMemberActivityResult{
		MemberID: query.MemberID,
		From:     query.From,
		To:       query.To,
		Visits:   len(visits),
		Bookings: map[booking.Status]int{booking.StatusPending: 0, booking.StatusConfirmed: 0, booking.StatusCancelled: 0},
	}
	for _, v := range visits {
		result.TotalMinutes += checkin.DurationMinutes(v.Duration(now))
	}
	result.TotalText = checkin.FormatMinutes(result.TotalMinutes)

	_, err = deps.CheckInStore.GetOpenByMemberID(ctx, query.MemberID)
	switch {
	case err == nil:
		result.OnPremises = true
	case !errors.Is(err, storage.ErrNotFound):
		return GetMemberActivityResult{}, failure.Store(err)
	}

	bookings, err := deps.BookingStore.ListByMember(ctx, query.MemberID)
	if err != nil {
		return GetMemberActivityResult{}, failure.Store(err)
	}
	for _, b := range bookings {
		if b.BookingTime.Before(query.From) || !b.BookingTime.Before(query.To) {
			continue
		}
		result.Bookings[b.Status]++
	}
	return result, nil
}
