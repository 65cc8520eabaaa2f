package projections

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// RosterEntry is one booking on a course roster.
type RosterEntry struct {
	BookingID   string    `json:"booking_id"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	BookingTime time.Time `json:"booking_time"`
}

// GetCourseRosterResult carries the query result.
type GetCourseRosterResult struct {
	Course         course.Course `json:"course"`
	Confirmed      []RosterEntry `json:"confirmed"`
	Pending        []RosterEntry `json:"pending"`
	CancelledCount int           `json:"cancelled_count"`
	AvailableSlots int           `json:"available_slots"`
}

// GetCourseRosterDeps holds dependencies for GetCourseRoster.
type GetCourseRosterDeps struct {
	CourseStore  CourseStore
	BookingStore BookingStore
	MemberStore  MemberStore
}

// QueryGetCourseRoster returns who is confirmed and who is waiting for a course.
// PRE: courseID is non-empty
// POST: AvailableSlots counts confirmed bookings only
func QueryGetCourseRoster(ctx context.Context, courseID string, deps GetCourseRosterDeps) (GetCourseRosterResult, error) {
	c, err := deps.CourseStore.GetByID(ctx, courseID)
	if errors.Is(err, storage.ErrNotFound) {
		return GetCourseRosterResult{}, failure.NotFound("course not found")
	}
	if err != nil {
		return GetCourseRosterResult{}, failure.Store(err)
	}
	list, err := deps.BookingStore.ListByCourse(ctx, courseID)
	if err != nil {
		return GetCourseRosterResult{}, failure.Store(err)
	}

	result := GetCourseRosterResult{Course: c, Confirmed: []RosterEntry{}, Pending: []RosterEntry{}}
	names := map[string]string{}
	for _, b := range list {
		if b.Status == booking.StatusCancelled {
			result.CancelledCount++
			continue
		}
		name, ok := names[b.MemberID]
		if !ok {
			if m, err := deps.MemberStore.GetByID(ctx, b.MemberID); err == nil {
				name = m.Name
			}
			names[b.MemberID] = name
		}
		entry := RosterEntry{BookingID: b.ID, MemberID: b.MemberID, MemberName: name, BookingTime: b.BookingTime}
		if b.Status == booking.StatusConfirmed {
			result.Confirmed = append(result.Confirmed, entry)
		} else {
			result.Pending = append(result.Pending, entry)
		}
	}
	result.AvailableSlots = c.AvailableSlots(len(result.Confirmed))
	return result, nil
}
