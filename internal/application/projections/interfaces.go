package projections

import (
	"context"
	"time"

	domainBooking "fitclub/internal/domain/booking"
	domainCheckIn "fitclub/internal/domain/checkin"
	domainCourse "fitclub/internal/domain/course"
	domainMember "fitclub/internal/domain/member"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
}

// CourseStore interface for course queries.
type CourseStore interface {
	GetByID(ctx context.Context, id string) (domainCourse.Course, error)
	CountConfirmed(ctx context.Context, courseID string) (int, error)
}

// BookingStore interface for booking queries.
type BookingStore interface {
	ListByCourse(ctx context.Context, courseID string) ([]domainBooking.Booking, error)
	ListByMember(ctx context.Context, memberID string) ([]domainBooking.Booking, error)
}

// CheckInStore interface for session queries.
type CheckInStore interface {
	ListOpen(ctx context.Context) ([]domainCheckIn.CheckIn, error)
	GetOpenByMemberID(ctx context.Context, memberID string) (domainCheckIn.CheckIn, error)
	ListByMemberIDAndDateRange(ctx context.Context, memberID string, from, to time.Time) ([]domainCheckIn.CheckIn, error)
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
