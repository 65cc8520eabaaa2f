package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/membershipcard"
)

var fixedTime = time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

var errDiskGone = errors.New("disk I/O error")

// mockMemberStore implements MemberLookup.
type mockMemberStore struct {
	members map[string]member.Member
	err     error
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	if m.err != nil {
		return member.Member{}, m.err
	}
	v, ok := m.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return v, nil
}

// mockCardStore implements ActiveCardLookup keyed by member id.
type mockCardStore struct {
	cards map[string]membershipcard.Card
	err   error
}

func (m *mockCardStore) GetActiveByMemberID(_ context.Context, memberID string) (membershipcard.Card, error) {
	if m.err != nil {
		return membershipcard.Card{}, m.err
	}
	c, ok := m.cards[memberID]
	if !ok || c.Status != membershipcard.StatusActive {
		return membershipcard.Card{}, fmt.Errorf("card: %w", storage.ErrNotFound)
	}
	return c, nil
}

// mockCourseStore implements CourseLookup.
type mockCourseStore struct {
	courses   map[string]course.Course
	confirmed map[string]int
}

func (m *mockCourseStore) GetByID(_ context.Context, id string) (course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return course.Course{}, fmt.Errorf("course %s: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (m *mockCourseStore) CountConfirmed(_ context.Context, courseID string) (int, error) {
	return m.confirmed[courseID], nil
}

// mockBookingStore implements the booking store surfaces with injectable
// commit errors.
type mockBookingStore struct {
	bookings   map[string]booking.Booking
	confirmErr error
	cancelErr  error
	createErr  error
}

func (m *mockBookingStore) GetByID(_ context.Context, id string) (booking.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	return b, nil
}

func (m *mockBookingStore) FindActive(_ context.Context, memberID, courseID string) (booking.Booking, error) {
	for _, b := range m.bookings {
		if b.MemberID == memberID && b.CourseID == courseID && b.IsActive() {
			return b, nil
		}
	}
	return booking.Booking{}, storage.ErrNotFound
}

func (m *mockBookingStore) Create(_ context.Context, b booking.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingStore) Confirm(_ context.Context, b booking.Booking) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingStore) Cancel(_ context.Context, b booking.Booking, _ booking.Status) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.bookings[b.ID] = b
	return nil
}

// mockCheckInStore implements CheckInOpener and CheckInCloser.
type mockCheckInStore struct {
	sessions    map[string]checkin.CheckIn
	checkOutErr error
}

func (m *mockCheckInStore) GetByID(_ context.Context, id string) (checkin.CheckIn, error) {
	c, ok := m.sessions[id]
	if !ok {
		return checkin.CheckIn{}, storage.ErrNotFound
	}
	return c, nil
}

func (m *mockCheckInStore) GetOpenByMemberID(_ context.Context, memberID string) (checkin.CheckIn, error) {
	for _, c := range m.sessions {
		if c.MemberID == memberID && !c.IsCheckedOut() {
			return c, nil
		}
	}
	return checkin.CheckIn{}, storage.ErrNotFound
}

func (m *mockCheckInStore) Create(_ context.Context, c checkin.CheckIn) error {
	m.sessions[c.ID] = c
	return nil
}

func (m *mockCheckInStore) CheckOut(_ context.Context, c checkin.CheckIn) error {
	if m.checkOutErr != nil {
		return m.checkOutErr
	}
	m.sessions[c.ID] = c
	return nil
}

func activeMember(id string) member.Member {
	return member.Member{ID: id, Name: "Member " + id, Status: member.StatusActive}
}

func validCard(memberID string) membershipcard.Card {
	return membershipcard.Card{ID: "card-" + memberID, MemberID: memberID, CardType: membershipcard.TypeMonthly,
		StartDate: fixedTime.AddDate(0, -1, 0), EndDate: fixedTime.AddDate(0, 1, 0), Status: membershipcard.StatusActive}
}
