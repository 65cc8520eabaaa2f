package booking_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"fitclub/internal/domain/booking"
)

var bookNow = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

func newPending() booking.Booking {
	return booking.Booking{ID: "b1", MemberID: "m1", CourseID: "c1", Status: booking.StatusPending, BookingTime: bookNow}
}

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    booking.Status
		apply   func(b *booking.Booking) error
		wantErr error
		want    booking.Status
	}{
		{"confirm pending", booking.StatusPending, func(b *booking.Booking) error { return b.Confirm(bookNow) }, nil, booking.StatusConfirmed},
		{"confirm confirmed", booking.StatusConfirmed, func(b *booking.Booking) error { return b.Confirm(bookNow) }, booking.ErrAlreadyConfirmed, booking.StatusConfirmed},
		{"confirm cancelled", booking.StatusCancelled, func(b *booking.Booking) error { return b.Confirm(bookNow) }, booking.ErrAlreadyCancelled, booking.StatusCancelled},
		{"cancel pending", booking.StatusPending, func(b *booking.Booking) error { return b.Cancel("", bookNow) }, nil, booking.StatusCancelled},
		{"cancel confirmed", booking.StatusConfirmed, func(b *booking.Booking) error { return b.Cancel("sick", bookNow) }, nil, booking.StatusCancelled},
		{"cancel cancelled", booking.StatusCancelled, func(b *booking.Booking) error { return b.Cancel("", bookNow) }, booking.ErrAlreadyCancelled, booking.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newPending()
			b.Status = tt.from
			err := tt.apply(&b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if b.Status != tt.want {
				t.Errorf("status = %q, want %q", b.Status, tt.want)
			}
		})
	}
}

func TestBookingCancelRecordsReason(t *testing.T) {
	b := newPending()
	if err := b.Cancel("schedule clash", bookNow); err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if b.CancelReason != "schedule clash" || !b.CancelledAt.Equal(bookNow) {
		t.Errorf("cancel metadata = (%q, %v)", b.CancelReason, b.CancelledAt)
	}

	long := newPending()
	if err := long.Cancel(strings.Repeat("x", booking.MaxReasonLength+1), bookNow); !errors.Is(err, booking.ErrReasonTooLong) {
		t.Errorf("long reason error = %v, want ErrReasonTooLong", err)
	}
	if long.Status != booking.StatusPending {
		t.Error("rejected cancel must not change status")
	}
}

func TestBookingSeatAndDelete(t *testing.T) {
	b := newPending()
	if b.HoldsSeat() {
		t.Error("pending booking must not hold a seat")
	}
	if err := b.CanDelete(); !errors.Is(err, booking.ErrNotCancelled) {
		t.Errorf("CanDelete(pending) = %v, want ErrNotCancelled", err)
	}
	_ = b.Confirm(bookNow)
	if !b.HoldsSeat() || !b.IsActive() {
		t.Error("confirmed booking should hold a seat and be active")
	}
	_ = b.Cancel("", bookNow)
	if b.HoldsSeat() || b.IsActive() {
		t.Error("cancelled booking should release its seat")
	}
	if err := b.CanDelete(); err != nil {
		t.Errorf("CanDelete(cancelled) = %v, want nil", err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := booking.ParseStatus("confirmed"); err != nil || s != booking.StatusConfirmed {
		t.Errorf("ParseStatus(confirmed) = %q, %v", s, err)
	}
	if _, err := booking.ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) should fail")
	}
}

func TestBookingJSONLeavesUnsetTimesNull(t *testing.T) {
	b := newPending()
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["confirmed_at"] != nil || got["cancelled_at"] != nil {
		t.Errorf("pending booking times = %v / %v, want null", got["confirmed_at"], got["cancelled_at"])
	}
	if got["status"] != "pending" || got["member_id"] != "m1" {
		t.Errorf("unexpected payload %s", raw)
	}

	if err := b.Confirm(bookNow.Add(time.Minute)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	raw, _ = json.Marshal(&b)
	var back booking.Booking
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.ConfirmedAt.Equal(b.ConfirmedAt) || !back.CancelledAt.IsZero() {
		t.Errorf("round trip = %+v", back)
	}
}
