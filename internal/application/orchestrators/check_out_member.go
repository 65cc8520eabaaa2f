package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/checkin"
	"fitclub/internal/domain/failure"
)

// CheckInCloser is the check-in store surface needed to close sessions.
type CheckInCloser interface {
	GetByID(ctx context.Context, id string) (checkin.CheckIn, error)
	GetOpenByMemberID(ctx context.Context, memberID string) (checkin.CheckIn, error)
	CheckOut(ctx context.Context, value checkin.CheckIn) error
}

// Session is a closed visit with its length.
type Session struct {
	CheckIn         checkin.CheckIn `json:"checkin"`
	DurationMinutes int64           `json:"duration_minutes"`
	DurationText    string          `json:"duration_text"`
}

// NewSession derives the duration fields of c, using now for open sessions.
func NewSession(c checkin.CheckIn, now time.Time) Session {
	minutes := checkin.DurationMinutes(c.Duration(now))
	return Session{CheckIn: c, DurationMinutes: minutes, DurationText: checkin.FormatMinutes(minutes)}
}

// CheckOutMemberInput identifies the session to close. Exactly one field is set.
type CheckOutMemberInput struct {
	MemberID  string
	CheckInID string
}

// CheckOutMemberDeps holds dependencies for CheckOutMember.
type CheckOutMemberDeps struct {
	CheckInStore CheckInCloser
	Events       events.Publisher // optional
	Now          func() time.Time
}

// ExecuteCheckOutMember closes a session with CheckOutTime=now.
// Checkout is not gated by membership validity: a frozen member can still leave.
// PRE: the session is open
// POST: Returns the closed session with its duration; a closed session is
// never modified
func ExecuteCheckOutMember(ctx context.Context, input CheckOutMemberInput, deps CheckOutMemberDeps) (Session, error) {
	if (input.MemberID == "") == (input.CheckInID == "") {
		return Session{}, failure.Validation("give either a member or a check-in id")
	}

	var (
		c   checkin.CheckIn
		err error
	)
	if input.CheckInID != "" {
		c, err = deps.CheckInStore.GetByID(ctx, input.CheckInID)
		if err != nil {
			return Session{}, lookupErr(err, ErrCheckInNotFound)
		}
	} else {
		c, err = deps.CheckInStore.GetOpenByMemberID(ctx, input.MemberID)
		if err != nil {
			return Session{}, lookupErr(err, ErrNoOpenSession)
		}
	}

	now := nowOr(deps.Now)
	if err := c.CheckOut(now); err != nil {
		if errors.Is(err, checkin.ErrAlreadyCheckedOut) {
			return Session{}, ErrSessionClosed
		}
		return Session{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}

	if err := deps.CheckInStore.CheckOut(ctx, c); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return Session{}, ErrSessionClosed
		}
		return Session{}, failure.Store(err)
	}

	s := NewSession(c, now)
	log.Info().Str("event", "member_checked_out").Str("checkin_id", c.ID).Str("member_id", c.MemberID).Int64("minutes", s.DurationMinutes).Msg("checkin_event")
	publish(ctx, deps.Events, events.Event{Type: events.CheckInClosed, OccurredAt: now, MemberID: c.MemberID, CheckInID: c.ID})
	return s, nil
}
