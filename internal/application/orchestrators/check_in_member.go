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

// Check-in rejections.
var (
	ErrAlreadyCheckedIn = failure.Constraint("already checked in")
	ErrCheckInNotFound  = failure.NotFound("check-in not found")
	ErrNoOpenSession    = failure.InvalidState("no open session")
	ErrSessionClosed    = failure.InvalidState("session is already checked out")
)

// CheckInOpener is the check-in store surface needed to open sessions.
type CheckInOpener interface {
	GetOpenByMemberID(ctx context.Context, memberID string) (checkin.CheckIn, error)
	Create(ctx context.Context, value checkin.CheckIn) error
}

// CheckInMemberInput carries input for the check-in orchestrator.
type CheckInMemberInput struct {
	MemberID string
}

// CheckInMemberDeps holds dependencies for CheckInMember.
type CheckInMemberDeps struct {
	MemberStore  MemberLookup
	CardStore    ActiveCardLookup
	CheckInStore CheckInOpener
	Events       events.Publisher // optional
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCheckInMember opens a facility session for a member.
// PRE: MemberID passes the membership gate
// POST: CheckIn created with CheckInTime=now and no check-out time
// INVARIANT: at most one open session per member
func ExecuteCheckInMember(ctx context.Context, input CheckInMemberInput, deps CheckInMemberDeps) (checkin.CheckIn, error) {
	now := nowOr(deps.Now)
	gate := MembershipValidityDeps{MemberStore: deps.MemberStore, CardStore: deps.CardStore, Now: func() time.Time { return now }}
	m, err := requireValidMembership(ctx, input.MemberID, gate)
	if err != nil {
		return checkin.CheckIn{}, err
	}

	_, err = deps.CheckInStore.GetOpenByMemberID(ctx, input.MemberID)
	switch {
	case err == nil:
		return checkin.CheckIn{}, ErrAlreadyCheckedIn
	case !errors.Is(err, storage.ErrNotFound):
		return checkin.CheckIn{}, failure.Store(err)
	}

	c := checkin.CheckIn{
		ID:          idOr(deps.GenerateID),
		MemberID:    input.MemberID,
		CheckInTime: now,
	}
	if err := c.Validate(); err != nil {
		return checkin.CheckIn{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}

	if err := deps.CheckInStore.Create(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return checkin.CheckIn{}, ErrAlreadyCheckedIn
		}
		return checkin.CheckIn{}, failure.Store(err)
	}

	log.Info().Str("event", "member_checked_in").Str("checkin_id", c.ID).Str("member_id", c.MemberID).Str("name", m.Name).Msg("checkin_event")
	publish(ctx, deps.Events, events.Event{Type: events.CheckInOpened, OccurredAt: now, MemberID: c.MemberID, CheckInID: c.ID})
	return c, nil
}
