package orchestrators

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
)

// MemberStatusStore reads members and changes their status.
type MemberStatusStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	UpdateStatus(ctx context.Context, id string, status member.Status) error
}

// SetMemberStatusInput carries input for a status change.
type SetMemberStatusInput struct {
	MemberID string
	Status   member.Status
}

// SetMemberStatusDeps holds dependencies for SetMemberStatus.
type SetMemberStatusDeps struct {
	MemberStore MemberStatusStore
}

// ExecuteSetMemberStatus freezes, unfreezes, or deactivates a member.
// Open sessions and existing bookings are left alone; the gate rejects the
// member's next gated operation.
// PRE: Status is a known member status
// POST: Member status updated
func ExecuteSetMemberStatus(ctx context.Context, input SetMemberStatusInput, deps SetMemberStatusDeps) (member.Member, error) {
	if !input.Status.Valid() {
		return member.Member{}, failure.Validation("status must be 'active', 'frozen', or 'inactive'")
	}
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, lookupErr(err, ErrMemberNotFound)
	}

	prior := m.Status
	switch {
	case input.Status == member.StatusFrozen:
		err = m.Freeze()
	case input.Status == member.StatusActive && m.Status == member.StatusFrozen:
		err = m.Unfreeze()
	default:
		m.Status = input.Status
	}
	if err != nil {
		return member.Member{}, failure.Wrap(failure.KindInvalidState, err.Error(), err)
	}

	if err := deps.MemberStore.UpdateStatus(ctx, m.ID, m.Status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return member.Member{}, ErrMemberNotFound
		}
		return member.Member{}, failure.Store(err)
	}
	log.Info().Str("event", "member_status_changed").Str("member_id", m.ID).Str("from", string(prior)).Str("to", string(m.Status)).Msg("member_event")
	return m, nil
}
