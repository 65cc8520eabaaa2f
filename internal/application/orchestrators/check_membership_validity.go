package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
)

// Gate rejections. Each message is shown to the member as is.
var (
	ErrMemberNotFound = failure.NotFound("member not found")
	ErrMemberFrozen   = failure.InvalidState("member frozen")
	ErrMemberInactive = failure.InvalidState("member inactive")
	ErrNoValidCard    = failure.InvalidState("no valid card")
)

// Validity is the gate verdict with its reason when invalid.
type Validity struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// MembershipValidityDeps holds dependencies for the membership gate.
type MembershipValidityDeps struct {
	MemberStore MemberLookup
	CardStore   ActiveCardLookup
	Now         func() time.Time
}

// ExecuteCheckMembershipValidity reports whether a member may book or check in.
// PRE: none; unknown ids are answered, not rejected
// POST: Valid iff the member exists, is active, and holds an active card
// whose end date is not before now. Only a store failure is returned as error
func ExecuteCheckMembershipValidity(ctx context.Context, memberID string, deps MembershipValidityDeps) (Validity, error) {
	_, err := requireValidMembership(ctx, memberID, deps)
	if err == nil {
		return Validity{Valid: true}, nil
	}
	if failure.KindOf(err) == failure.KindStore {
		return Validity{}, err
	}
	return Validity{Reason: failure.Message(err)}, nil
}

// requireValidMembership evaluates the gate and returns the member on success.
// It is called fresh by every gated operation; the verdict is never cached.
func requireValidMembership(ctx context.Context, memberID string, deps MembershipValidityDeps) (member.Member, error) {
	if memberID == "" {
		return member.Member{}, ErrMemberNotFound
	}
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return member.Member{}, lookupErr(err, ErrMemberNotFound)
	}
	switch m.Status {
	case member.StatusActive:
	case member.StatusFrozen:
		return m, ErrMemberFrozen
	default:
		return m, ErrMemberInactive
	}

	card, err := deps.CardStore.GetActiveByMemberID(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return m, ErrNoValidCard
	}
	if err != nil {
		return m, failure.Store(err)
	}
	if !card.IsValidAt(nowOr(deps.Now)) {
		log.Debug().Str("member_id", memberID).Str("card_id", card.ID).Time("end_date", card.EndDate).Msg("membership_card_lapsed")
		return m, ErrNoValidCard
	}
	return m, nil
}
