package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/membershipcard"
)

// MemberWriter persists members.
type MemberWriter interface {
	Save(ctx context.Context, m member.Member) error
}

// CardWriter persists membership cards.
type CardWriter interface {
	Save(ctx context.Context, c membershipcard.Card) error
}

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name     string
	Email    string
	Phone    string
	CardType string    // empty skips issuing a card
	CardEnd  time.Time // required with CardType
}

// RegisterMemberResult reports both steps. The member may be registered
// even when the card could not be issued.
type RegisterMemberResult struct {
	Member     member.Member       `json:"member"`
	Card       membershipcard.Card `json:"card"`
	CardIssued bool                `json:"card_issued"`
	CardError  string              `json:"card_error,omitempty"`
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberWriter
	CardStore   CardWriter
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRegisterMember creates an active member and, optionally, a first card.
// PRE: non-empty name
// POST: Member saved with Status=active. A failed card step is reported in
// the result and does not undo the member
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (RegisterMemberResult, error) {
	m := member.Member{
		ID:     idOr(deps.GenerateID),
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Status: member.StatusActive,
	}
	if err := m.Validate(); err != nil {
		return RegisterMemberResult{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return RegisterMemberResult{}, failure.Store(err)
	}
	log.Info().Str("event", "member_registered").Str("member_id", m.ID).Msg("member_event")

	result := RegisterMemberResult{Member: m}
	if input.CardType == "" {
		return result, nil
	}

	card := membershipcard.Card{
		ID:        idOr(deps.GenerateID),
		MemberID:  m.ID,
		CardType:  input.CardType,
		StartDate: nowOr(deps.Now),
		EndDate:   input.CardEnd,
		Status:    membershipcard.StatusActive,
	}
	if err := card.Validate(); err != nil {
		result.CardError = err.Error()
		return result, nil
	}
	if err := deps.CardStore.Save(ctx, card); err != nil {
		log.Error().Err(err).Str("member_id", m.ID).Msg("member_card_issue_failed")
		result.CardError = failure.Message(failure.Store(err))
		return result, nil
	}

	log.Info().Str("event", "card_issued").Str("member_id", m.ID).Str("card_id", card.ID).Time("end_date", card.EndDate).Msg("member_event")
	result.Card = card
	result.CardIssued = true
	return result, nil
}
