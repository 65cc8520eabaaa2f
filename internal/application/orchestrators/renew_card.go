package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/membershipcard"
)

// ErrCardNotFound is returned for unknown card ids.
var ErrCardNotFound = failure.NotFound("card not found")

// CardStore reads and writes membership cards.
type CardStore interface {
	GetByID(ctx context.Context, id string) (membershipcard.Card, error)
	Save(ctx context.Context, c membershipcard.Card) error
}

// RenewCardInput carries input for a card renewal.
type RenewCardInput struct {
	CardID string
	NewEnd time.Time
}

// RenewCardDeps holds dependencies for RenewCard.
type RenewCardDeps struct {
	CardStore CardStore
}

// ExecuteRenewCard extends a card and reactivates it if it had expired.
// PRE: NewEnd is after the card's current end date
// POST: EndDate = NewEnd, Status = active
func ExecuteRenewCard(ctx context.Context, input RenewCardInput, deps RenewCardDeps) (membershipcard.Card, error) {
	c, err := deps.CardStore.GetByID(ctx, input.CardID)
	if err != nil {
		return membershipcard.Card{}, lookupErr(err, ErrCardNotFound)
	}
	previousEnd := c.EndDate
	if err := c.Renew(input.NewEnd); err != nil {
		if errors.Is(err, membershipcard.ErrCardInactive) {
			return membershipcard.Card{}, failure.Wrap(failure.KindInvalidState, err.Error(), err)
		}
		return membershipcard.Card{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}
	if err := deps.CardStore.Save(ctx, c); err != nil {
		return membershipcard.Card{}, failure.Store(err)
	}
	log.Info().Str("event", "card_renewed").Str("card_id", c.ID).Str("member_id", c.MemberID).Time("previous_end", previousEnd).Time("end_date", c.EndDate).Msg("member_event")
	return c, nil
}
