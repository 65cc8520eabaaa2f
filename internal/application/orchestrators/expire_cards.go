package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/domain/failure"
)

// CardExpirer marks lapsed cards as expired.
type CardExpirer interface {
	ExpireLapsed(ctx context.Context, now time.Time) (int, error)
}

// ExpireCardsDeps holds dependencies for ExpireCards.
type ExpireCardsDeps struct {
	CardStore CardExpirer
	Events    events.Publisher // optional
	Now       func() time.Time
}

// ExecuteExpireCards flips active cards whose end date has passed to expired.
// The gate checks end dates itself, so this only keeps stored status honest.
// POST: Returns the number of cards changed; idempotent for a fixed clock
func ExecuteExpireCards(ctx context.Context, deps ExpireCardsDeps) (int, error) {
	now := nowOr(deps.Now)
	n, err := deps.CardStore.ExpireLapsed(ctx, now)
	if err != nil {
		return 0, failure.Store(err)
	}
	if n > 0 {
		log.Info().Str("event", "cards_expired").Int("count", n).Msg("member_event")
		publish(ctx, deps.Events, events.Event{Type: events.CardsExpired, OccurredAt: now, Count: n})
	}
	return n, nil
}
