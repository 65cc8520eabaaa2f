package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
	"fitclub/internal/domain/member"
	"fitclub/internal/domain/membershipcard"
)

// MemberLookup reads members.
type MemberLookup interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// ActiveCardLookup returns a member's active card with the latest end date.
type ActiveCardLookup interface {
	GetActiveByMemberID(ctx context.Context, memberID string) (membershipcard.Card, error)
}

// CourseLookup reads courses and their confirmed booking count.
type CourseLookup interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	CountConfirmed(ctx context.Context, courseID string) (int, error)
}

// Clock and ID defaults used when a Deps field is left nil.
func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func idOr(gen func() string) string {
	if gen == nil {
		return uuid.New().String()
	}
	return gen()
}

// lookupErr maps a store read error to NotFound(msg) or a store failure.
func lookupErr(err error, notFound *failure.Error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return failure.Store(err)
}

// publish sends e and only logs a broker failure.
func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Msg("event_publish_failed")
	}
}
