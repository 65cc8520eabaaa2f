package orchestrators

import (
	"context"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/email"
	"fitclub/internal/application/outcome"
)

// ExecuteBatchConfirmBookings confirms each booking independently.
// POST: One item per id in input order; a failed item changes nothing and
// does not stop the others. Notices go out in one batch at the end
func ExecuteBatchConfirmBookings(ctx context.Context, bookingIDs []string, deps ConfirmBookingDeps) outcome.Batch {
	var result outcome.Batch
	var notices []email.SendRequest
	for _, id := range bookingIDs {
		_, notice, err := confirmBooking(ctx, id, deps)
		result.Add(id, err)
		if notice != nil {
			notices = append(notices, *notice)
		}
	}
	sendBatch(ctx, deps.Mailer, notices)
	log.Info().Str("event", "bookings_batch_confirmed").Int("succeeded", result.Succeeded).Int("failed", result.Failed).Msg("booking_event")
	return result
}

// BatchCancelInput carries input for a batch cancellation.
type BatchCancelInput struct {
	BookingIDs    []string
	Reason        string
	ActorMemberID string
}

// ExecuteBatchCancelBookings cancels each booking independently.
// POST: One item per id in input order; failures do not roll back others
func ExecuteBatchCancelBookings(ctx context.Context, input BatchCancelInput, deps CancelBookingDeps) outcome.Batch {
	var result outcome.Batch
	var notices []email.SendRequest
	for _, id := range input.BookingIDs {
		_, notice, err := cancelBooking(ctx, CancelBookingInput{BookingID: id, Reason: input.Reason, ActorMemberID: input.ActorMemberID}, deps)
		result.Add(id, err)
		if notice != nil {
			notices = append(notices, *notice)
		}
	}
	sendBatch(ctx, deps.Mailer, notices)
	log.Info().Str("event", "bookings_batch_cancelled").Int("succeeded", result.Succeeded).Int("failed", result.Failed).Msg("booking_event")
	return result
}

func sendBatch(ctx context.Context, mailer email.Sender, reqs []email.SendRequest) {
	if mailer == nil || len(reqs) == 0 {
		return
	}
	if _, err := mailer.SendBatch(ctx, reqs); err != nil {
		log.Warn().Err(err).Int("count", len(reqs)).Msg("booking_batch_email_failed")
	}
}
