package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvent_JSONOmitsEmptyFields(t *testing.T) {
	e := Event{Type: CheckInOpened, OccurredAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), MemberID: "m1", CheckInID: "s1"}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"checkin.opened","occurred_at":"2026-08-10T09:00:00Z","member_id":"m1","checkin_id":"s1"}`, string(b))
}

func TestRecorder_KeepsOrder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, Event{Type: BookingCreated}))
	require.NoError(t, r.Publish(ctx, Event{Type: BookingConfirmed}))
	require.Equal(t, []Type{BookingCreated, BookingConfirmed}, r.Types())
	require.Len(t, r.Events(), 2)
}

func TestNoop_NeverFails(t *testing.T) {
	var p Publisher = Noop{}
	require.NoError(t, p.Publish(context.Background(), Event{Type: CardsExpired, Count: 3}))
	require.NoError(t, p.Close())
}
