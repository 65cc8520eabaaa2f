package checkin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitclub/internal/adapters/storage"
	checkinStore "fitclub/internal/adapters/storage/checkin"
	"fitclub/internal/adapters/storage/storagetest"
	domain "fitclub/internal/domain/checkin"
)

var now = time.Date(2026, 8, 10, 20, 0, 0, 0, time.UTC)

func setup(t *testing.T, members ...string) *checkinStore.SQLStore {
	t.Helper()
	db := storagetest.OpenDB(t)
	for _, m := range members {
		storagetest.SeedMember(t, db, m)
	}
	return checkinStore.NewSQLStore(db)
}

func TestCheckInStore_OneOpenSessionPerMember(t *testing.T) {
	ctx := context.Background()
	store := setup(t, "m1")

	first := domain.CheckIn{ID: "s1", MemberID: "m1", CheckInTime: now}
	require.NoError(t, store.Create(ctx, first))
	err := store.Create(ctx, domain.CheckIn{ID: "s2", MemberID: "m1", CheckInTime: now.Add(time.Minute)})
	require.True(t, errors.Is(err, storage.ErrDuplicate), "got %v", err)

	open, err := store.GetOpenByMemberID(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, "s1", open.ID)
	require.Equal(t, domain.StateOpen, open.State())

	require.NoError(t, open.CheckOut(now.Add(90*time.Minute)))
	require.NoError(t, store.CheckOut(ctx, open))

	_, err = store.GetOpenByMemberID(ctx, "m1")
	require.True(t, errors.Is(err, storage.ErrNotFound))
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "s2", MemberID: "m1", CheckInTime: now.Add(2 * time.Hour)}))
}

func TestCheckInStore_CheckOutClosedSessionConflicts(t *testing.T) {
	ctx := context.Background()
	store := setup(t, "m1")
	s := domain.CheckIn{ID: "s1", MemberID: "m1", CheckInTime: now}
	require.NoError(t, store.Create(ctx, s))
	s.CheckOutTime = now.Add(30 * time.Minute)
	require.NoError(t, store.CheckOut(ctx, s))

	again := s
	again.CheckOutTime = now.Add(time.Hour)
	err := store.CheckOut(ctx, again)
	require.True(t, errors.Is(err, storage.ErrConflict), "got %v", err)

	got, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, got.CheckOutTime.Equal(now.Add(30*time.Minute)), "closed session must keep its first check-out time")
}

func TestCheckInStore_CloseOverdueIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := setup(t, "m1", "m2", "m3")
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "old", MemberID: "m1", CheckInTime: now.Add(-13 * time.Hour)}))
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "fresh", MemberID: "m2", CheckInTime: now.Add(-time.Hour)}))
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "done", MemberID: "m3", CheckInTime: now.Add(-20 * time.Hour), CheckOutTime: now.Add(-19 * time.Hour)}))

	cutoff := now.Add(-12 * time.Hour)
	closed, err := store.CloseOverdue(ctx, cutoff, now)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.Equal(t, "old", closed[0].ID)
	require.True(t, closed[0].AutoClosed)
	require.True(t, closed[0].CheckOutTime.Equal(now))

	closed, err = store.CloseOverdue(ctx, cutoff, now)
	require.NoError(t, err)
	require.Empty(t, closed)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "fresh", open[0].ID)
}

func TestCheckInStore_Ranges(t *testing.T) {
	ctx := context.Background()
	store := setup(t, "m1", "m2")
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "a", MemberID: "m1", CheckInTime: now.Add(-50 * time.Hour), CheckOutTime: now.Add(-49 * time.Hour)}))
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "b", MemberID: "m1", CheckInTime: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Create(ctx, domain.CheckIn{ID: "c", MemberID: "m2", CheckInTime: now.Add(-time.Hour)}))

	day, err := store.ListByDateRange(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, day, 2)
	require.Equal(t, "b", day[0].ID)

	history, err := store.ListByMemberID(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	mine, err := store.ListByMemberIDAndDateRange(ctx, "m1", now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "b", mine[0].ID)
}
