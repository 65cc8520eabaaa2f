package booking_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitclub/internal/adapters/storage"
	bookingStore "fitclub/internal/adapters/storage/booking"
	courseStore "fitclub/internal/adapters/storage/course"
	"fitclub/internal/adapters/storage/storagetest"
	domain "fitclub/internal/domain/booking"
)

var now = time.Date(2026, 8, 10, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T, capacity int, members ...string) (*sql.DB, *bookingStore.SQLStore) {
	t.Helper()
	db := storagetest.OpenDB(t)
	storagetest.SeedCourse(t, db, "c1", capacity)
	for _, m := range members {
		storagetest.SeedMember(t, db, m)
	}
	return db, bookingStore.NewSQLStore(db)
}

func pending(id, memberID string) domain.Booking {
	return domain.Booking{ID: id, MemberID: memberID, CourseID: "c1", Status: domain.StatusPending, BookingTime: now}
}

func confirmedCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	n, err := courseStore.NewSQLStore(db).CountConfirmed(context.Background(), "c1")
	require.NoError(t, err)
	var counter int
	require.NoError(t, db.QueryRow("SELECT confirmed_count FROM course WHERE id = 'c1'").Scan(&counter))
	require.Equal(t, n, counter, "counter drifted from confirmed rows")
	return n
}

func TestBookingStore_CreateRejectsSecondActiveBooking(t *testing.T) {
	ctx := context.Background()
	_, store := setup(t, 5, "m1")

	require.NoError(t, store.Create(ctx, pending("b1", "m1")))
	err := store.Create(ctx, pending("b2", "m1"))
	require.True(t, errors.Is(err, storage.ErrDuplicate), "got %v", err)

	active, err := store.FindActive(ctx, "m1", "c1")
	require.NoError(t, err)
	require.Equal(t, "b1", active.ID)

	b := active
	require.NoError(t, b.Cancel("", now))
	require.NoError(t, store.Cancel(ctx, b, domain.StatusPending))

	_, err = store.FindActive(ctx, "m1", "c1")
	require.True(t, errors.Is(err, storage.ErrNotFound))
	require.NoError(t, store.Create(ctx, pending("b2", "m1")), "a cancelled booking must not block rebooking")
}

func TestBookingStore_ConfirmTakesSeat(t *testing.T) {
	ctx := context.Background()
	db, store := setup(t, 1, "m1", "m2")
	require.NoError(t, store.Create(ctx, pending("b1", "m1")))
	require.NoError(t, store.Create(ctx, pending("b2", "m2")))

	b1, err := store.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.NoError(t, b1.Confirm(now))
	require.NoError(t, store.Confirm(ctx, b1))
	require.Equal(t, 1, confirmedCount(t, db))

	err = store.Confirm(ctx, b1)
	require.True(t, errors.Is(err, storage.ErrConflict), "second confirm of same row, got %v", err)

	b2, err := store.GetByID(ctx, "b2")
	require.NoError(t, err)
	require.NoError(t, b2.Confirm(now))
	err = store.Confirm(ctx, b2)
	require.True(t, errors.Is(err, storage.ErrCapacityReached), "got %v", err)

	stored, err := store.GetByID(ctx, "b2")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stored.Status, "failed confirm must roll back")
	require.True(t, stored.ConfirmedAt.IsZero())
	require.Equal(t, 1, confirmedCount(t, db))
}

func TestBookingStore_CancelConfirmedFreesSeat(t *testing.T) {
	ctx := context.Background()
	db, store := setup(t, 1, "m1")
	b := pending("b1", "m1")
	require.NoError(t, store.Create(ctx, b))
	require.NoError(t, b.Confirm(now))
	require.NoError(t, store.Confirm(ctx, b))

	require.NoError(t, b.Cancel("injured", now.Add(time.Hour)))
	require.NoError(t, store.Cancel(ctx, b, domain.StatusConfirmed))
	require.Equal(t, 0, confirmedCount(t, db))

	got, err := store.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, got.Status)
	require.Equal(t, "injured", got.CancelReason)
	require.True(t, got.CancelledAt.Equal(now.Add(time.Hour)))

	err = store.Cancel(ctx, b, domain.StatusConfirmed)
	require.True(t, errors.Is(err, storage.ErrConflict), "got %v", err)
	require.Equal(t, 0, confirmedCount(t, db))
}

func TestBookingStore_Delete(t *testing.T) {
	ctx := context.Background()
	_, store := setup(t, 2, "m1")
	b := pending("b1", "m1")
	require.NoError(t, store.Create(ctx, b))

	err := store.Delete(ctx, "b1")
	require.True(t, errors.Is(err, storage.ErrConflict), "got %v", err)

	require.NoError(t, b.Cancel("", now))
	require.NoError(t, store.Cancel(ctx, b, domain.StatusPending))
	require.NoError(t, store.Delete(ctx, "b1"))

	err = store.Delete(ctx, "b1")
	require.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
}

func TestBookingStore_Listings(t *testing.T) {
	ctx := context.Background()
	db, store := setup(t, 5, "m1", "m2")
	storagetest.SeedCourse(t, db, "c2", 5)

	early := pending("b1", "m1")
	early.BookingTime = now.Add(-48 * time.Hour)
	require.NoError(t, store.Create(ctx, early))
	require.NoError(t, store.Create(ctx, pending("b2", "m2")))
	other := pending("b3", "m1")
	other.CourseID = "c2"
	require.NoError(t, store.Create(ctx, other))

	byMember, err := store.ListByMember(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, byMember, 2)
	require.Equal(t, "b1", byMember[0].ID)

	byCourse, err := store.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCourse, 2)

	byStatus, err := store.ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, byStatus, 3)

	inRange, err := store.ListByDateRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, inRange, 2)
}

func TestBookingStore_ConcurrentConfirmNeverOverbooks(t *testing.T) {
	ctx := context.Background()
	const capacity, contenders = 3, 12
	members := make([]string, contenders)
	for i := range members {
		members[i] = fmt.Sprintf("m%d", i)
	}
	db, store := setup(t, capacity, members...)
	for i, m := range members {
		require.NoError(t, store.Create(ctx, pending(fmt.Sprintf("b%d", i), m)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := store.GetByID(ctx, fmt.Sprintf("b%d", i))
			if err != nil {
				errs <- err
				return
			}
			if err := b.Confirm(now); err != nil {
				errs <- err
				return
			}
			errs <- store.Confirm(ctx, b)
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, errors.Is(err, storage.ErrCapacityReached), "unexpected error %v", err)
	}
	require.Equal(t, capacity, succeeded)
	require.Equal(t, capacity, confirmedCount(t, db))
}
