package orchestrators

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// Capacity rejections.
var (
	ErrCourseNotFound = failure.NotFound("course not found")
	ErrCourseFull     = failure.Constraint("course full")
)

// CapacityDeps holds dependencies for capacity queries.
type CapacityDeps struct {
	CourseStore CourseLookup
}

// ExecuteAvailableSlots returns maxCapacity minus confirmed bookings.
// POST: Returns course.CapacitySentinel for an unknown course; pending
// bookings are not counted
func ExecuteAvailableSlots(ctx context.Context, courseID string, deps CapacityDeps) (int, error) {
	c, err := deps.CourseStore.GetByID(ctx, courseID)
	if errors.Is(err, storage.ErrNotFound) {
		return course.CapacitySentinel, nil
	}
	if err != nil {
		return 0, failure.Store(err)
	}
	confirmed, err := deps.CourseStore.CountConfirmed(ctx, courseID)
	if err != nil {
		return 0, failure.Store(err)
	}
	return c.AvailableSlots(confirmed), nil
}

// ExecuteIsCourseFull reports availableSlots <= 0. An unknown course
// reports full.
func ExecuteIsCourseFull(ctx context.Context, courseID string, deps CapacityDeps) (bool, error) {
	slots, err := ExecuteAvailableSlots(ctx, courseID, deps)
	if err != nil {
		return false, err
	}
	return slots <= 0, nil
}

// CapacityStore is the course store surface needed to change capacity.
type CapacityStore interface {
	CourseLookup
	UpdateCapacity(ctx context.Context, id string, capacity int) error
}

// UpdateCourseCapacityInput carries input for a capacity change.
type UpdateCourseCapacityInput struct {
	CourseID string
	Capacity int
}

// UpdateCourseCapacityDeps holds dependencies for UpdateCourseCapacity.
type UpdateCourseCapacityDeps struct {
	CourseStore CapacityStore
}

// ExecuteUpdateCourseCapacity changes a course's maximum capacity.
// PRE: Capacity > 0
// POST: Rejected when Capacity is below the confirmed bookings at commit time
// INVARIANT: confirmed bookings never exceed capacity
func ExecuteUpdateCourseCapacity(ctx context.Context, input UpdateCourseCapacityInput, deps UpdateCourseCapacityDeps) (course.Course, error) {
	if input.Capacity <= 0 {
		return course.Course{}, failure.Validation("course capacity must be greater than zero")
	}
	if _, err := deps.CourseStore.GetByID(ctx, input.CourseID); err != nil {
		return course.Course{}, lookupErr(err, ErrCourseNotFound)
	}
	confirmed, err := deps.CourseStore.CountConfirmed(ctx, input.CourseID)
	if err != nil {
		return course.Course{}, failure.Store(err)
	}
	if err := course.CheckCapacityChange(input.Capacity, confirmed); err != nil {
		return course.Course{}, failure.Wrap(failure.KindConstraintViolation, err.Error(), err)
	}

	err = deps.CourseStore.UpdateCapacity(ctx, input.CourseID, input.Capacity)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return course.Course{}, failure.Wrap(failure.KindConstraintViolation, course.ErrCapacityBelowConfirmed.Error(), err)
	case errors.Is(err, storage.ErrNotFound):
		return course.Course{}, ErrCourseNotFound
	case err != nil:
		return course.Course{}, failure.Store(err)
	}

	updated, err := deps.CourseStore.GetByID(ctx, input.CourseID)
	if err != nil {
		return course.Course{}, lookupErr(err, ErrCourseNotFound)
	}
	log.Info().Str("event", "course_capacity_changed").Str("course_id", updated.ID).Int("capacity", updated.MaxCapacity).Int("confirmed", confirmed).Msg("course_event")
	return updated, nil
}
