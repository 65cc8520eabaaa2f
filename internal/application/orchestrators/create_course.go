package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// CourseWriter persists courses.
type CourseWriter interface {
	Save(ctx context.Context, c course.Course) error
}

// CreateCourseInput carries input for scheduling a course.
type CreateCourseInput struct {
	Name        string
	EmployeeID  string
	CourseTime  time.Time
	MaxCapacity int
}

// CreateCourseDeps holds dependencies for CreateCourse.
type CreateCourseDeps struct {
	CourseStore CourseWriter
	GenerateID  func() string
}

// ExecuteCreateCourse schedules a new course with no bookings.
// PRE: MaxCapacity > 0
// POST: Course saved with ConfirmedCount=0
func ExecuteCreateCourse(ctx context.Context, input CreateCourseInput, deps CreateCourseDeps) (course.Course, error) {
	c := course.Course{
		ID:          idOr(deps.GenerateID),
		Name:        input.Name,
		EmployeeID:  input.EmployeeID,
		CourseTime:  input.CourseTime,
		MaxCapacity: input.MaxCapacity,
	}
	if err := c.Validate(); err != nil {
		return course.Course{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}
	if err := deps.CourseStore.Save(ctx, c); err != nil {
		return course.Course{}, failure.Store(err)
	}
	log.Info().Str("event", "course_created").Str("course_id", c.ID).Int("capacity", c.MaxCapacity).Time("course_time", c.CourseTime).Msg("course_event")
	return c, nil
}
