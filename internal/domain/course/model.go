package course

import (
	"errors"
	"strings"
	"time"
)

// CapacitySentinel is returned by availability lookups when the course
// does not exist. It is distinct from 0, which means the course is full.
const CapacitySentinel = -1

// MaxNameLength bounds the course title.
const MaxNameLength = 120

// ErrCapacityBelowConfirmed rejects shrinking a course under its bookings.
var ErrCapacityBelowConfirmed = errors.New("capacity cannot be lower than the number of confirmed bookings")

// Course is a scheduled class led by a trainer.
type Course struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EmployeeID     string    `json:"employee_id"`
	CourseTime     time.Time `json:"course_time"`
	MaxCapacity    int       `json:"max_capacity"`
	ConfirmedCount int       `json:"confirmed_count"` // maintained by the store alongside booking confirmations
}

// Validate checks if the Course has valid data.
// PRE: Course struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MaxCapacity > 0
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("course name cannot be empty")
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("course name cannot exceed 120 characters")
	}
	if c.EmployeeID == "" {
		return errors.New("course must have a trainer")
	}
	if c.CourseTime.IsZero() {
		return errors.New("course time must be set")
	}
	if c.MaxCapacity <= 0 {
		return errors.New("course capacity must be greater than zero")
	}
	return nil
}

// AvailableSlots returns remaining seats given the confirmed booking count.
// The result may be negative if the data was altered outside the core.
func (c *Course) AvailableSlots(confirmed int) int {
	return c.MaxCapacity - confirmed
}

// CheckCapacityChange validates an admin capacity update.
// PRE: confirmed is the current confirmed booking count
// POST: Returns error if newCapacity is not positive or below confirmed
func CheckCapacityChange(newCapacity, confirmed int) error {
	if newCapacity <= 0 {
		return errors.New("course capacity must be greater than zero")
	}
	if newCapacity < confirmed {
		return ErrCapacityBelowConfirmed
	}
	return nil
}
