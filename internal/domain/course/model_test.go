package course_test

import (
	"errors"
	"testing"
	"time"

	"fitclub/internal/domain/course"
)

func TestCourseValidate(t *testing.T) {
	at := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		course  course.Course
		wantErr bool
	}{
		{"valid", course.Course{Name: "Spin", EmployeeID: "e1", CourseTime: at, MaxCapacity: 12}, false},
		{"zero capacity", course.Course{Name: "Spin", EmployeeID: "e1", CourseTime: at, MaxCapacity: 0}, true},
		{"negative capacity", course.Course{Name: "Spin", EmployeeID: "e1", CourseTime: at, MaxCapacity: -3}, true},
		{"no trainer", course.Course{Name: "Spin", CourseTime: at, MaxCapacity: 12}, true},
		{"no time", course.Course{Name: "Spin", EmployeeID: "e1", MaxCapacity: 12}, true},
		{"blank name", course.Course{Name: " ", EmployeeID: "e1", CourseTime: at, MaxCapacity: 12}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCourseAvailableSlots(t *testing.T) {
	c := course.Course{MaxCapacity: 5}
	if got := c.AvailableSlots(2); got != 3 {
		t.Errorf("AvailableSlots(2) = %d, want 3", got)
	}
	if got := c.AvailableSlots(5); got != 0 {
		t.Errorf("AvailableSlots(5) = %d, want 0", got)
	}
}

func TestCheckCapacityChange(t *testing.T) {
	if err := course.CheckCapacityChange(4, 4); err != nil {
		t.Errorf("equal to confirmed should pass, got %v", err)
	}
	if err := course.CheckCapacityChange(3, 4); !errors.Is(err, course.ErrCapacityBelowConfirmed) {
		t.Errorf("below confirmed error = %v, want ErrCapacityBelowConfirmed", err)
	}
	if err := course.CheckCapacityChange(0, 0); err == nil {
		t.Error("zero capacity should be rejected")
	}
}
