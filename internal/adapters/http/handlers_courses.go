package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/projections"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// slotsView is the payload of GET /courses/:id/slots.
type slotsView struct {
	CourseID       string `json:"course_id"`
	AvailableSlots int    `json:"available_slots"`
	IsFull         bool   `json:"is_full"`
}

// handleCourseSlots answers GET /courses/:id/slots. An unknown course
// reports the sentinel and is treated as full.
func (s *Server) handleCourseSlots(c *gin.Context) {
	slots, err := orchestrators.ExecuteAvailableSlots(c.Request.Context(), c.Param("id"), orchestrators.CapacityDeps{CourseStore: s.CourseStore})
	respond(c, slotsView{CourseID: c.Param("id"), AvailableSlots: slots, IsFull: slots <= 0}, err)
}

// handleListCourses answers GET /courses?from=&to=; from defaults to now.
func (s *Server) handleListCourses(c *gin.Context) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	if from.IsZero() {
		from = s.now()
	}
	list, err := s.CourseStore.List(c.Request.Context(), from, to)
	if err != nil {
		err = failure.Store(err)
	}
	if list == nil {
		list = []course.Course{}
	}
	respond(c, list, err)
}

type createCourseRequest struct {
	Name        string    `json:"name" binding:"required"`
	EmployeeID  string    `json:"employee_id" binding:"required"`
	CourseTime  time.Time `json:"course_time" binding:"required"`
	MaxCapacity int       `json:"max_capacity"`
}

// handleCreateCourse answers POST /courses.
func (s *Server) handleCreateCourse(c *gin.Context) {
	var req createCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := orchestrators.ExecuteCreateCourse(c.Request.Context(), orchestrators.CreateCourseInput{
		Name:        req.Name,
		EmployeeID:  req.EmployeeID,
		CourseTime:  req.CourseTime,
		MaxCapacity: req.MaxCapacity,
	}, orchestrators.CreateCourseDeps{CourseStore: s.CourseStore, GenerateID: s.GenerateID})
	if err == nil {
		c.JSON(http.StatusCreated, envelope(created))
		return
	}
	respond(c, created, err)
}

type capacityRequest struct {
	MaxCapacity int `json:"max_capacity"`
}

// handleUpdateCapacity answers PATCH /courses/:id/capacity.
func (s *Server) handleUpdateCapacity(c *gin.Context) {
	var req capacityRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := orchestrators.ExecuteUpdateCourseCapacity(c.Request.Context(), orchestrators.UpdateCourseCapacityInput{
		CourseID: c.Param("id"),
		Capacity: req.MaxCapacity,
	}, orchestrators.UpdateCourseCapacityDeps{CourseStore: s.CourseStore})
	respond(c, updated, err)
}

// handleCourseRoster answers GET /courses/:id/roster.
func (s *Server) handleCourseRoster(c *gin.Context) {
	roster, err := projections.QueryGetCourseRoster(c.Request.Context(), c.Param("id"), projections.GetCourseRosterDeps{
		CourseStore:  s.CourseStore,
		BookingStore: s.BookingStore,
		MemberStore:  s.MemberStore,
	})
	respond(c, roster, err)
}
