package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fitclub/internal/adapters/email"
	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/http/middleware"
	bookingStore "fitclub/internal/adapters/storage/booking"
	checkinStore "fitclub/internal/adapters/storage/checkin"
	courseStore "fitclub/internal/adapters/storage/course"
	memberStore "fitclub/internal/adapters/storage/member"
	cardStore "fitclub/internal/adapters/storage/membershipcard"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/outcome"
	"fitclub/internal/domain/failure"
	"fitclub/internal/logging"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore  memberStore.Store
	CardStore    cardStore.Store
	CourseStore  courseStore.Store
	BookingStore bookingStore.Store
	CheckInStore checkinStore.Store
}

// Server turns HTTP requests into orchestrator and projection calls.
type Server struct {
	Stores
	Events            events.Publisher
	Mailer            email.Sender
	Now               func() time.Time
	GenerateID        func() string
	AutoCheckoutHours int // overtime threshold shown on occupancy and used by the manual sweep
}

// RouterConfig carries HTTP-only settings.
type RouterConfig struct {
	JWTSecret   []byte
	CORSOrigins []string
	Limiter     *middleware.RateLimiter // per client IP; nil disables
}

// NewRouter builds the gin engine with every route.
// PRE: srv stores are non-nil, cfg.JWTSecret is non-empty
func NewRouter(srv *Server, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(), middleware.SecurityHeaders())
	if len(cfg.CORSOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = cfg.CORSOrigins
		cc.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
		cc.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		r.Use(cors.New(cc))
	}
	if cfg.Limiter != nil {
		r.Use(middleware.RateLimit(cfg.Limiter))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, outcome.Of[any](nil, nil))
	})

	api := r.Group("/api/v1", middleware.Auth(cfg.JWTSecret))
	{
		api.GET("/members/:id/validity", srv.handleValidity)
		api.GET("/members/:id/activity", srv.handleMemberActivity)
		api.GET("/members/:id/checkins", srv.handleMemberSessions)

		api.GET("/courses", srv.handleListCourses)
		api.GET("/courses/:id/slots", srv.handleCourseSlots)

		api.POST("/bookings", srv.handleCreateBooking)
		api.GET("/bookings", srv.handleListBookings)
		api.GET("/bookings/:id", srv.handleGetBooking)
		api.POST("/bookings/:id/cancel", srv.handleCancelBooking)

		api.POST("/checkins", srv.handleCheckIn)
		api.POST("/checkins/checkout", srv.handleCheckOut)
	}

	staff := api.Group("", middleware.RequireRole(middleware.RoleStaff))
	{
		staff.POST("/members", srv.handleRegisterMember)
		staff.PATCH("/members/:id/status", srv.handleSetMemberStatus)
		staff.POST("/cards/:id/renew", srv.handleRenewCard)

		staff.POST("/courses", srv.handleCreateCourse)
		staff.PATCH("/courses/:id/capacity", srv.handleUpdateCapacity)
		staff.GET("/courses/:id/roster", srv.handleCourseRoster)

		staff.POST("/bookings/:id/confirm", srv.handleConfirmBooking)
		staff.DELETE("/bookings/:id", srv.handleDeleteBooking)
		staff.POST("/booking-batches/confirm", srv.handleBatchConfirm)
		staff.POST("/booking-batches/cancel", srv.handleBatchCancel)

		staff.GET("/checkins/open", srv.handleOpenSessions)
		staff.GET("/checkins", srv.handleSessionsInRange)
		staff.GET("/occupancy", srv.handleOccupancy)

		staff.POST("/sweeps/auto-checkout", srv.handleAutoCheckOut)
		staff.POST("/sweeps/expire-cards", srv.handleExpireCards)
	}
	return r
}

// statusFor maps a failure kind to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, errForbidden) || errors.Is(err, orchestrators.ErrNotBookingOwner) {
		return http.StatusForbidden
	}
	switch failure.KindOf(err) {
	case "":
		return http.StatusOK
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindInvalidState, failure.KindConstraintViolation:
		return http.StatusConflict
	case failure.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// respond writes the outcome envelope for (payload, err).
func respond[T any](c *gin.Context, payload T, err error) {
	if err != nil && failure.KindOf(err) == failure.KindStore {
		_ = c.Error(err)
	}
	c.JSON(statusFor(err), outcome.Of(payload, err))
}

// errForbidden rejects a member acting for someone else.
var errForbidden = failure.InvalidState("members may only act for themselves")

// actingMember resolves whose behalf the request is on. Members act for
// themselves; staff must name the member.
func actingMember(c *gin.Context, requested string) (string, error) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims.IsStaff() {
		if requested == "" {
			return "", failure.Validation("member_id is required")
		}
		return requested, nil
	}
	if requested != "" && requested != claims.Subject {
		return "", errForbidden
	}
	return claims.Subject, nil
}

// bindJSON decodes the body, reporting malformed input as a validation failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond[any](c, nil, failure.Wrap(failure.KindValidation, "malformed request body", err))
		return false
	}
	return true
}

// parseTimeParam reads an RFC3339 query parameter; empty yields the zero time.
func parseTimeParam(c *gin.Context, name string) (time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, failure.Validation(name + " must be an RFC3339 timestamp")
	}
	return t, nil
}

func envelope[T any](payload T) outcome.Result[T] {
	return outcome.Of(payload, nil)
}

func isStaff(c *gin.Context) bool {
	claims, _ := middleware.ClaimsFrom(c)
	return claims.IsStaff()
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
