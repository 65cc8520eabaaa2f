package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/application/listutil"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/failure"
)

func (s *Server) confirmDeps() orchestrators.ConfirmBookingDeps {
	return orchestrators.ConfirmBookingDeps{
		MemberStore:  s.MemberStore,
		CardStore:    s.CardStore,
		CourseStore:  s.CourseStore,
		BookingStore: s.BookingStore,
		Events:       s.Events,
		Mailer:       s.Mailer,
		Now:          s.Now,
	}
}

func (s *Server) cancelDeps() orchestrators.CancelBookingDeps {
	return orchestrators.CancelBookingDeps{
		BookingStore: s.BookingStore,
		MemberStore:  s.MemberStore,
		CourseStore:  s.CourseStore,
		Events:       s.Events,
		Mailer:       s.Mailer,
		Now:          s.Now,
	}
}

func (s *Server) bookingQueryDeps() orchestrators.BookingQueryDeps {
	return orchestrators.BookingQueryDeps{BookingStore: s.BookingStore, Now: s.Now}
}

type createBookingRequest struct {
	MemberID string `json:"member_id"`
	CourseID string `json:"course_id" binding:"required"`
}

// handleCreateBooking answers POST /bookings.
func (s *Server) handleCreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	memberID, err := actingMember(c, req.MemberID)
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	b, err := orchestrators.ExecuteCreateBooking(c.Request.Context(), orchestrators.CreateBookingInput{
		MemberID: memberID,
		CourseID: req.CourseID,
	}, orchestrators.CreateBookingDeps{
		MemberStore:  s.MemberStore,
		CardStore:    s.CardStore,
		CourseStore:  s.CourseStore,
		BookingStore: s.BookingStore,
		Events:       s.Events,
		GenerateID:   s.GenerateID,
		Now:          s.Now,
	})
	if err == nil {
		c.JSON(http.StatusCreated, envelope(b))
		return
	}
	respond(c, b, err)
}

// handleConfirmBooking answers POST /bookings/:id/confirm.
func (s *Server) handleConfirmBooking(c *gin.Context) {
	b, err := orchestrators.ExecuteConfirmBooking(c.Request.Context(), c.Param("id"), s.confirmDeps())
	respond(c, b, err)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// handleCancelBooking answers POST /bookings/:id/cancel. Members may only
// cancel their own bookings; staff may cancel any.
func (s *Server) handleCancelBooking(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	input := orchestrators.CancelBookingInput{BookingID: c.Param("id"), Reason: req.Reason}
	if claims, _ := middleware.ClaimsFrom(c); !claims.IsStaff() {
		input.ActorMemberID = claims.Subject
	}
	b, err := orchestrators.ExecuteCancelBooking(c.Request.Context(), input, s.cancelDeps())
	respond(c, b, err)
}

// handleDeleteBooking answers DELETE /bookings/:id.
func (s *Server) handleDeleteBooking(c *gin.Context) {
	err := orchestrators.ExecuteDeleteBooking(c.Request.Context(), c.Param("id"), orchestrators.DeleteBookingDeps{
		BookingStore: s.BookingStore,
		Events:       s.Events,
		Now:          s.Now,
	})
	respond[any](c, nil, err)
}

// handleGetBooking answers GET /bookings/:id.
func (s *Server) handleGetBooking(c *gin.Context) {
	b, err := orchestrators.ExecuteGetBooking(c.Request.Context(), c.Param("id"), s.bookingQueryDeps())
	if err == nil {
		if _, ferr := actingMember(c, b.MemberID); ferr != nil {
			respond[any](c, nil, ferr)
			return
		}
	}
	respond(c, b, err)
}

// handleListBookings answers GET /bookings with member_id, course_id,
// status, from/to and today filters, paged with page/per_page. Members
// only see their own bookings.
func (s *Server) handleListBookings(c *gin.Context) {
	input := orchestrators.ListBookingsInput{
		MemberID: c.Query("member_id"),
		CourseID: c.Query("course_id"),
		Today:    c.Query("today") == "true",
	}
	if !isStaff(c) {
		memberID, err := actingMember(c, input.MemberID)
		if err != nil {
			respond[any](c, nil, err)
			return
		}
		input.MemberID = memberID
	}
	if v := c.Query("status"); v != "" {
		st, err := booking.ParseStatus(v)
		if err != nil {
			respond[any](c, nil, failure.Validation(err.Error()))
			return
		}
		input.Status = st
	}
	var err error
	if input.From, err = parseTimeParam(c, "from"); err != nil {
		respond[any](c, nil, err)
		return
	}
	if input.To, err = parseTimeParam(c, "to"); err != nil {
		respond[any](c, nil, err)
		return
	}
	list, err := orchestrators.ExecuteListBookings(c.Request.Context(), input, s.bookingQueryDeps())
	respond(c, listutil.Paginate(list, listutil.ParsePageParams(c.Request.URL.Query())), err)
}

type batchRequest struct {
	BookingIDs []string `json:"booking_ids" binding:"required"`
	Reason     string   `json:"reason"`
}

// handleBatchConfirm answers POST /booking-batches/confirm. The status is
// 200 even when some items failed; each item carries its own outcome.
func (s *Server) handleBatchConfirm(c *gin.Context) {
	var req batchRequest
	if !bindJSON(c, &req) {
		return
	}
	result := orchestrators.ExecuteBatchConfirmBookings(c.Request.Context(), req.BookingIDs, s.confirmDeps())
	c.JSON(http.StatusOK, envelope(result))
}

// handleBatchCancel answers POST /booking-batches/cancel.
func (s *Server) handleBatchCancel(c *gin.Context) {
	var req batchRequest
	if !bindJSON(c, &req) {
		return
	}
	result := orchestrators.ExecuteBatchCancelBookings(c.Request.Context(), orchestrators.BatchCancelInput{
		BookingIDs: req.BookingIDs,
		Reason:     req.Reason,
	}, s.cancelDeps())
	c.JSON(http.StatusOK, envelope(result))
}
