package web

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitclub/internal/application/listutil"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/projections"
	"fitclub/internal/domain/failure"
)

type checkInRequest struct {
	MemberID string `json:"member_id"`
}

// handleCheckIn answers POST /checkins.
func (s *Server) handleCheckIn(c *gin.Context) {
	var req checkInRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	memberID, err := actingMember(c, req.MemberID)
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	opened, err := orchestrators.ExecuteCheckInMember(c.Request.Context(), orchestrators.CheckInMemberInput{MemberID: memberID}, orchestrators.CheckInMemberDeps{
		MemberStore:  s.MemberStore,
		CardStore:    s.CardStore,
		CheckInStore: s.CheckInStore,
		Events:       s.Events,
		GenerateID:   s.GenerateID,
		Now:          s.Now,
	})
	respond(c, opened, err)
}

type checkOutRequest struct {
	MemberID  string `json:"member_id"`
	CheckInID string `json:"checkin_id"`
}

// handleCheckOut answers POST /checkins/checkout. Staff may close by session
// id or member id; members close their own open session.
func (s *Server) handleCheckOut(c *gin.Context) {
	var req checkOutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	input := orchestrators.CheckOutMemberInput{MemberID: req.MemberID, CheckInID: req.CheckInID}
	if !isStaff(c) {
		memberID, err := actingMember(c, req.MemberID)
		if err != nil {
			respond[any](c, nil, err)
			return
		}
		input = orchestrators.CheckOutMemberInput{MemberID: memberID}
	}
	session, err := orchestrators.ExecuteCheckOutMember(c.Request.Context(), input, orchestrators.CheckOutMemberDeps{
		CheckInStore: s.CheckInStore,
		Events:       s.Events,
		Now:          s.Now,
	})
	respond(c, session, err)
}

func (s *Server) checkInQueryDeps() orchestrators.CheckInQueryDeps {
	return orchestrators.CheckInQueryDeps{CheckInStore: s.CheckInStore, Now: s.Now}
}

// handleOpenSessions answers GET /checkins/open.
func (s *Server) handleOpenSessions(c *gin.Context) {
	list, err := orchestrators.ExecuteListOpenSessions(c.Request.Context(), s.checkInQueryDeps())
	respond(c, nonNil(list), err)
}

// handleMemberSessions answers GET /members/:id/checkins.
func (s *Server) handleMemberSessions(c *gin.Context) {
	memberID, err := actingMember(c, c.Param("id"))
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	list, err := orchestrators.ExecuteListMemberSessions(c.Request.Context(), memberID, s.checkInQueryDeps())
	respond(c, listutil.Paginate(list, listutil.ParsePageParams(c.Request.URL.Query())), err)
}

// handleSessionsInRange answers GET /checkins?from=&to=&page=&per_page=.
func (s *Server) handleSessionsInRange(c *gin.Context) {
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
	list, err := orchestrators.ExecuteListSessionsInRange(c.Request.Context(), from, to, s.checkInQueryDeps())
	respond(c, listutil.Paginate(list, listutil.ParsePageParams(c.Request.URL.Query())), err)
}

// handleOccupancy answers GET /occupancy.
func (s *Server) handleOccupancy(c *gin.Context) {
	result, err := projections.QueryGetOccupancy(c.Request.Context(), projections.GetOccupancyDeps{
		CheckInStore:  s.CheckInStore,
		MemberStore:   s.MemberStore,
		OvertimeAfter: time.Duration(s.AutoCheckoutHours) * time.Hour,
		Now:           s.Now,
	})
	respond(c, result, err)
}

// handleAutoCheckOut answers POST /sweeps/auto-checkout?max_hours=N. Without
// max_hours the configured threshold applies.
func (s *Server) handleAutoCheckOut(c *gin.Context) {
	maxHours := s.AutoCheckoutHours
	if v := c.Query("max_hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond[any](c, nil, failure.Validation("max_hours must be a whole number"))
			return
		}
		maxHours = n
	}
	result, err := orchestrators.ExecuteAutoCheckOut(c.Request.Context(), maxHours, orchestrators.AutoCheckOutDeps{
		CheckInStore: s.CheckInStore,
		Events:       s.Events,
		Now:          s.Now,
	})
	respond(c, result, err)
}

// expiredView is the payload of POST /sweeps/expire-cards.
type expiredView struct {
	Expired int `json:"expired"`
}

// handleExpireCards answers POST /sweeps/expire-cards.
func (s *Server) handleExpireCards(c *gin.Context) {
	n, err := orchestrators.ExecuteExpireCards(c.Request.Context(), orchestrators.ExpireCardsDeps{
		CardStore: s.CardStore,
		Events:    s.Events,
		Now:       s.Now,
	})
	respond(c, expiredView{Expired: n}, err)
}
