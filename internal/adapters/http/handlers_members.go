package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitclub/internal/application/orchestrators"
	"fitclub/internal/application/projections"
	"fitclub/internal/domain/member"
)

func (s *Server) validityDeps() orchestrators.MembershipValidityDeps {
	return orchestrators.MembershipValidityDeps{MemberStore: s.MemberStore, CardStore: s.CardStore, Now: s.Now}
}

// handleValidity answers GET /members/:id/validity.
func (s *Server) handleValidity(c *gin.Context) {
	memberID, err := actingMember(c, c.Param("id"))
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	v, err := orchestrators.ExecuteCheckMembershipValidity(c.Request.Context(), memberID, s.validityDeps())
	respond(c, v, err)
}

// handleMemberActivity answers GET /members/:id/activity?from=&to=.
func (s *Server) handleMemberActivity(c *gin.Context) {
	memberID, err := actingMember(c, c.Param("id"))
	if err != nil {
		respond[any](c, nil, err)
		return
	}
	query := projections.GetMemberActivityQuery{MemberID: memberID}
	if query.From, err = parseTimeParam(c, "from"); err != nil {
		respond[any](c, nil, err)
		return
	}
	if query.To, err = parseTimeParam(c, "to"); err != nil {
		respond[any](c, nil, err)
		return
	}
	result, err := projections.QueryGetMemberActivity(c.Request.Context(), query, projections.GetMemberActivityDeps{
		MemberStore:  s.MemberStore,
		CheckInStore: s.CheckInStore,
		BookingStore: s.BookingStore,
		Now:          s.Now,
	})
	respond(c, result, err)
}

type registerMemberRequest struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	CardType string    `json:"card_type"`
	CardEnd  time.Time `json:"card_end"`
}

// handleRegisterMember answers POST /members.
func (s *Server) handleRegisterMember(c *gin.Context) {
	var req registerMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := orchestrators.ExecuteRegisterMember(c.Request.Context(), orchestrators.RegisterMemberInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		CardType: req.CardType,
		CardEnd:  req.CardEnd,
	}, orchestrators.RegisterMemberDeps{
		MemberStore: s.MemberStore,
		CardStore:   s.CardStore,
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	})
	if err == nil {
		c.JSON(http.StatusCreated, envelope(result))
		return
	}
	respond(c, result, err)
}

type memberStatusRequest struct {
	Status member.Status `json:"status" binding:"required"`
}

// handleSetMemberStatus answers PATCH /members/:id/status.
func (s *Server) handleSetMemberStatus(c *gin.Context) {
	var req memberStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := orchestrators.ExecuteSetMemberStatus(c.Request.Context(), orchestrators.SetMemberStatusInput{
		MemberID: c.Param("id"),
		Status:   req.Status,
	}, orchestrators.SetMemberStatusDeps{MemberStore: s.MemberStore})
	respond(c, m, err)
}

type renewCardRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// handleRenewCard answers POST /cards/:id/renew.
func (s *Server) handleRenewCard(c *gin.Context) {
	var req renewCardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := orchestrators.ExecuteRenewCard(c.Request.Context(), orchestrators.RenewCardInput{
		CardID: c.Param("id"),
		NewEnd: req.EndDate,
	}, orchestrators.RenewCardDeps{CardStore: s.CardStore})
	respond(c, card, err)
}
