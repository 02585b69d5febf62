package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/auth"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/response"
	"github.com/shopspring/decimal"
)

type SessionHandler struct {
	uc     session.UseCase
	logger logger.ZapLogger
}

func NewSessionHandler(uc session.UseCase, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: log,
	}
}

// ListSessions serves GET /api/pos/sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	page, limit := response.Paging(c)
	filters := &dto.SessionFilters{
		Status:   model.SessionStatus(c.Query("status")),
		Page:     page,
		PageSize: limit,
	}

	switch filters.Status {
	case "", model.SessionActive, model.SessionSuspended, model.SessionClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if raw := c.Query("adminUserId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adminUserId"})
			return
		}
		filters.AdminUserID = id
	}
	if !parseDate(c, "startDate", &filters.StartDate) || !parseDate(c, "endDate", &filters.EndDate) {
		return
	}

	sessions, total, err := h.uc.ListSessions(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":   sessions,
		"pagination": model.NewPagination(page, limit, total),
	})
}

func parseDate(c *gin.Context, param string, dst **time.Time) bool {
	raw := c.Query(param)
	if raw == "" {
		return true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + ", expected YYYY-MM-DD"})
		return false
	}
	*dst = &d
	return true
}

// GetCurrentSession serves GET /api/pos/sessions/current.
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	id := auth.GetIdentity(c.Request.Context())

	s, err := h.uc.GetCurrentSession(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch current session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": s})
}

// OpenOrCloseSession serves POST /api/pos/sessions.
func (h *SessionHandler) OpenOrCloseSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.SessionID != "" {
		h.closeSession(c, &req)
		return
	}
	h.openSession(c, &req)
}

func (h *SessionHandler) openSession(c *gin.Context, req *dto.SessionRequest) {
	id := auth.GetIdentity(c.Request.Context())

	opening := decimal.Zero
	if req.OpeningCash != nil {
		opening = *req.OpeningCash
	}

	s, err := h.uc.OpenSession(c.Request.Context(), &dto.OpenSessionInput{
		UserID:       id.UserID,
		TerminalName: req.TerminalName,
		OpeningCash:  opening,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, h.logger, err, "Failed to start session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sessionId":   s.SessionID,
		"dbSessionId": s.ID,
		"message":     "POS session started successfully",
	})
}

func (h *SessionHandler) closeSession(c *gin.Context, req *dto.SessionRequest) {
	id := auth.GetIdentity(c.Request.Context())

	if req.ClosingCash == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Closing cash is required"})
		return
	}

	summary, err := h.uc.CloseSession(c.Request.Context(), &dto.CloseSessionInput{
		UserID:      id.UserID,
		SessionID:   req.SessionID,
		ClosingCash: *req.ClosingCash,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, h.logger, err, "Failed to close session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "POS session closed successfully",
		"sessionSummary": summary,
	})
}

// ChangeStatus serves PUT /api/pos/sessions.
func (h *SessionHandler) ChangeStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID and a valid action (suspend or resume) are required"})
		return
	}

	id := auth.GetIdentity(c.Request.Context())
	change, err := h.uc.ChangeStatus(c.Request.Context(), &dto.ChangeStatusInput{
		UserID:    id.UserID,
		SessionID: req.SessionID,
		Action:    req.Action,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, h.logger, err, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session " + string(change.Status) + " successfully",
	})
}
