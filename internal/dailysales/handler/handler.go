package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/dailysales"
	"github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/response"
)

type DailySalesHandler struct {
	uc     dailysales.UseCase
	logger logger.ZapLogger
}

func NewDailySalesHandler(uc dailysales.UseCase, log logger.ZapLogger) *DailySalesHandler {
	return &DailySalesHandler{
		uc:     uc,
		logger: log,
	}
}

// ListDailySales serves GET /api/pos/daily-sales.
func (h *DailySalesHandler) ListDailySales(c *gin.Context) {
	filters := &dto.DailySalesFilters{}

	if raw := c.Query("adminUserId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adminUserId"})
			return
		}
		filters.AdminUserID = id
	}
	for param, dst := range map[string]**time.Time{"startDate": &filters.StartDate, "endDate": &filters.EndDate} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + ", expected YYYY-MM-DD"})
			return
		}
		*dst = &d
	}

	rows, err := h.uc.ListDailySales(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch daily sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dailySales": rows})
}
