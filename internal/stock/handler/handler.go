package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/stock"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/response"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

// GetProductStock serves GET /api/pos/products/:id/stock.
func (h *StockHandler) GetProductStock(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	p, err := h.uc.GetProductStock(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch product stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}
