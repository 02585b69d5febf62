package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/auth"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/transaction"
	"github.com/gkicks/gkicks-pos-service/internal/transaction/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/response"
)

type TransactionHandler struct {
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionHandler(uc transaction.UseCase, log logger.ZapLogger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: log,
	}
}

// CreateTransaction serves POST /api/pos/transactions.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var input dto.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id := auth.GetIdentity(c.Request.Context())
	input.AdminUserID = id.UserID
	input.CashierName = id.Name

	t, err := h.uc.CreateTransaction(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to process transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"transactionId": t.TransactionID,
		"receiptNumber": t.ReceiptNumber,
		"message":       "Transaction completed successfully",
	})
}

// ListTransactions serves GET /api/pos/transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, limit := response.Paging(c)
	filters := &dto.TransactionFilters{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: limit,
	}

	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		filters.Date = &d
	}

	transactions, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   model.NewPagination(page, limit, total),
	})
}

// GetTransaction serves GET /api/pos/transactions/:transactionId.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	t, err := h.uc.GetTransaction(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		response.Error(c, h.logger, err, "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": t})
}
