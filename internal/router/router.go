package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/auth"
	dailyH "github.com/gkicks/gkicks-pos-service/internal/dailysales/handler"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	sessionH "github.com/gkicks/gkicks-pos-service/internal/session/handler"
	stockH "github.com/gkicks/gkicks-pos-service/internal/stock/handler"
	txH "github.com/gkicks/gkicks-pos-service/internal/transaction/handler"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/middleware"
)

type Handlers struct {
	Session     *sessionH.SessionHandler
	Transaction *txH.TransactionHandler
	DailySales  *dailyH.DailySalesHandler
	Stock       *stockH.StockHandler
}

type Options struct {
	AllowedOrigins []string
}

func New(gate *auth.Gate, h *Handlers, opts Options, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := gate.Require(model.RoleAdmin, model.RoleStaff)
	adminOnly := gate.Require(model.RoleAdmin)

	pos := r.Group("/api/pos")
	{
		pos.GET("/sessions", staff, h.Session.ListSessions)
		pos.GET("/sessions/current", staff, h.Session.GetCurrentSession)
		pos.POST("/sessions", staff, h.Session.OpenOrCloseSession)
		pos.PUT("/sessions", adminOnly, h.Session.ChangeStatus)

		pos.GET("/transactions", staff, h.Transaction.ListTransactions)
		pos.GET("/transactions/:transactionId", staff, h.Transaction.GetTransaction)
		pos.POST("/transactions", staff, h.Transaction.CreateTransaction)

		pos.GET("/daily-sales", staff, h.DailySales.ListDailySales)
		pos.GET("/products/:id/stock", staff, h.Stock.GetProductStock)
	}

	return r
}
