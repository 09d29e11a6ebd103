package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.RecordsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/purchases", handler.ListPurchases)
	r.POST("/purchases", handler.CreatePurchase)
	r.GET("/sales", handler.ListSales)
	r.POST("/sales", handler.CreateSale)
	r.DELETE("/records/:kind", handler.DeleteRecords)
	r.POST("/reset", handler.Reset)
	r.GET("/models", handler.Models)
	r.GET("/items", handler.Items)
	r.GET("/reports/monthly", handler.MonthlyReport)
	r.GET("/reports/monthly.pdf", handler.MonthlyReportPDF)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
