package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LucasExpRocha/ToolsChallenge/internal/handlers"
	"github.com/LucasExpRocha/ToolsChallenge/internal/service"
	"github.com/LucasExpRocha/ToolsChallenge/internal/telemetry"
)

func NewRouter(processor *service.Processor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payment-gateway"})
	})

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(processor)
	refundHandler := handlers.NewRefundHandler(processor)
	r.POST("/payments", paymentHandler.ProcessPayment)
	r.GET("/payments/query", paymentHandler.QueryPayments)
	r.GET("/payments/query/:id", paymentHandler.QueryPayments)
	r.PATCH("/refunds/:id", refundHandler.RefundPayment)

	return r
}
