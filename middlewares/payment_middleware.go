package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/utils"
	"golang.org/x/time/rate"
)

// PaymentSecurityHeaders adds headers for checkout endpoints
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// PaymentRateLimiter caps checkout calls for the whole process.
func PaymentRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 5)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Please wait before making another payment request",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LogPaymentRequest logs every checkout call with its outcome
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= http.StatusBadRequest {
			utils.ErrorLogger.Warnf("Payment Request - Method: %s, Path: %s, Status: %d, Duration: %v", method, path, status, duration)
			return
		}
		utils.InfoLogger.Printf("Payment Request - Method: %s, Path: %s, Status: %d, Duration: %v", method, path, status, duration)
	}
}
