package middlewares

import (
	"github.com/gin-gonic/gin"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Security headers
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// gambar menu boleh dari bucket S3
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:")

		c.Next()
	}
}
