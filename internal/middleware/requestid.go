package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-orders/internal/logger"
)

// RequestIDHeader es el header donde viaja el request id
const RequestIDHeader = "X-Request-ID"

// RequestID reutiliza el X-Request-ID entrante o genera uno nuevo, lo devuelve
// en la respuesta y lo guarda en el contexto del request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
