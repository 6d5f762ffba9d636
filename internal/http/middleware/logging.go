// README: Access log line per request.
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/platform/obs"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			obs.RequestID(c.Request.Context()),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).Milliseconds(),
		)
	}
}
