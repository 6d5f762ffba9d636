// README: Recovery middleware; a panic becomes a JSON 500.
package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"freight/internal/platform/obs"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("req_id=%s panic=%v\n%s", obs.RequestID(c.Request.Context()), r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": fmt.Sprintf("Unexpected server error: %v", r),
				})
			}
		}()
		c.Next()
	}
}
