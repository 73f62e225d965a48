package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	logger "github.com/sirupsen/logrus"

	"github.com/52Jolynn/bindb/mod"
)

// Recovery returns a middleware that recovers from any panics and writes a 500 if there was one.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithField("requestId", c.GetString(RequestIDKey)).
					Errorf("panic: %v\n%s", err, string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					mod.ResponseValue{Success: false, Message: mod.MsgInternalError})
			}
		}()
		c.Next()
	}
}
