package ratelimit

import (
	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Middleware limits requests per client IP. Limiter errors are logged and
// the request is let through.
func Middleware(l Limiter, m *metrics.Metrics, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		allowed, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
		}
		if !allowed && err == nil {
			m.RateLimited()
			utils.Fail(c, apperror.TooManyRequests("Too many login attempts, please try again later"))
			return
		}
		c.Next()
	}
}
