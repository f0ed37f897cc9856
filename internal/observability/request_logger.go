package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs every request once it completes and records its metrics.
// The error returned by downstream handlers is passed through untouched.
func RequestLogger(logger *zap.Logger, metrics *Metrics, userID func(*fiber.Ctx) (int64, bool)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if userID != nil {
			if id, ok := userID(c); ok {
				fields = append(fields, zap.Int64("user_id", id))
			}
		}
		logger.Info("request completed", fields...)
		return err
	}
}
