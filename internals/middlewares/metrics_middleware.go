package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/metrics"
)

// MetricsMiddleware records request counts and latency by matched route pattern.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			status = helper.Classify(err).Status
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
