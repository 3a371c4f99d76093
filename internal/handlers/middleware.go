package handlers

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs every request with method, path, status and duration.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := log.WithField("method", c.Method()).
			WithField("path", c.Path()).
			WithField("status", c.Response().StatusCode()).
			WithField("duration", time.Since(start).String())
		if err != nil {
			entry.WithError(err).Warn("request failed")
		} else {
			entry.Info("request")
		}
		return err
	}
}
