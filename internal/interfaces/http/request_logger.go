package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// RequestLogger registra cada petición (zerolog) y su latencia (Prometheus).
// Los errores del handler se resuelven aquí con el ErrorHandler de la app para loguear el status final.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.ObserveHTTP(c.Method(), route, status, elapsed)

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		actor := GetActor(c)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", actor.ID).
			Msg("request")
		return nil
	}
}
