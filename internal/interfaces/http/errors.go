package http

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// CodeInternal código para errores no tipados (500).
const CodeInternal = "INTERNAL_ERROR"

// ErrorHandler traduce cualquier error devuelto por un handler al sobre
// { success:false, message, error:{ code, details? } }. Con exposeStack (fuera de producción)
// los 500 incluyen el stack.
func ErrorHandler(log *logger.Logger, exposeStack bool) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := domain.AsAppError(err); ok {
			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, fiberCode(fe.Code), fe.Message, nil)
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("error no controlado")
		body := dto.ErrorResponse{
			Success: false,
			Message: "Internal server error",
			Error:   dto.ErrorBody{Code: CodeInternal},
		}
		if exposeStack {
			body.Message = err.Error()
			body.Stack = string(debug.Stack())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

func writeError(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorBody{Code: code, Details: details},
	})
}

// fiberCode errores del propio framework (ruta inexistente, método, cuerpo demasiado grande).
func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return domain.CodeValidation
	case fiber.StatusUnauthorized:
		return domain.CodeAuthentication
	case fiber.StatusForbidden:
		return domain.CodeAuthorization
	case fiber.StatusNotFound:
		return domain.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return CodeInternal
		}
		return "HTTP_ERROR"
	}
}
