package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// parseBody decodifica el cuerpo JSON en T. La validación por campo la hace el caso de uso.
func parseBody[T any](c *fiber.Ctx) (T, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return in, domain.NewValidationError("Invalid request body")
	}
	return in, nil
}

// parseList lee paginación/orden y el filtro F de la query string.
func parseList[F any](c *fiber.Ctx) (dto.ListQuery, F, error) {
	var q dto.ListQuery
	var f F
	if err := c.QueryParser(&q); err != nil {
		return q, f, domain.NewValidationError("Invalid query parameters")
	}
	if err := c.QueryParser(&f); err != nil {
		return q, f, domain.NewValidationError("Invalid query parameters")
	}
	return q, f, nil
}

func deletedResponse(c *fiber.Ctx, what string) error {
	return c.JSON(dto.MessageResponse{Success: true, Message: what + " deleted"})
}
