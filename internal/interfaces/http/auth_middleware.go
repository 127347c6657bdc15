package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
)

// LocalActor key del actor autenticado en c.Locals.
const LocalActor = "actor"

// ActorResolver carga el actor del usuario del token. Lo implementa *auth.AuthUseCase.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (entity.Actor, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja el actor en c.Locals.
// Rol, tenant y estado se leen de la BD en cada petición, no de los claims.
func AuthMiddleware(jwtSecret string, resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header is required", nil)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Expected format: Bearer <token>", nil)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return writeError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Empty token", nil)
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", nil)
		}
		actor, err := resolver.ResolveActor(c.UserContext(), claims.UserID)
		if err != nil {
			return err
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
// Sin middleware devuelve un actor vacío, que la política rechaza.
func GetActor(c *fiber.Ctx) entity.Actor {
	actor, _ := c.Locals(LocalActor).(entity.Actor)
	return actor
}
