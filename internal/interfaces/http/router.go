package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/warehouse-api/internal/application/analytics"
	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger comprueba la conexión a la BD para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	StoreUC        *usecase.StoreUseCase
	CategoryUC     *usecase.CategoryUseCase
	ProductUC      *usecase.ProductUseCase
	TransactionUC  *usecase.TransactionUseCase
	ProductCheckUC *usecase.ProductCheckUseCase
	DashboardUC    *analytics.DashboardUseCase
	ReplenishUC    *analytics.ReplenishmentUseCase
	JWTSecret      string

	// DB opcional; sin él /health no consulta la BD.
	DB Pinger
	// Gatherer habilita /metrics cuando no es nil.
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.DB))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.AuthUC)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/summary", userHandler.Summary)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/restore", userHandler.Restore)

	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/active", storeHandler.ListActive)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", storeHandler.Update)
	stores.Delete("/:id", storeHandler.Delete)
	stores.Post("/:id/restore", storeHandler.Restore)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/by-store/:storeId", categoryHandler.ListByStore)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Post("/:id/restore", categoryHandler.Restore)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ProductCheckUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/checks", productHandler.Checks)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/restore", productHandler.Restore)

	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Get("/:id/receipt", transactionHandler.Receipt)
	transactions.Put("/:id", transactionHandler.Update)
	transactions.Patch("/:id/status", transactionHandler.UpdateStatus)
	transactions.Delete("/:id", transactionHandler.Delete)
	transactions.Post("/:id/restore", transactionHandler.Restore)

	checks := protected.Group("/product-checks")
	checkHandler := NewProductCheckHandler(deps.ProductCheckUC)
	checks.Post("/", checkHandler.Create)
	checks.Get("/", checkHandler.List)
	checks.Get("/:id", checkHandler.GetByID)
	checks.Put("/:id", checkHandler.Update)
	checks.Delete("/:id", checkHandler.Delete)
	checks.Post("/:id/restore", checkHandler.Restore)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.DashboardUC, deps.ReplenishUC)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/replenishment", reportHandler.Replenishment)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func healthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
