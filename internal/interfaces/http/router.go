package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/application/usecase"
	"github.com/carmarket/catalog-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC   *usecase.CategoryUseCase
	JWTSecret    string
	ExposeErrors bool
	Logger       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	categories := api.Group("/categories")
	h := NewCategoryHandler(deps.CategoryUC, deps.Logger, deps.ExposeErrors)
	auth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Lecturas públicas (/tree antes de /:id)
	categories.Get("/", h.List)
	categories.Get("/tree", h.Tree)
	categories.Get("/:id", h.GetByID)

	// Escrituras: Bearer Token + rol admin
	categories.Post("/", auth, adminOnly, h.Create)
	categories.Put("/:id", auth, adminOnly, h.Update)
	categories.Delete("/:id", auth, adminOnly, h.Delete)
}
