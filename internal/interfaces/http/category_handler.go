package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/application/dto"
	"github.com/carmarket/catalog-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de la taxonomía. Lecturas públicas, escrituras solo admin.
type CategoryHandler struct {
	uc           *usecase.CategoryUseCase
	log          zerolog.Logger
	exposeErrors bool
}

// NewCategoryHandler construye el handler. exposeErrors muestra el detalle de los 500 (fuera de producción).
func NewCategoryHandler(uc *usecase.CategoryUseCase, log zerolog.Logger, exposeErrors bool) *CategoryHandler {
	return &CategoryHandler{uc: uc, log: log, exposeErrors: exposeErrors}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.Envelope{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Data: out})
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.Envelope{data=dto.CategoryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.Envelope{Success: true, Data: out})
}

// List godoc
// @Summary      Listar categorías
// @Description  Filtros exactos combinados con AND. parentCategory=null devuelve solo raíces.
// @Tags         categories
// @Produce      json
// @Param        type            query  string  false  "car | location"
// @Param        subType         query  string  false  "make | model | year | country | state | city"
// @Param        parentCategory  query  string  false  "ID del padre o null"
// @Param        isActive        query  bool    false  "Estado"
// @Param        vehicleType     query  string  false  "Car | Bus | Truck | Van | Bike | E-bike"
// @Success      200  {object}  dto.Envelope{data=[]dto.CategoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.Envelope{Success: true, Data: out})
}

// Tree godoc
// @Summary      Árbol de categorías
// @Description  Mismos filtros que el listado; las categorías cuyo padre no está en el resultado son raíz.
// @Tags         categories
// @Produce      json
// @Param        type            query  string  false  "car | location"
// @Param        subType         query  string  false  "Subtipo"
// @Param        parentCategory  query  string  false  "ID del padre o null"
// @Param        isActive        query  bool    false  "Estado"
// @Param        vehicleType     query  string  false  "Tipo de vehículo"
// @Success      200  {object}  dto.Envelope{data=[]dto.CategoryNode}
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Tree(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.Envelope{Success: true, Data: out})
}

// Update godoc
// @Summary      Actualizar categoría
// @Description  Patch parcial: los campos omitidos se conservan y null limpia el valor.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.Envelope{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.Envelope{Success: true, Data: out})
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Sin cascada: los hijos conservan la referencia al padre eliminado.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.Envelope{Success: true, Message: "category deleted"})
}

func (h *CategoryHandler) fail(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err, h.exposeErrors)
	if status == fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

// parseListQuery lee los filtros. parentCategory presente pero vacío o "null" selecciona raíces.
func parseListQuery(c *fiber.Ctx) (dto.CategoryListQuery, error) {
	q := dto.CategoryListQuery{
		Type:        c.Query("type"),
		SubType:     c.Query("subType"),
		VehicleType: c.Query("vehicleType"),
	}
	args := c.Context().QueryArgs()
	if args.Has("parentCategory") {
		parent := c.Query("parentCategory")
		if parent == "null" {
			parent = ""
		}
		q.ParentCategory = &parent
	}
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return q, invalidQuery("isActive must be true or false")
		}
		q.IsActive = &active
	}
	return q, nil
}
