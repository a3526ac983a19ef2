package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/application/dto"
	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/repository"
	"github.com/carmarket/catalog-api/internal/domain/taxonomy"
	"github.com/carmarket/catalog-api/pkg/slug"
)

// CategoryUseCase casos de uso de la taxonomía (marcas/modelos/años, países/estados/ciudades).
// Toda escritura pasa por la misma validación secuencial antes de tocar el almacén.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, log: log, now: time.Now}
}

// Create valida la entrada y persiste la categoría con createdBy = actor.
func (uc *CategoryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	draft, err := uc.validate(ctx, taxonomy.Draft{
		Name:        in.Name,
		Type:        in.Type,
		SubType:     in.SubType,
		VehicleType: in.VehicleType,
		ParentID:    in.ParentCategory,
	})
	if err != nil {
		return nil, err
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	now := uc.now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Slug:        slug.Generate(draft.Name),
		Description: in.Description,
		Image:       in.Image,
		Type:        draft.Type,
		SubType:     draft.SubType,
		VehicleType: draft.VehicleType,
		ParentID:    draft.ParentID,
		Order:       order,
		IsActive:    isActive,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("category_id", category.ID).
		Str("type", category.Type).
		Str("sub_type", category.SubType).
		Str("actor", actor.ID).
		Msg("categoría creada")
	return toCategoryResponse(category), nil
}

// Update aplica el patch sobre lo almacenado y valida el estado efectivo resultante.
// Un vehicleType enviado para un subtipo que no lo admite (p. ej. year) se ignora sin error.
func (uc *CategoryUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	category, err := uc.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := taxonomy.Draft{
		ID:          category.ID,
		Name:        category.Name,
		Type:        category.Type,
		SubType:     category.SubType,
		VehicleType: category.VehicleType,
		ParentID:    category.ParentID,
	}
	if in.Name.Set {
		draft.Name = in.Name.Value
	}
	if in.Type.Set {
		draft.Type = in.Type.Value
	}
	if in.SubType.Set {
		draft.SubType = in.SubType.Value
	}
	if in.ParentCategory.Set {
		draft.ParentID = in.ParentCategory.Value
	}
	if in.VehicleType.Set && taxonomy.TakesVehicleType(draft.SubType) {
		draft.VehicleType = in.VehicleType.Value
	}

	draft, err = uc.validate(ctx, draft)
	if err != nil {
		return nil, err
	}

	if draft.Name != category.Name {
		category.Slug = slug.Generate(draft.Name)
	}
	category.Name = draft.Name
	category.Type = draft.Type
	category.SubType = draft.SubType
	category.VehicleType = draft.VehicleType
	category.ParentID = draft.ParentID
	if in.Description.Set {
		category.Description = in.Description.Value
	}
	if in.Image.Set {
		category.Image = in.Image.Value
	}
	if in.Order.Set {
		category.Order = in.Order.Value
	}
	if in.IsActive.Set {
		category.IsActive = !in.IsActive.Valid || in.IsActive.Value
	}
	category.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("category_id", category.ID).
		Str("actor", actor.ID).
		Msg("categoría actualizada")
	return toCategoryResponse(category), nil
}

// Delete elimina la categoría sin cascada: los hijos conservan un parentCategory colgante.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	category, err := uc.lookup(ctx, id)
	if err != nil {
		return err
	}
	children, err := uc.repo.CountChildren(ctx, category.ID)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, category.ID); err != nil {
		return err
	}
	ev := uc.log.Info()
	if children > 0 {
		ev = uc.log.Warn().Int("orphaned_children", children)
	}
	ev.Str("category_id", category.ID).
		Str("actor", actor.ID).
		Msg("categoría eliminada")
	return nil
}

// GetByID obtiene una categoría. Un id malformado se trata igual que uno inexistente.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List devuelve todas las categorías que cumplen los filtros, por order ASC y createdAt DESC.
func (uc *CategoryUseCase) List(ctx context.Context, q dto.CategoryListQuery) ([]dto.CategoryResponse, error) {
	list, err := uc.list(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return items, nil
}

// Tree arma el listado filtrado como árbol. Son raíz las categorías sin padre o cuyo padre
// no está en el conjunto filtrado (incluye hijos de un padre eliminado). Un ciclo de padres
// se corta en su primer nodo según el orden del listado, que pasa a ser raíz.
func (uc *CategoryUseCase) Tree(ctx context.Context, q dto.CategoryListQuery) ([]dto.CategoryNode, error) {
	list, err := uc.list(ctx, q)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(list))
	for _, c := range list {
		present[c.ID] = true
	}
	children := make(map[string][]*entity.Category)
	var roots []*entity.Category
	for _, c := range list {
		if c.ParentID == "" || !present[c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	seen := make(map[string]bool, len(list))
	tree := buildTree(roots, children, seen)
	for _, c := range list {
		if !seen[c.ID] {
			tree = append(tree, buildTree([]*entity.Category{c}, children, seen)...)
		}
	}
	return tree, nil
}

// buildTree recorre en profundidad conservando el orden del listado en cada nivel.
// seen evita visitar dos veces un nodo cuando hay ciclos.
func buildTree(level []*entity.Category, children map[string][]*entity.Category, seen map[string]bool) []dto.CategoryNode {
	nodes := make([]dto.CategoryNode, 0, len(level))
	for _, c := range level {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		nodes = append(nodes, dto.CategoryNode{
			CategoryResponse: *toCategoryResponse(c),
			Children:         buildTree(children[c.ID], children, seen),
		})
	}
	return nodes
}

func (uc *CategoryUseCase) list(ctx context.Context, q dto.CategoryListQuery) ([]*entity.Category, error) {
	filter := repository.CategoryFilter{
		Type:        q.Type,
		SubType:     q.SubType,
		VehicleType: q.VehicleType,
		ParentID:    q.ParentCategory,
		IsActive:    q.IsActive,
	}
	if q.ParentCategory != nil && *q.ParentCategory != "" {
		parentID, ok := parseID(*q.ParentCategory)
		if !ok {
			// Un padre malformado no puede coincidir con nada.
			return nil, nil
		}
		filter.ParentID = &parentID
	}
	return uc.repo.List(ctx, filter)
}

// validate ejecuta las comprobaciones en orden, la primera violación gana:
// forma (sin I/O) → padre (lookup) → regla jerárquica del subtipo → duplicado (lookup).
func (uc *CategoryUseCase) validate(ctx context.Context, d taxonomy.Draft) (taxonomy.Draft, error) {
	if err := taxonomy.ValidateShape(d); err != nil {
		return d, err
	}
	d = taxonomy.Normalize(d)

	if d.ParentID != "" {
		parentID, ok := parseID(d.ParentID)
		if !ok {
			return d, domain.NotFound("parent category not found")
		}
		d.ParentID = parentID
		if d.ID != "" && d.ParentID == d.ID {
			return d, domain.Validation("a category cannot be its own parent")
		}
		parent, err := uc.findParent(ctx, d.ParentID)
		if err != nil {
			return d, err
		}
		if err := taxonomy.ValidateParent(d, parent); err != nil {
			return d, err
		}
	}

	dup, err := uc.repo.FindDuplicate(ctx, repository.DuplicateQuery{
		Name:        d.Name,
		Type:        d.Type,
		SubType:     d.SubType,
		VehicleType: d.VehicleType,
		ParentID:    d.ParentID,
		ExcludeID:   d.ID,
	})
	if err != nil {
		return d, err
	}
	if dup != nil {
		return d, domain.Conflict("category %q already exists", d.Name)
	}
	return d, nil
}

// findParent espera un id ya canónico.
func (uc *CategoryUseCase) findParent(ctx context.Context, id string) (*entity.Category, error) {
	parent, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.NotFound("parent category not found")
	}
	return parent, nil
}

func (uc *CategoryUseCase) lookup(ctx context.Context, raw string) (*entity.Category, error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, domain.NotFound("category not found")
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NotFound("category not found")
	}
	return category, nil
}

func requireAdmin(actor entity.Actor) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("admin role required")
	}
	return nil
}

// parseID devuelve la forma canónica del UUID (minúsculas con guiones). Acepta mayúsculas,
// llaves, 32 hex y urn:uuid:, de modo que ambos almacenes reciben siempre el mismo texto.
func parseID(s string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		Image:          c.Image,
		Type:           c.Type,
		SubType:        optional(c.SubType),
		VehicleType:    optional(c.VehicleType),
		ParentCategory: optional(c.ParentID),
		Order:          c.Order,
		IsActive:       c.IsActive,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
