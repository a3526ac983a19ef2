// Package memory implementa los puertos de persistencia en memoria (DB_DRIVER=memory, --dry-run y tests).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo almacén concurrente de categorías. Entrega y guarda copias para que
// el llamador no mute el estado interno.
type CategoryRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Category
}

// NewCategoryRepository crea un almacén vacío.
func NewCategoryRepository() *CategoryRepo {
	return &CategoryRepo{items: make(map[string]entity.Category)}
}

// Create inserta la categoría; la tupla (name, type, subType, vehicleType, parent) es única.
func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[category.ID]; ok {
		return domain.Conflict("category %s already exists", category.ID)
	}
	if r.takenLocked(category) {
		return domain.Conflict("category %q already exists", category.Name)
	}
	r.items[category.ID] = *category
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// FindDuplicate aplica la coincidencia parcial: los opcionales vacíos no filtran.
func (r *CategoryRepo) FindDuplicate(_ context.Context, q repository.DuplicateQuery) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.ID == q.ExcludeID {
			continue
		}
		if c.Name != q.Name || c.Type != q.Type {
			continue
		}
		if q.SubType != "" && c.SubType != q.SubType {
			continue
		}
		if q.VehicleType != "" && c.VehicleType != q.VehicleType {
			continue
		}
		if q.ParentID != "" && c.ParentID != q.ParentID {
			continue
		}
		found := c
		return &found, nil
	}
	return nil, nil
}

// Update reemplaza la categoría. Si ya no existe (borrada tras el lookup) devuelve NotFound.
func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[category.ID]; !ok {
		return domain.NotFound("category not found")
	}
	if r.takenLocked(category) {
		return domain.Conflict("category %q already exists", category.Name)
	}
	r.items[category.ID] = *category
	return nil
}

// Delete elimina sin tocar a los hijos.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// List filtra y ordena por order ASC, createdAt DESC.
func (r *CategoryRepo) List(_ context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	r.mu.RLock()
	list := make([]*entity.Category, 0, len(r.items))
	for _, c := range r.items {
		if !matches(c, f) {
			continue
		}
		item := c
		list = append(list, &item)
	}
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// CountChildren cuenta las categorías cuyo padre inmediato es parentID.
func (r *CategoryRepo) CountChildren(_ context.Context, parentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.items {
		if c.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

// takenLocked replica el índice único de PostgreSQL sobre la tupla completa.
func (r *CategoryRepo) takenLocked(category *entity.Category) bool {
	for id, c := range r.items {
		if id == category.ID {
			continue
		}
		if c.Name == category.Name && c.Type == category.Type && c.SubType == category.SubType &&
			c.VehicleType == category.VehicleType && c.ParentID == category.ParentID {
			return true
		}
	}
	return false
}

func matches(c entity.Category, f repository.CategoryFilter) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.SubType != "" && c.SubType != f.SubType {
		return false
	}
	if f.VehicleType != "" && c.VehicleType != f.VehicleType {
		return false
	}
	if f.ParentID != nil && c.ParentID != *f.ParentID {
		return false
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}
