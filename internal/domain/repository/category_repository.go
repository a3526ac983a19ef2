package repository

import (
	"context"

	"github.com/carmarket/catalog-api/internal/domain/entity"
)

// CategoryFilter filtros opcionales de listado, combinados con AND y coincidencia exacta.
type CategoryFilter struct {
	Type        string
	SubType     string
	VehicleType string
	ParentID    *string // nil: sin filtro; "": solo raíces
	IsActive    *bool
}

// DuplicateQuery búsqueda de duplicados. Name y Type siempre participan; SubType, VehicleType
// y ParentID solo si no están vacíos. ExcludeID descarta la propia categoría en updates.
type DuplicateQuery struct {
	Name        string
	Type        string
	SubType     string
	VehicleType string
	ParentID    string
	ExcludeID   string
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y FindDuplicate devuelven (nil, nil) cuando no hay coincidencia.
// Create y Update devuelven domain.ErrDuplicate (envuelto) si el almacén rechaza la tupla única.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	FindDuplicate(ctx context.Context, q DuplicateQuery) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CategoryFilter) ([]*entity.Category, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
}
