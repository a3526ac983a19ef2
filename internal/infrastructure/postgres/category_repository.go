package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id::text, name, slug, description, image, type,
	COALESCE(sub_type, ''), COALESCE(vehicle_type, ''), COALESCE(parent_id::text, ''),
	sort_order, is_active, created_by, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría. La violación del índice único se traduce a conflicto.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, image, type, sub_type, vehicle_type, parent_id,
			sort_order, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, '')::uuid, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.Type, c.SubType, c.VehicleType, c.ParentID,
		c.Order, c.IsActive, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("category %q already exists", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1::uuid`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// FindDuplicate busca por name + type y, si vienen informados, subType, vehicleType y padre.
func (r *CategoryRepo) FindDuplicate(ctx context.Context, q repository.DuplicateQuery) (*entity.Category, error) {
	w := newWhere()
	w.add("name = %s", q.Name)
	w.add("type = %s", q.Type)
	if q.SubType != "" {
		w.add("sub_type = %s", q.SubType)
	}
	if q.VehicleType != "" {
		w.add("vehicle_type = %s", q.VehicleType)
	}
	if q.ParentID != "" {
		w.add("parent_id = %s::uuid", q.ParentID)
	}
	if q.ExcludeID != "" {
		w.add("id <> %s::uuid", q.ExcludeID)
	}
	query := `SELECT ` + categoryColumns + ` FROM categories` + w.sql() + ` LIMIT 1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find duplicate category: %w", err)
	}
	return c, nil
}

// Update reescribe todos los campos editables de la categoría. Sin filas afectadas es NotFound.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, slug = $3, description = $4, image = $5, type = $6,
			sub_type = NULLIF($7, ''), vehicle_type = NULLIF($8, ''), parent_id = NULLIF($9, '')::uuid,
			sort_order = $10, is_active = $11, updated_at = $12
		WHERE id = $1::uuid`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.Type, c.SubType, c.VehicleType, c.ParentID,
		c.Order, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("category %q already exists", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category not found")
	}
	return nil
}

// Delete elimina una categoría por ID. No hay FK en parent_id: los hijos no se tocan.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// List lista las categorías filtradas, por sort_order ASC y created_at DESC.
func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	w := newWhere()
	if f.Type != "" {
		w.add("type = %s", f.Type)
	}
	if f.SubType != "" {
		w.add("sub_type = %s", f.SubType)
	}
	if f.VehicleType != "" {
		w.add("vehicle_type = %s", f.VehicleType)
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			w.raw("parent_id IS NULL")
		} else {
			w.add("parent_id = %s::uuid", *f.ParentID)
		}
	}
	if f.IsActive != nil {
		w.add("is_active = %s", *f.IsActive)
	}
	query := `SELECT ` + categoryColumns + ` FROM categories` + w.sql() +
		` ORDER BY sort_order ASC, created_at DESC, id ASC`

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountChildren cuenta los hijos inmediatos de una categoría.
func (r *CategoryRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1::uuid`, parentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Type,
		&c.SubType, &c.VehicleType, &c.ParentID,
		&c.Order, &c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// where arma cláusulas AND con placeholders posicionales.
type where struct {
	conds []string
	args  []any
}

func newWhere() *where { return &where{} }

// add agrega una condición; %s se reemplaza por el siguiente $n.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
