package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/repository"
)

const (
	generationKey = "taxonomy:generation"

	// DefaultListTTL tiempo de vida de un listado cacheado.
	DefaultListTTL = 5 * time.Minute
)

// kv subconjunto de *redis.Client que usa el decorador.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo decora un CategoryRepository cacheando solo List.
// Las lecturas que alimentan validaciones (GetByID, FindDuplicate, CountChildren) van siempre al almacén.
// Cada escritura incrementa taxonomy:generation, lo que invalida todos los listados de una vez.
// Cualquier error de Redis degrada al almacén sin fallar la petición.
type CategoryRepo struct {
	next   repository.CategoryRepository
	client kv
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCategoryRepository envuelve next con la caché de listados.
func NewCategoryRepository(next repository.CategoryRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CategoryRepo {
	return newCategoryRepo(next, client, ttl, log)
}

func newCategoryRepo(next repository.CategoryRepository, client kv, ttl time.Duration, log zerolog.Logger) *CategoryRepo {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &CategoryRepo{next: next, client: client, ttl: ttl, log: log}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.bump(ctx)
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CategoryRepo) FindDuplicate(ctx context.Context, q repository.DuplicateQuery) (*entity.Category, error) {
	return r.next.FindDuplicate(ctx, q)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	if err := r.next.Update(ctx, c); err != nil {
		return err
	}
	r.bump(ctx)
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.bump(ctx)
	return nil
}

func (r *CategoryRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	return r.next.CountChildren(ctx, parentID)
}

// List sirve desde Redis si hay entrada para la generación vigente; si no, consulta y guarda.
func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("cache: generación no disponible, se consulta el almacén")
		return r.next.List(ctx, f)
	}
	key := listKey(gen, f)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var list []*entity.Category
		if jsonErr := json.Unmarshal(raw, &list); jsonErr == nil {
			r.log.Debug().Str("key", key).Msg("cache hit")
			return list, nil
		}
		r.log.Warn().Str("key", key).Msg("cache: entrada corrupta, se ignora")
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Str("key", key).Msg("cache get error")
	}

	list, err := r.next.List(ctx, f)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache set error")
	}
	return list, nil
}

func (r *CategoryRepo) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *CategoryRepo) bump(ctx context.Context) {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		r.log.Warn().Err(err).Msg("cache: no se pudo invalidar listados")
	}
}

// listKey codifica el filtro completo; nil y "" en ParentID/IsActive son claves distintas.
func listKey(gen int64, f repository.CategoryFilter) string {
	parent := "*"
	if f.ParentID != nil {
		parent = "=" + *f.ParentID
	}
	active := "*"
	if f.IsActive != nil {
		active = strconv.FormatBool(*f.IsActive)
	}
	return fmt.Sprintf("taxonomy:v%d:list:%s|%s|%s|%s|%s", gen, f.Type, f.SubType, f.VehicleType, parent, active)
}
