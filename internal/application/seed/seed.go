// Package seed carga árboles de taxonomía (YAML o catálogo DIAN de municipios) a través del
// caso de uso de categorías, de modo que toda regla de validación aplique también al seed.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/application/dto"
	"github.com/carmarket/catalog-api/internal/application/usecase"
	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/taxonomy"
)

// Node nodo del árbol a sembrar. Los hijos heredan type y, en modelos, vehicleType del padre si se omiten.
type Node struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	SubType     string `yaml:"subType"`
	VehicleType string `yaml:"vehicleType"`
	Description string `yaml:"description"`
	Order       *int   `yaml:"order"`
	Children    []Node `yaml:"children"`
}

// Stats resultado de una corrida.
type Stats struct {
	Created int
	Reused  int
}

// Seeder crea los nodos con CategoryUseCase.Create. Un nodo ya existente (Conflict) se reutiliza,
// por lo que correr el mismo seed dos veces no duplica nada.
type Seeder struct {
	uc    *usecase.CategoryUseCase
	actor entity.Actor
	log   zerolog.Logger
}

// NewSeeder construye el seeder; actorID queda como createdBy de lo creado.
func NewSeeder(uc *usecase.CategoryUseCase, actorID string, log zerolog.Logger) *Seeder {
	return &Seeder{uc: uc, actor: entity.Actor{ID: actorID, Role: entity.RoleAdmin}, log: log}
}

// Apply siembra los árboles en profundidad. Se detiene en el primer error que no sea un duplicado.
func (s *Seeder) Apply(ctx context.Context, roots []Node) (Stats, error) {
	var st Stats
	for _, n := range roots {
		if err := s.apply(ctx, n, "", parentInfo{}, &st); err != nil {
			return st, err
		}
	}
	return st, nil
}

type parentInfo struct {
	typ         string
	vehicleType string
}

func (s *Seeder) apply(ctx context.Context, n Node, parentID string, parent parentInfo, st *Stats) error {
	if n.Type == "" {
		n.Type = parent.typ
	}
	if n.VehicleType == "" && n.SubType == entity.SubTypeModel {
		n.VehicleType = parent.vehicleType
	}

	id, err := s.ensure(ctx, n, parentID, st)
	if err != nil {
		return fmt.Errorf("seed %q: %w", n.Name, err)
	}
	next := parentInfo{typ: n.Type}
	if taxonomy.TakesVehicleType(n.SubType) {
		next.vehicleType = n.VehicleType
	}
	for _, child := range n.Children {
		if err := s.apply(ctx, child, id, next, st); err != nil {
			return err
		}
	}
	return nil
}

// ensure crea el nodo o, si ya existe bajo el mismo padre, devuelve su id.
func (s *Seeder) ensure(ctx context.Context, n Node, parentID string, st *Stats) (string, error) {
	out, err := s.uc.Create(ctx, s.actor, dto.CreateCategoryRequest{
		Name:           n.Name,
		Description:    n.Description,
		Type:           n.Type,
		SubType:        n.SubType,
		VehicleType:    n.VehicleType,
		ParentCategory: parentID,
		Order:          n.Order,
	})
	if err == nil {
		st.Created++
		s.log.Debug().Str("name", out.Name).Str("id", out.ID).Msg("creada")
		return out.ID, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return "", err
	}

	existing, lookupErr := s.find(ctx, n, parentID)
	if lookupErr != nil {
		return "", lookupErr
	}
	if existing == "" {
		// El duplicado vive bajo otro padre: no se puede reutilizar.
		return "", err
	}
	st.Reused++
	return existing, nil
}

func (s *Seeder) find(ctx context.Context, n Node, parentID string) (string, error) {
	parent := parentID
	q := dto.CategoryListQuery{Type: n.Type, SubType: n.SubType, ParentCategory: &parent}
	if taxonomy.TakesVehicleType(n.SubType) {
		q.VehicleType = n.VehicleType
	}
	list, err := s.uc.List(ctx, q)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(n.Name)
	for _, c := range list {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return "", nil
}
