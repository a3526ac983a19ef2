package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/carmarket/catalog-api/internal/application/dto"
	"github.com/carmarket/catalog-api/internal/application/seed"
	"github.com/carmarket/catalog-api/internal/application/usecase"
	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/infrastructure/memory"
)

const taxonomyYAML = `
categories:
  - name: Toyota
    type: car
    subType: make
    vehicleType: Car
    children:
      - name: Corolla
        subType: model
      - name: Hilux
        subType: model
        order: 2
  - name: Pakistan
    type: location
    subType: country
    children:
      - name: Punjab
        subType: state
        children:
          - name: Lahore
            subType: city
`

func newSeeder() (*seed.Seeder, *usecase.CategoryUseCase) {
	uc := usecase.NewCategoryUseCase(memory.NewCategoryRepository(), zerolog.Nop())
	return seed.NewSeeder(uc, "seed", zerolog.Nop()), uc
}

func TestLoadYAML_ArbolCompleto(t *testing.T) {
	nodes, err := seed.LoadYAML(strings.NewReader(taxonomyYAML))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Toyota", nodes[0].Name)
	require.Len(t, nodes[0].Children, 2)
	require.NotNil(t, nodes[0].Children[1].Order)
	assert.Equal(t, 2, *nodes[0].Children[1].Order)
}

func TestLoadYAML_CampoDesconocido(t *testing.T) {
	_, err := seed.LoadYAML(strings.NewReader("categories:\n  - name: X\n    tipe: car\n"))
	assert.Error(t, err)
}

func TestSeeder_EsIdempotente(t *testing.T) {
	nodes, err := seed.LoadYAML(strings.NewReader(taxonomyYAML))
	require.NoError(t, err)
	s, uc := newSeeder()
	ctx := context.Background()

	st, err := s.Apply(ctx, nodes)
	require.NoError(t, err)
	assert.Equal(t, seed.Stats{Created: 6}, st)

	st, err = s.Apply(ctx, nodes)
	require.NoError(t, err)
	assert.Equal(t, seed.Stats{Reused: 6}, st)

	all, err := uc.List(ctx, dto.CategoryListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestSeeder_ModeloHeredaVehiculoDeLaMarca(t *testing.T) {
	nodes, err := seed.LoadYAML(strings.NewReader(taxonomyYAML))
	require.NoError(t, err)
	s, uc := newSeeder()
	ctx := context.Background()
	_, err = s.Apply(ctx, nodes)
	require.NoError(t, err)

	models, err := uc.List(ctx, dto.CategoryListQuery{SubType: entity.SubTypeModel})
	require.NoError(t, err)
	require.Len(t, models, 2)
	for _, m := range models {
		require.NotNil(t, m.VehicleType)
		assert.Equal(t, entity.VehicleCar, *m.VehicleType)
		assert.Equal(t, "seed", m.CreatedBy)
	}
}

func TestSeeder_ReglaVioladaDetieneLaCarga(t *testing.T) {
	s, _ := newSeeder()
	bad := []seed.Node{{
		Name: "Pakistan", Type: entity.TypeLocation, SubType: entity.SubTypeCountry,
		Children: []seed.Node{{Name: "Lahore", SubType: entity.SubTypeCity}},
	}}
	st, err := s.Apply(context.Background(), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `seed "Lahore"`)
	assert.Equal(t, 1, st.Created)
}

func municipiosXML(t *testing.T) []byte {
	t.Helper()
	body := `<?xml version="1.0" encoding="ISO-8859-1"?>
<parametros>
  <tabla>
    <valor cod="11001" nombre="Bogotá, D.C."><otro codigo="11" valor="Bogotá"/></valor>
    <valor cod="05001" nombre="Medellín"><otro codigo="05" valor="Antioquia"/></valor>
    <valor cod="05002" nombre="Abejorral"><otro codigo="05" valor="Antioquia"/></valor>
    <valor cod="" nombre="Sin código"><otro codigo="05" valor="Antioquia"/></valor>
  </tabla>
</parametros>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(body)
	require.NoError(t, err)
	return []byte(encoded)
}

func TestParseMunicipios_ISO88591(t *testing.T) {
	root, err := seed.ParseMunicipios(bytes.NewReader(municipiosXML(t)), "Colombia")
	require.NoError(t, err)

	assert.Equal(t, "Colombia", root.Name)
	assert.Equal(t, entity.SubTypeCountry, root.SubType)
	require.Len(t, root.Children, 2)

	antioquia := root.Children[0]
	assert.Equal(t, "Antioquia", antioquia.Name)
	require.Len(t, antioquia.Children, 2)
	assert.Equal(t, "Abejorral", antioquia.Children[0].Name)
	assert.Equal(t, "Medellín", antioquia.Children[1].Name)

	assert.Equal(t, "Bogotá", root.Children[1].Name)
	assert.Equal(t, "Bogotá, D.C.", root.Children[1].Children[0].Name)
}

func TestParseMunicipios_SembrarArbolDIAN(t *testing.T) {
	root, err := seed.ParseMunicipios(bytes.NewReader(municipiosXML(t)), "Colombia")
	require.NoError(t, err)
	s, uc := newSeeder()
	ctx := context.Background()

	st, err := s.Apply(ctx, []seed.Node{root})
	require.NoError(t, err)
	assert.Equal(t, 6, st.Created)

	tree, err := uc.Tree(ctx, dto.CategoryListQuery{Type: entity.TypeLocation})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Children, 2)
}
