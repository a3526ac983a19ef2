package taxonomy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
	"github.com/carmarket/catalog-api/internal/domain/taxonomy"
)

// ──────────────────────────────────────────────────────────────────────────────
// ValidateShape: orden de comprobaciones sin consultar el almacén
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateShape_Casos(t *testing.T) {
	tests := []struct {
		name    string
		draft   taxonomy.Draft
		wantErr string // vacío = válido
	}{
		{"sin nombre", taxonomy.Draft{Type: entity.TypeCar}, "name and type required"},
		{"nombre en blanco", taxonomy.Draft{Name: "   ", Type: entity.TypeCar}, "name and type required"},
		{"sin tipo", taxonomy.Draft{Name: "Toyota"}, "name and type required"},
		{"tipo desconocido", taxonomy.Draft{Name: "Yate", Type: "boat"}, "invalid type"},
		{"subtipo de ubicación en auto", taxonomy.Draft{Name: "X", Type: entity.TypeCar, SubType: entity.SubTypeCity}, "invalid subType"},
		{"marca sin tipo de vehículo", taxonomy.Draft{Name: "Toyota", Type: entity.TypeCar, SubType: entity.SubTypeMake}, "vehicleType is required"},
		{"modelo con tipo de vehículo fuera del conjunto", taxonomy.Draft{Name: "Corolla", Type: entity.TypeCar, SubType: entity.SubTypeModel, VehicleType: "Boat"}, "vehicleType is required"},
		{"subtipo de auto en ubicación", taxonomy.Draft{Name: "X", Type: entity.TypeLocation, SubType: entity.SubTypeMake}, "invalid subType"},
		{"ciudad sin padre", taxonomy.Draft{Name: "Lahore", Type: entity.TypeLocation, SubType: entity.SubTypeCity}, "must have a state"},
		{"estado sin padre", taxonomy.Draft{Name: "Punjab", Type: entity.TypeLocation, SubType: entity.SubTypeState}, "must have a country"},
		{"marca válida", taxonomy.Draft{Name: "Toyota", Type: entity.TypeCar, SubType: entity.SubTypeMake, VehicleType: entity.VehicleCar}, ""},
		{"año sin tipo de vehículo", taxonomy.Draft{Name: "2024", Type: entity.TypeCar, SubType: entity.SubTypeYear}, ""},
		{"auto sin subtipo", taxonomy.Draft{Name: "Clásicos", Type: entity.TypeCar}, ""},
		{"país sin padre", taxonomy.Draft{Name: "Pakistan", Type: entity.TypeLocation, SubType: entity.SubTypeCountry}, ""},
		{"modelo sin padre", taxonomy.Draft{Name: "Corolla", Type: entity.TypeCar, SubType: entity.SubTypeModel, VehicleType: entity.VehicleCar}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := taxonomy.ValidateShape(tt.draft)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// La primera violación gana: sin nombre se informa antes que el subtipo inválido.
func TestValidateShape_PrimeraViolacionGana(t *testing.T) {
	err := taxonomy.ValidateShape(taxonomy.Draft{Type: entity.TypeCar, SubType: "planet"})
	require.Error(t, err)
	assert.Equal(t, "name and type required", err.Error())
}

func TestNormalize_SoloMarcasYModelosConservanVehiculo(t *testing.T) {
	tests := []struct {
		draft taxonomy.Draft
		want  string
	}{
		{taxonomy.Draft{Name: " Toyota ", Type: entity.TypeCar, SubType: entity.SubTypeMake, VehicleType: entity.VehicleCar}, entity.VehicleCar},
		{taxonomy.Draft{Name: "Corolla", Type: entity.TypeCar, SubType: entity.SubTypeModel, VehicleType: entity.VehicleCar}, entity.VehicleCar},
		{taxonomy.Draft{Name: "2024", Type: entity.TypeCar, SubType: entity.SubTypeYear, VehicleType: entity.VehicleBike}, ""},
		{taxonomy.Draft{Name: "Clásicos", Type: entity.TypeCar, VehicleType: entity.VehicleBus}, ""},
		{taxonomy.Draft{Name: "Pakistan", Type: entity.TypeLocation, SubType: entity.SubTypeCountry, VehicleType: entity.VehicleCar}, ""},
	}
	for _, tt := range tests {
		got := taxonomy.Normalize(tt.draft)
		assert.Equal(t, tt.want, got.VehicleType, tt.draft.Name)
	}
	assert.Equal(t, "Toyota", taxonomy.Normalize(tests[0].draft).Name, "el nombre se recorta")
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateParent: reglas jerárquicas despachadas por subtipo
// ──────────────────────────────────────────────────────────────────────────────

var (
	pakistan = &entity.Category{ID: "p", Name: "Pakistan", Type: entity.TypeLocation, SubType: entity.SubTypeCountry}
	punjab   = &entity.Category{ID: "pj", Name: "Punjab", Type: entity.TypeLocation, SubType: entity.SubTypeState}
	lahore   = &entity.Category{ID: "lh", Name: "Lahore", Type: entity.TypeLocation, SubType: entity.SubTypeCity}
	toyota   = &entity.Category{ID: "t", Name: "Toyota", Type: entity.TypeCar, SubType: entity.SubTypeMake, VehicleType: entity.VehicleCar}
	honda    = &entity.Category{ID: "h", Name: "Honda", Type: entity.TypeCar, SubType: entity.SubTypeMake, VehicleType: entity.VehicleBike}
)

func TestValidateParent_CiudadConPaisRechazada(t *testing.T) {
	d := taxonomy.Draft{Name: "Lahore", Type: entity.TypeLocation, SubType: entity.SubTypeCity, ParentID: pakistan.ID}
	err := taxonomy.ValidateParent(d, pakistan)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "a city must have a state as parent")
}

func TestValidateParent_CiudadConEstadoAceptada(t *testing.T) {
	d := taxonomy.Draft{Name: "Lahore", Type: entity.TypeLocation, SubType: entity.SubTypeCity, ParentID: punjab.ID}
	assert.NoError(t, taxonomy.ValidateParent(d, punjab))
}

// La ciudad solo mira a su padre inmediato: un estado sin país no se revalida.
func TestValidateParent_CiudadNoRecorreMasArriba(t *testing.T) {
	orphanState := &entity.Category{ID: "os", Name: "Huérfano", Type: entity.TypeLocation, SubType: entity.SubTypeState, ParentID: "deleted"}
	d := taxonomy.Draft{Name: "X", Type: entity.TypeLocation, SubType: entity.SubTypeCity, ParentID: orphanState.ID}
	assert.NoError(t, taxonomy.ValidateParent(d, orphanState))
}

func TestValidateParent_EstadoRequierePais(t *testing.T) {
	d := taxonomy.Draft{Name: "Punjab", Type: entity.TypeLocation, SubType: entity.SubTypeState}
	assert.NoError(t, taxonomy.ValidateParent(d, pakistan))

	err := taxonomy.ValidateParent(d, lahore)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a state must have a country as parent")
}

func TestValidateParent_UbicacionConPadreDeAuto(t *testing.T) {
	d := taxonomy.Draft{Name: "Pakistan", Type: entity.TypeLocation, SubType: entity.SubTypeCountry}
	err := taxonomy.ValidateParent(d, toyota)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must also be a location")
}

func TestValidateParent_ModeloRequiereMarcaDelMismoVehiculo(t *testing.T) {
	corolla := taxonomy.Draft{Name: "Corolla", Type: entity.TypeCar, SubType: entity.SubTypeModel, VehicleType: entity.VehicleCar}
	assert.NoError(t, taxonomy.ValidateParent(corolla, toyota))

	err := taxonomy.ValidateParent(corolla, honda)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match parent make vehicleType Bike")

	year := &entity.Category{ID: "y", Name: "2024", Type: entity.TypeCar, SubType: entity.SubTypeYear}
	err = taxonomy.ValidateParent(corolla, year)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a model must have a make")
}

// Marcas, años y países no tienen regla de padre.
func TestValidateParent_SubtiposSinRegla(t *testing.T) {
	lexus := taxonomy.Draft{Name: "Lexus", Type: entity.TypeCar, SubType: entity.SubTypeMake, VehicleType: entity.VehicleCar}
	assert.NoError(t, taxonomy.ValidateParent(lexus, toyota))

	year := taxonomy.Draft{Name: "2024", Type: entity.TypeCar, SubType: entity.SubTypeYear}
	assert.NoError(t, taxonomy.ValidateParent(year, toyota))
}

func TestValidateParent_PadreNilEsNotFound(t *testing.T) {
	d := taxonomy.Draft{Name: "Lahore", Type: entity.TypeLocation, SubType: entity.SubTypeCity, ParentID: "missing"}
	assert.ErrorIs(t, taxonomy.ValidateParent(d, nil), domain.ErrNotFound)
}
