// Package taxonomy contiene las reglas estructurales del grafo de categorías:
// dominios y subtipos válidos, tipo de vehículo y restricciones padre→hijo.
// Son funciones puras; la resolución del padre y la búsqueda de duplicados las hace el caso de uso.
package taxonomy

import (
	"slices"
	"strings"

	"github.com/carmarket/catalog-api/internal/domain"
	"github.com/carmarket/catalog-api/internal/domain/entity"
)

var (
	carSubTypes      = []string{entity.SubTypeMake, entity.SubTypeModel, entity.SubTypeYear}
	locationSubTypes = []string{entity.SubTypeCountry, entity.SubTypeState, entity.SubTypeCity}
)

// Draft estado efectivo de una categoría antes de escribirla: la entrada de un create,
// o lo almacenado con el patch aplicado en un update. ID vacío en creación.
type Draft struct {
	ID          string
	Name        string
	Type        string
	SubType     string
	VehicleType string
	ParentID    string
}

// TakesVehicleType indica si el subtipo lleva tipo de vehículo (marcas y modelos).
func TakesVehicleType(subType string) bool {
	return subType == entity.SubTypeMake || subType == entity.SubTypeModel
}

// IsVehicleType valida contra el conjunto cerrado de tipos de vehículo.
func IsVehicleType(v string) bool {
	return slices.Contains(entity.VehicleTypes, v)
}

// ValidateShape aplica, en orden, las comprobaciones que no requieren consultar el almacén.
// Devuelve la primera violación.
func ValidateShape(d Draft) error {
	if strings.TrimSpace(d.Name) == "" || d.Type == "" {
		return domain.Validation("name and type required")
	}
	if d.Type != entity.TypeCar && d.Type != entity.TypeLocation {
		return domain.Validation("invalid type %q: must be car or location", d.Type)
	}

	if d.Type == entity.TypeCar {
		if d.SubType != "" && !slices.Contains(carSubTypes, d.SubType) {
			return domain.Validation("invalid subType %q for car: must be make, model or year", d.SubType)
		}
		if TakesVehicleType(d.SubType) && !IsVehicleType(d.VehicleType) {
			return domain.Validation("vehicleType is required for %s and must be one of: %s",
				d.SubType, strings.Join(entity.VehicleTypes, ", "))
		}
	}

	if d.Type == entity.TypeLocation && d.SubType != "" && !slices.Contains(locationSubTypes, d.SubType) {
		return domain.Validation("invalid subType %q for location: must be country, state or city", d.SubType)
	}

	// Ciudades y estados exigen padre antes de intentar cualquier búsqueda.
	if d.ParentID == "" {
		switch d.SubType {
		case entity.SubTypeCity:
			return domain.Validation("parentCategory is required for city: a city must have a state as parent")
		case entity.SubTypeState:
			return domain.Validation("parentCategory is required for state: a state must have a country as parent")
		}
	}
	return nil
}

// Normalize deja VehicleType solo en marcas y modelos de autos: años, ubicaciones y
// categorías sin subtipo nunca lo persisten.
func Normalize(d Draft) Draft {
	d.Name = strings.TrimSpace(d.Name)
	if d.Type != entity.TypeCar || !TakesVehicleType(d.SubType) {
		d.VehicleType = ""
	}
	return d
}

// ValidateParent comprueba el padre ya resuelto: coincidencia de dominio para ubicaciones y
// la regla jerárquica del subtipo del hijo. Solo mira el padre inmediato.
func ValidateParent(d Draft, parent *entity.Category) error {
	if parent == nil {
		return domain.NotFound("parent category not found")
	}
	if d.Type == entity.TypeLocation && parent.Type != entity.TypeLocation {
		return domain.Validation("parent of a location category must also be a location")
	}
	rule, ok := parentRules[d.SubType]
	if !ok {
		return nil
	}
	return rule.check(d, parent)
}

// parentRule regla jerárquica de un subtipo. Se despacha una sola por subtipo:
// una ciudad nunca se evalúa con la regla de estado ni viceversa.
type parentRule interface {
	check(child Draft, parent *entity.Category) error
}

var parentRules = map[string]parentRule{
	entity.SubTypeCity:  requireParentSubType{child: entity.SubTypeCity, parent: entity.SubTypeState},
	entity.SubTypeState: requireParentSubType{child: entity.SubTypeState, parent: entity.SubTypeCountry},
	entity.SubTypeModel: modelRule{},
}

type requireParentSubType struct {
	child  string
	parent string
}

func (r requireParentSubType) check(_ Draft, parent *entity.Category) error {
	if parent.SubType != r.parent {
		return domain.Validation("a %s must have a %s as parent category, got %s",
			r.child, r.parent, orNone(parent.SubType))
	}
	return nil
}

type modelRule struct{}

func (modelRule) check(child Draft, parent *entity.Category) error {
	if parent.SubType != entity.SubTypeMake {
		return domain.Validation("a model must have a make as parent category, got %s",
			orNone(parent.SubType))
	}
	if child.VehicleType != parent.VehicleType {
		return domain.Validation("model vehicleType %s does not match parent make vehicleType %s",
			child.VehicleType, orNone(parent.VehicleType))
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
