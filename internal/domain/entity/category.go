package entity

import "time"

// Dominios de la taxonomía.
const (
	TypeCar      = "car"
	TypeLocation = "location"
)

// Subtipos por dominio: car → make/model/year; location → country/state/city.
const (
	SubTypeMake    = "make"
	SubTypeModel   = "model"
	SubTypeYear    = "year"
	SubTypeCountry = "country"
	SubTypeState   = "state"
	SubTypeCity    = "city"
)

// Tipos de vehículo admitidos para marcas y modelos.
const (
	VehicleCar   = "Car"
	VehicleBus   = "Bus"
	VehicleTruck = "Truck"
	VehicleVan   = "Van"
	VehicleBike  = "Bike"
	VehicleEBike = "E-bike"
)

// VehicleTypes conjunto cerrado, en el orden en que se muestran en los mensajes de error.
var VehicleTypes = []string{VehicleCar, VehicleBus, VehicleTruck, VehicleVan, VehicleBike, VehicleEBike}

// Category nodo del grafo de taxonomía (marca, modelo, año, país, estado o ciudad).
// Los campos opcionales usan cadena vacía como ausencia (NULL en PostgreSQL).
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Image       string
	Type        string // car, location
	SubType     string // vacío si no aplica
	VehicleType string // solo car + make/model
	ParentID    string // referencia débil: borrar el padre no afecta al hijo
	Order       int
	IsActive    bool
	CreatedBy   string // admin que la creó
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
