package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Type           string `json:"type" validate:"required,oneof=car location"`
	SubType        string `json:"subType"`
	ParentCategory string `json:"parentCategory"`
	Order          *int   `json:"order"`
	IsActive       *bool  `json:"isActive"`
	VehicleType    string `json:"vehicleType"`
}

// UpdateCategoryRequest patch de una categoría; cada campo puede omitirse, anularse o fijarse.
type UpdateCategoryRequest struct {
	Name           Nullable[string] `json:"name"`
	Description    Nullable[string] `json:"description"`
	Image          Nullable[string] `json:"image"`
	Type           Nullable[string] `json:"type"`
	SubType        Nullable[string] `json:"subType"`
	ParentCategory Nullable[string] `json:"parentCategory"`
	Order          Nullable[int]    `json:"order"`
	IsActive       Nullable[bool]   `json:"isActive"`
	VehicleType    Nullable[string] `json:"vehicleType"`
}

// CategoryListQuery filtros de listado (query string).
type CategoryListQuery struct {
	Type           string
	SubType        string
	VehicleType    string
	ParentCategory *string // "" = solo raíces
	IsActive       *bool
}

// CategoryResponse salida de una categoría. Los opcionales ausentes se serializan como null.
type CategoryResponse struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	Type           string    `json:"type"`
	SubType        *string   `json:"subType"`
	VehicleType    *string   `json:"vehicleType"`
	ParentCategory *string   `json:"parentCategory"`
	Order          int       `json:"order"`
	IsActive       bool      `json:"isActive"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CategoryNode categoría con sus hijos (vista de árbol).
type CategoryNode struct {
	CategoryResponse
	Children []CategoryNode `json:"children"`
}
