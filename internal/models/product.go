package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product representa un producto del catálogo
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Brand       string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Tags        []string           `json:"tags" bson:"tags"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	ImageURLs   []string           `json:"image_urls" bson:"image_urls"`
	Sizes       []ProductSize      `json:"sizes" bson:"sizes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   *time.Time         `json:"updated_at" bson:"updated_at"`
}

// ProductSize es una talla con su stock disponible
type ProductSize struct {
	Size  string `json:"size" bson:"size" binding:"required"`
	Stock int    `json:"stock" bson:"stock" binding:"gte=0"`
}

// ProductCreate es el payload validado para crear un producto
type ProductCreate struct {
	Name        string        `json:"name" binding:"required,min=1,max=255"`
	Description string        `json:"description"`
	Price       float64       `json:"price" binding:"required,gt=0,price2dp"`
	Category    string        `json:"category" binding:"required"`
	Brand       string        `json:"brand"`
	Tags        []string      `json:"tags"`
	IsActive    *bool         `json:"is_active"`
	ImageURLs   []string      `json:"image_urls" binding:"omitempty,dive,url"`
	Sizes       []ProductSize `json:"sizes" binding:"omitempty,uniquesizes,dive"`
}

// ToProduct convierte el payload en el documento a persistir
func (p ProductCreate) ToProduct() *Product {
	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}
	return &Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		Tags:        nonNil(p.Tags),
		IsActive:    isActive,
		ImageURLs:   nonNil(p.ImageURLs),
		Sizes:       nonNil(p.Sizes),
	}
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name        *string        `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string        `json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty" binding:"omitempty,gt=0,price2dp"`
	Category    *string        `json:"category,omitempty" binding:"omitempty,min=1"`
	Brand       *string        `json:"brand,omitempty"`
	Tags        *[]string      `json:"tags,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	ImageURLs   *[]string      `json:"image_urls,omitempty" binding:"omitempty,dive,url"`
	Sizes       *[]ProductSize `json:"sizes,omitempty" binding:"omitempty,uniquesizes,dive"`
}

// Fields devuelve solo los campos presentes, listos para un $set
func (u ProductUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Brand != nil {
		fields["brand"] = *u.Brand
	}
	if u.Tags != nil {
		fields["tags"] = nonNil(*u.Tags)
	}
	if u.IsActive != nil {
		fields["is_active"] = *u.IsActive
	}
	if u.ImageURLs != nil {
		fields["image_urls"] = nonNil(*u.ImageURLs)
	}
	if u.Sizes != nil {
		fields["sizes"] = nonNil(*u.Sizes)
	}
	return fields
}

// ProductFilter son los filtros opcionales del listado (todos combinados con AND)
type ProductFilter struct {
	Category  string   `form:"category"`
	Brand     string   `form:"brand"`
	MinPrice  *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `form:"max_price" binding:"omitempty,gt=0"`
	Size      string   `form:"size"`
	InStock   *bool    `form:"in_stock"`
	Search    string   `form:"search"`
	Name      string   `form:"name"`
	SortBy    string   `form:"sort_by"`
	SortOrder string   `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
