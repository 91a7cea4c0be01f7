package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products for navigation
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a catalog entry. OldPrice, when set, marks the product as
// discounted from that price. Rating and ReviewCount are denormalized
// aggregates maintained by the reviews workflow.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	OldPrice    *decimal.Decimal
	Stock       int
	Images      []string
	SKU         string
	IsActive    bool
	Rating      decimal.Decimal
	ReviewCount int
	CategoryID  *uuid.UUID
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductUpdate carries the mutable product fields for partial updates.
// Nil pointers mean "leave unchanged".
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	OldPrice    *decimal.Decimal
	Stock       *int
	Images      *[]string
	SKU         *string
	IsActive    *bool
	CategoryID  *uuid.UUID
}

// ListFilter narrows and orders a product listing
type ListFilter struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinRating  *decimal.Decimal
	InStock    bool
	ActiveOnly bool
	SortBy     SortField
	SortOrder  SortOrder
	Page       int
	Limit      int
}

// SortField is a product listing sort key
type SortField string

// SortOrder is asc or desc
type SortOrder string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPrice     SortField = "price"
	SortByName      SortField = "name"
	SortByRating    SortField = "rating"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether the sort field is one of the supported keys
func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByPrice, SortByName, SortByRating:
		return true
	}
	return false
}

// Valid reports whether the sort order is asc or desc
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Normalize fills defaults and clamps pagination bounds
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if !f.SortBy.Valid() {
		f.SortBy = SortByCreatedAt
	}
	if !f.SortOrder.Valid() {
		f.SortOrder = SortDesc
	}
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products   []*Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
