package repository

import (
	"fmt"
	"math"
	"strings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

const (
	DefaultPage    = 0
	DefaultSize    = 10
	MaxPageSize    = 100
	DefaultSortBy  = "id"
	DefaultSortDir = SortAsc
)

// sortable user fields, external name -> column
var sortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"city":      "city",
	"country":   "country",
	"role":      "role",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// PageRequest is a zero-based page with an ordering.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDirection
}

func DefaultPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, Size: DefaultSize, SortBy: DefaultSortBy, SortDir: DefaultSortDir}
}

// Offset is Page*Size, saturating at math.MaxInt so huge page indexes
// read past the end instead of wrapping negative.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// SortColumn returns the column for SortBy, falling back to id.
func (p PageRequest) SortColumn() string {
	if c, ok := sortColumns[p.SortBy]; ok {
		return c
	}
	return "id"
}

func (p PageRequest) Descending() bool {
	return p.SortDir == SortDesc
}

// ParseSortDirection accepts ASC/DESC in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return SortAsc, nil
	case "DESC":
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

func IsSortable(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

func SortableFields() []string {
	return []string{"id", "firstName", "lastName", "email", "city", "country", "role", "status", "createdAt", "updatedAt"}
}
