package repository

import (
	"fmt"

	"github.com/uptrace/bun"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
	// MaxPageNumber keeps Offset far from int overflow.
	MaxPageNumber = 1_000_000
)

// Page selects a zero-based page of a listing ordered by Order.
// Order names a JSON field (e.g. "nameRu"); each repository whitelists
// the fields it can sort by and falls back to id.
type Page struct {
	Number int
	Size   int
	Order  string
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped. Call it on a normalized page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// TotalPages computes the page count for total rows at size rows per page.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// apply adds ORDER BY, LIMIT and OFFSET. columns maps sortable fields to
// column names; unknown or empty Order sorts by id.
func (p Page) apply(q *bun.SelectQuery, columns map[string]string) *bun.SelectQuery {
	p = p.Normalize()

	column, ok := columns[p.Order]
	if !ok {
		column = "id"
	}

	q = q.OrderExpr(fmt.Sprintf("?TableAlias.%s ASC", column))
	if column != "id" {
		q = q.OrderExpr("?TableAlias.id ASC")
	}

	return q.
		Limit(p.Size).
		Offset(p.Offset())
}
