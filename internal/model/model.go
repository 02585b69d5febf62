// Package model holds the row types shared by the POS repositories.
package model

import (
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	// POS clients expect money as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset is the number of rows skipped before page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
