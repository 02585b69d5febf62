package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64            `db:"id" json:"id"`
	Name          string           `db:"name" json:"name"`
	Brand         string           `db:"brand" json:"brand"`
	Price         decimal.Decimal  `db:"price" json:"price"`
	StockQuantity int              `db:"stock_quantity" json:"stock_quantity"`
	Variants      VariantStock     `db:"variants" json:"variants"`
	IsActive      bool             `db:"is_active" json:"is_active"`
	VariantRows   []ProductVariant `db:"-" json:"variant_stock,omitempty"` // Loaded separately
}

type ProductVariant struct {
	ID            int64  `db:"id" json:"id"`
	ProductID     int64  `db:"product_id" json:"product_id"`
	Size          string `db:"size" json:"size"`
	Color         string `db:"color" json:"color"`
	StockQuantity int    `db:"stock_quantity" json:"stock_quantity"`
}

// VariantStock is the denormalized color -> size -> quantity map stored in
// products.variants.
type VariantStock map[string]map[string]int

func (v *VariantStock) Scan(src interface{}) error {
	var data []byte
	switch s := src.(type) {
	case nil:
		*v = VariantStock{}
		return nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("variants: unsupported type %T", src)
	}
	if len(data) == 0 {
		*v = VariantStock{}
		return nil
	}

	out := VariantStock{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("variants: %w", err)
	}
	*v = out
	return nil
}

func (v VariantStock) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v VariantStock) Total() int {
	total := 0
	for _, sizes := range v {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

// Merge returns a copy of v with every relational variant row applied on top.
// Entries that only exist in v are kept.
func (v VariantStock) Merge(rows []ProductVariant) VariantStock {
	out := make(VariantStock, len(v))
	for color, sizes := range v {
		out[color] = make(map[string]int, len(sizes))
		for size, qty := range sizes {
			out[color][size] = qty
		}
	}
	for _, row := range rows {
		if out[row.Color] == nil {
			out[row.Color] = map[string]int{}
		}
		out[row.Color][row.Size] = row.StockQuantity
	}
	return out
}

// Quantity reports the stock held for color/size and whether v has the entry.
func (v VariantStock) Quantity(color, size string) (int, bool) {
	qty, ok := v[color][size]
	return qty, ok
}
