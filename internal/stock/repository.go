package stock

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
)

type Repository interface {
	FindProduct(ctx context.Context, productID int64) (*model.Product, error)
	FindVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	// Conditional decrements. false means no row had enough stock.
	DecrementVariant(ctx context.Context, productID int64, color, size string, quantity int) (bool, error)
	DecrementProduct(ctx context.Context, productID int64, color, size string, quantity int) (bool, error)

	// Rebuilds products.variants and products.stock_quantity from product_variants
	SyncProductAggregate(ctx context.Context, productID int64) error
}
