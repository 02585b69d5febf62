package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/jmoiron/sqlx"
)

type MySQLRepository struct {
	DB *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{DB: db}
}

const productColumns = `id, name, brand, price, stock_quantity, variants, is_active`

func (r *MySQLRepository) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`
	err := mysql.Conn(ctx, r.DB).GetContext(ctx, &p, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MySQLRepository) FindVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var rows []model.ProductVariant
	query := `
        SELECT id, product_id, size, color, stock_quantity
        FROM product_variants
        WHERE product_id = ?
        ORDER BY color, size
    `
	err := mysql.Conn(ctx, r.DB).SelectContext(ctx, &rows, query, productID)
	return rows, err
}

func (r *MySQLRepository) DecrementVariant(ctx context.Context, productID int64, color, size string, quantity int) (bool, error) {
	query := `
        UPDATE product_variants
        SET stock_quantity = stock_quantity - ?
        WHERE product_id = ? AND size = ? AND color = ? AND stock_quantity >= ?
    `
	res, err := mysql.Conn(ctx, r.DB).ExecContext(ctx, query, quantity, productID, size, color, quantity)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DecrementProduct takes quantity from the product row when no variant row
// could. Products that carry a variants map must have a color/size entry with
// enough stock; that entry is decremented and stock_quantity is rewritten as
// the map total. Products without a map use the guarded flat counter.
func (r *MySQLRepository) DecrementProduct(ctx context.Context, productID int64, color, size string, quantity int) (bool, error) {
	q := mysql.Conn(ctx, r.DB)

	var current model.VariantStock
	err := q.GetContext(ctx, &current, `SELECT variants FROM products WHERE id = ? FOR UPDATE`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock product: %w", err)
	}

	if len(current) > 0 {
		qty, ok := current.Quantity(color, size)
		if !ok || qty < quantity {
			return false, nil
		}
		next := current.Merge([]model.ProductVariant{{Color: color, Size: size, StockQuantity: qty - quantity}})
		_, err = q.ExecContext(ctx,
			`UPDATE products SET variants = ?, stock_quantity = ? WHERE id = ?`,
			next, next.Total(), productID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update product variants: %w", err)
		}
		return true, nil
	}

	query := `
        UPDATE products
        SET stock_quantity = stock_quantity - ?
        WHERE id = ? AND stock_quantity >= ?
    `
	res, err := q.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLRepository) SyncProductAggregate(ctx context.Context, productID int64) error {
	q := mysql.Conn(ctx, r.DB)

	var current model.VariantStock
	err := q.GetContext(ctx, &current, `SELECT variants FROM products WHERE id = ? FOR UPDATE`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d not found", productID)
		}
		return fmt.Errorf("failed to lock product: %w", err)
	}

	rows, err := r.FindVariants(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load variants: %w", err)
	}

	merged := current.Merge(rows)
	_, err = q.ExecContext(ctx,
		`UPDATE products SET variants = ?, stock_quantity = ? WHERE id = ?`,
		merged, merged.Total(), productID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product aggregate: %w", err)
	}
	return nil
}
