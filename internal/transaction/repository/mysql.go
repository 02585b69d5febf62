package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/transaction/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/jmoiron/sqlx"
)

type MySQLRepository struct {
	DB *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{DB: db}
}

const transactionColumns = `t.id, t.transaction_id, t.receipt_number, t.admin_user_id, t.customer_name,
               t.subtotal, t.discount_amount, t.tax_amount, t.total_amount,
               t.payment_method, t.payment_reference, t.cash_received, t.change_given,
               t.status, t.transaction_date`

func (r *MySQLRepository) Create(ctx context.Context, t *model.Transaction) error {
	query := `
        INSERT INTO pos_transactions (
            transaction_id, receipt_number, admin_user_id, customer_name,
            subtotal, discount_amount, tax_amount, total_amount,
            payment_method, payment_reference, cash_received, change_given,
            status, transaction_date
        )
        VALUES (
            :transaction_id, :receipt_number, :admin_user_id, :customer_name,
            :subtotal, :discount_amount, :tax_amount, :total_amount,
            :payment_method, :payment_reference, :cash_received, :change_given,
            :status, :transaction_date
        )
    `
	res, err := mysql.Conn(ctx, r.DB).NamedExecContext(ctx, query, t)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *MySQLRepository) CreateItem(ctx context.Context, item *model.TransactionItem) error {
	query := `
        INSERT INTO pos_transaction_items (
            transaction_id, product_id, product_name, brand, size, color,
            quantity, unit_price, total_price, image_url
        )
        VALUES (
            :transaction_id, :product_id, :product_name, :brand, :size, :color,
            :quantity, :unit_price, :total_price, :image_url
        )
    `
	res, err := mysql.Conn(ctx, r.DB).NamedExecContext(ctx, query, item)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

func (r *MySQLRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	var t model.Transaction
	query := `SELECT ` + transactionColumns + ` FROM pos_transactions t WHERE t.transaction_id = ? LIMIT 1`
	err := mysql.Conn(ctx, r.DB).GetContext(ctx, &t, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MySQLRepository) FindItems(ctx context.Context, transactionID string) ([]model.TransactionItem, error) {
	query := `
        SELECT id, transaction_id, product_id, product_name, brand, size, color,
               quantity, unit_price, total_price, image_url
        FROM pos_transaction_items
        WHERE transaction_id = ?
        ORDER BY id
    `
	items := []model.TransactionItem{}
	err := mysql.Conn(ctx, r.DB).SelectContext(ctx, &items, query, transactionID)
	return items, err
}

func (r *MySQLRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.TransactionListItem, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Date != nil {
		conditions = append(conditions, "t.transaction_date >= ? AND t.transaction_date < ?")
		args = append(args, *f.Date, f.Date.AddDate(0, 0, 1))
	}
	if f.Status != "" {
		conditions = append(conditions, "t.status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		conditions = append(conditions, "(t.receipt_number LIKE ? OR t.transaction_id LIKE ? OR t.customer_name LIKE ?)")
		args = append(args, like, like, like)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := mysql.Conn(ctx, r.DB)

	var total int
	countQuery := `SELECT COUNT(DISTINCT t.id) FROM pos_transactions t` + whereClause
	if err := q.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `
        SELECT ` + transactionColumns + `,
               COUNT(i.id) AS item_count,
               u.name AS cashier_name
        FROM pos_transactions t
        LEFT JOIN pos_transaction_items i ON i.transaction_id = t.transaction_id
        LEFT JOIN admin_users u ON u.id = t.admin_user_id` + whereClause + `
        GROUP BY t.id, u.name
        ORDER BY t.transaction_date DESC
        LIMIT ? OFFSET ?`

	items := []model.TransactionListItem{}
	pageArgs := append(append([]interface{}{}, args...), f.PageSize, model.Offset(f.Page, f.PageSize))
	if err := q.SelectContext(ctx, &items, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return items, total, nil
}
