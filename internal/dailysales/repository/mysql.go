package repository

import (
	"context"
	"strings"

	"github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
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

func (r *MySQLRepository) Increment(ctx context.Context, d *model.DailySales) error {
	query := `
        INSERT INTO pos_daily_sales (
            sale_date, admin_user_id, total_transactions, total_items_sold,
            gross_sales, net_sales, cash_sales, card_sales,
            digital_wallet_sales, bank_transfer_sales
        )
        VALUES (
            :sale_date, :admin_user_id, :total_transactions, :total_items_sold,
            :gross_sales, :net_sales, :cash_sales, :card_sales,
            :digital_wallet_sales, :bank_transfer_sales
        )
        ON DUPLICATE KEY UPDATE
            total_transactions = total_transactions + VALUES(total_transactions),
            total_items_sold = total_items_sold + VALUES(total_items_sold),
            gross_sales = gross_sales + VALUES(gross_sales),
            net_sales = net_sales + VALUES(net_sales),
            cash_sales = cash_sales + VALUES(cash_sales),
            card_sales = card_sales + VALUES(card_sales),
            digital_wallet_sales = digital_wallet_sales + VALUES(digital_wallet_sales),
            bank_transfer_sales = bank_transfer_sales + VALUES(bank_transfer_sales)
    `
	_, err := mysql.Conn(ctx, r.DB).NamedExecContext(ctx, query, d)
	return err
}

func (r *MySQLRepository) FindAll(ctx context.Context, f *dto.DailySalesFilters) ([]model.DailySales, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.AdminUserID > 0 {
		conditions = append(conditions, "admin_user_id = ?")
		args = append(args, f.AdminUserID)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "sale_date >= ?")
		args = append(args, f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		conditions = append(conditions, "sale_date <= ?")
		args = append(args, f.EndDate.Format("2006-01-02"))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT id, sale_date, admin_user_id, total_transactions, total_items_sold,
               gross_sales, net_sales, cash_sales, card_sales,
               digital_wallet_sales, bank_transfer_sales, updated_at
        FROM pos_daily_sales` + whereClause + `
        ORDER BY sale_date DESC, admin_user_id`

	items := []model.DailySales{}
	err := mysql.Conn(ctx, r.DB).SelectContext(ctx, &items, query, args...)
	return items, err
}
