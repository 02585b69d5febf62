package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type MySQLRepository struct {
	DB *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{DB: db}
}

func (r *MySQLRepository) FindActiveByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var u model.AdminUser
	query := `SELECT id, email, name, role, is_active FROM admin_users WHERE email = ? AND is_active = 1 LIMIT 1`
	err := r.DB.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
