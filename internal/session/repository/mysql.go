package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/jmoiron/sqlx"
)

type MySQLRepository struct {
	DB *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{DB: db}
}

// active_user_id is generated by MySQL and never selected.
const sessionColumns = `s.id, s.session_id, s.user_id, s.terminal_name, s.status,
               s.opening_cash, s.closing_cash, s.total_sales, s.total_transactions,
               s.start_time, s.end_time, s.notes`

func (r *MySQLRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Session, error) {
	var s model.Session
	err := mysql.Conn(ctx, r.DB).GetContext(ctx, &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *MySQLRepository) FindActiveByUser(ctx context.Context, userID int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM pos_sessions s
        WHERE s.user_id = ? AND s.status = 'active'
        ORDER BY s.start_time DESC LIMIT 1`
	return r.getOne(ctx, query, userID)
}

// FindCurrentByUser prefers an active session over a suspended one.
func (r *MySQLRepository) FindCurrentByUser(ctx context.Context, userID int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM pos_sessions s
        WHERE s.user_id = ? AND s.status IN ('active', 'suspended')
        ORDER BY FIELD(s.status, 'active', 'suspended'), s.start_time DESC LIMIT 1`
	return r.getOne(ctx, query, userID)
}

func (r *MySQLRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM pos_sessions s WHERE s.session_id = ? LIMIT 1`
	return r.getOne(ctx, query, sessionID)
}

// Create inserts s and sets its ID. A second active session for the same
// user trips uq_pos_sessions_one_active and is reported as
// apperror.ErrActiveSessionExists.
func (r *MySQLRepository) Create(ctx context.Context, s *model.Session) error {
	query := `
        INSERT INTO pos_sessions (
            session_id, user_id, terminal_name, status, opening_cash,
            total_sales, total_transactions, start_time, notes
        )
        VALUES (
            :session_id, :user_id, :terminal_name, :status, :opening_cash,
            :total_sales, :total_transactions, :start_time, :notes
        )
    `
	res, err := mysql.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	if err != nil {
		if mysql.IsDuplicateKey(err) {
			return fmt.Errorf("insert session: %w", apperror.ErrActiveSessionExists)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *MySQLRepository) FindActiveWithSales(ctx context.Context, sessionID string) (*model.SessionWithSales, error) {
	query := `
        SELECT ` + sessionColumns + `,
               COALESCE(SUM(t.total_amount), 0) AS actual_sales,
               COUNT(t.id) AS actual_transactions
        FROM pos_sessions s
        LEFT JOIN pos_transactions t
               ON t.admin_user_id = s.user_id
              AND t.transaction_date >= s.start_time
              AND t.status = 'completed'
        WHERE s.session_id = ? AND s.status = 'active'
        GROUP BY s.id
    `
	var s model.SessionWithSales
	err := mysql.Conn(ctx, r.DB).GetContext(ctx, &s, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Close only affects a session that is still active. Notes are appended,
// never replaced.
func (r *MySQLRepository) Close(ctx context.Context, p *dto.CloseParams) (bool, error) {
	set := []string{
		"status = 'closed'",
		"closing_cash = ?",
		"total_sales = ?",
		"total_transactions = ?",
		"end_time = ?",
	}
	args := []interface{}{p.ClosingCash, p.TotalSales, p.TotalTransactions, p.EndTime}
	if p.Note != "" {
		set = append(set, appendNoteExpr)
		args = append(args, p.Note)
	}
	args = append(args, p.SessionID)

	query := `UPDATE pos_sessions SET ` + strings.Join(set, ", ") + ` WHERE session_id = ? AND status = 'active'`
	return r.exec(ctx, query, args...)
}

func (r *MySQLRepository) TransitionStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, note string) (bool, error) {
	query := `UPDATE pos_sessions SET status = ?, ` + appendNoteExpr + ` WHERE session_id = ? AND status = ?`
	ok, err := r.exec(ctx, query, to, note, sessionID, from)
	if err != nil && mysql.IsDuplicateKey(err) {
		return false, fmt.Errorf("resume session: %w", apperror.ErrActiveSessionExists)
	}
	return ok, err
}

const appendNoteExpr = "notes = CONCAT_WS(' | ', NULLIF(notes, ''), ?)"

func (r *MySQLRepository) exec(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := mysql.Conn(ctx, r.DB).ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLRepository) FindAll(ctx context.Context, f *dto.SessionFilters) ([]model.SessionListItem, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "s.status = ?")
		args = append(args, f.Status)
	}
	if f.AdminUserID > 0 {
		conditions = append(conditions, "s.user_id = ?")
		args = append(args, f.AdminUserID)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "s.start_time >= ?")
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		conditions = append(conditions, "s.start_time < ?")
		args = append(args, f.EndDate.AddDate(0, 0, 1))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := mysql.Conn(ctx, r.DB)

	var total int
	countQuery := `SELECT COUNT(DISTINCT s.id) FROM pos_sessions s` + whereClause
	if err := q.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	// A sale counts toward the cashier's latest session that started at or
	// before it, so a suspended session stops at the next one's start.
	query := `
        SELECT ` + sessionColumns + `,
               u.name AS cashier_name,
               u.email AS cashier_email,
               COUNT(t.id) AS transaction_count,
               COALESCE(SUM(t.total_amount), 0) AS actual_sales
        FROM pos_sessions s
        LEFT JOIN admin_users u ON u.id = s.user_id
        LEFT JOIN pos_transactions t
               ON t.admin_user_id = s.user_id
              AND t.transaction_date >= s.start_time
              AND (s.end_time IS NULL OR t.transaction_date <= s.end_time)
              AND NOT EXISTS (
                    SELECT 1 FROM pos_sessions n
                    WHERE n.user_id = s.user_id
                      AND n.start_time > s.start_time
                      AND n.start_time <= t.transaction_date)
              AND t.status = 'completed'` + whereClause + `
        GROUP BY s.id, u.name, u.email
        ORDER BY s.start_time DESC
        LIMIT ? OFFSET ?`

	items := []model.SessionListItem{}
	pageArgs := append(append([]interface{}{}, args...), f.PageSize, model.Offset(f.Page, f.PageSize))
	if err := q.SelectContext(ctx, &items, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	return items, total, nil
}
