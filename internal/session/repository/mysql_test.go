package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func newRepo(t *testing.T) (*MySQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMySQLRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestCreateSetsID(t *testing.T) {
	repo, mock := newRepo(t)

	s := &model.Session{SessionID: "SES-1", UserID: 4, TerminalName: "POS-01", Status: model.SessionActive, StartTime: time.Now()}
	mock.ExpectExec(`INSERT INTO pos_sessions`).
		WithArgs("SES-1", int64(4), "POS-01", "active", sqlmock.AnyArg(), sqlmock.AnyArg(), 0, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(17, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if s.ID != 17 {
		t.Errorf("ID = %d, want 17", s.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateDuplicateActiveSession(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO pos_sessions`).
		WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry '4' for key 'uq_pos_sessions_one_active'"})

	err := repo.Create(context.Background(), &model.Session{SessionID: "SES-2", UserID: 4, Status: model.SessionActive})
	if !errors.Is(err, apperror.ErrActiveSessionExists) {
		t.Fatalf("err = %v, want ErrActiveSessionExists", err)
	}
}

func TestFindActiveWithSalesNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM pos_sessions s LEFT JOIN pos_transactions t ON t.admin_user_id = s.user_id AND t.transaction_date >= s.start_time AND t.status = 'completed' WHERE s.session_id = \? AND s.status = 'active' GROUP BY s.id`).
		WithArgs("SES-404").
		WillReturnError(sql.ErrNoRows)

	s, err := repo.FindActiveWithSales(context.Background(), "SES-404")
	if err != nil || s != nil {
		t.Fatalf("got %v, %v; want nil, nil", s, err)
	}
}

func TestCloseGuardsOnActiveAndAppendsNote(t *testing.T) {
	repo, mock := newRepo(t)
	end := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE pos_sessions SET status = 'closed', closing_cash = \?, total_sales = \?, total_transactions = \?, end_time = \?, notes = CONCAT_WS\(' \| ', NULLIF\(notes, ''\), \?\) WHERE session_id = \? AND status = 'active'`).
		WithArgs(decimal.RequireFromString("2000"), decimal.RequireFromString("1000"), 3, end, "Closing: ok", "SES-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE pos_sessions SET status = 'closed', closing_cash = \?, total_sales = \?, total_transactions = \?, end_time = \? WHERE session_id = \? AND status = 'active'`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 0, end, "SES-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Close(context.Background(), &dto.CloseParams{
		SessionID:         "SES-1",
		ClosingCash:       decimal.RequireFromString("2000"),
		TotalSales:        decimal.RequireFromString("1000"),
		TotalTransactions: 3,
		EndTime:           end,
		Note:              "Closing: ok",
	})
	if err != nil || !ok {
		t.Fatalf("first close = %v, %v", ok, err)
	}

	ok, err = repo.Close(context.Background(), &dto.CloseParams{SessionID: "SES-1", EndTime: end})
	if err != nil || ok {
		t.Fatalf("second close = %v, %v; want false", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestTransitionStatusDuplicateOnResume(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE pos_sessions SET status = \?, notes = CONCAT_WS\(' \| ', NULLIF\(notes, ''\), \?\) WHERE session_id = \? AND status = \?`).
		WithArgs("active", "RESUMED: back", "SES-9", "suspended").
		WillReturnError(&driver.MySQLError{Number: 1062})

	_, err := repo.TransitionStatus(context.Background(), "SES-9", model.SessionSuspended, model.SessionActive, "RESUMED: back")
	if !errors.Is(err, apperror.ErrActiveSessionExists) {
		t.Fatalf("err = %v, want ErrActiveSessionExists", err)
	}
}

func TestFindAllFiltersAndPages(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT s.id\) FROM pos_sessions s WHERE s.status = \? AND s.user_id = \? AND s.start_time >= \? AND s.start_time < \?`).
		WithArgs("closed", int64(4), start, end.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "user_id", "terminal_name", "status", "opening_cash", "closing_cash",
		"total_sales", "total_transactions", "start_time", "end_time", "notes",
		"cashier_name", "cashier_email", "transaction_count", "actual_sales",
	}).AddRow(11, "SES-11", 4, "POS-01", "closed", "1000.00", "2000.00", "1000.00", 3, start, end, nil,
		"Jane Cruz", "cashier@gkicks.test", 3, "1000.00")

	mock.ExpectQuery(`LEFT JOIN admin_users u ON u.id = s.user_id .* GROUP BY s.id, u.name, u.email ORDER BY s.start_time DESC LIMIT \? OFFSET \?`).
		WithArgs("closed", int64(4), start, end.AddDate(0, 0, 1), 10, 10).
		WillReturnRows(rows)

	items, total, err := repo.FindAll(context.Background(), &dto.SessionFilters{
		Status:      model.SessionClosed,
		AdminUserID: 4,
		StartDate:   &start,
		EndDate:     &end,
		Page:        2,
		PageSize:    10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 25 || len(items) != 1 {
		t.Fatalf("total = %d, items = %d", total, len(items))
	}
	got := items[0]
	if got.SessionID != "SES-11" || *got.CashierName != "Jane Cruz" || got.TransactionCount != 3 {
		t.Errorf("item = %+v", got)
	}
	if !got.ClosingCash.Valid || !got.ClosingCash.Decimal.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("closing cash = %v", got.ClosingCash)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindAllBoundsSalesByNextSession(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT s.id\) FROM pos_sessions s WHERE s.status = \?`).
		WithArgs("suspended").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`AND \(s.end_time IS NULL OR t.transaction_date <= s.end_time\) AND NOT EXISTS \( SELECT 1 FROM pos_sessions n WHERE n.user_id = s.user_id AND n.start_time > s.start_time AND n.start_time <= t.transaction_date\) AND t.status = 'completed' WHERE s.status = \?`).
		WithArgs("suspended", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, _, err := repo.FindAll(context.Background(), &dto.SessionFilters{Status: model.SessionSuspended, Page: 1, PageSize: 20}); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
