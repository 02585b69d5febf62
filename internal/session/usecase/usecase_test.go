package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/shopspring/decimal"
)

// fakeRepo keeps sessions in memory and enforces one active session per user
// the way the unique key does.
type fakeRepo struct {
	sessions map[string]*model.Session
	sales    map[string]decimal.Decimal
	txCount  map[string]int
	nextID   int64

	// inserted right before Create runs, to simulate a concurrent open
	raceWinner *model.Session
	closed     *dto.CloseParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: map[string]*model.Session{},
		sales:    map[string]decimal.Decimal{},
		txCount:  map[string]int{},
	}
}

func (f *fakeRepo) find(pred func(*model.Session) bool) *model.Session {
	for _, s := range f.sessions {
		if pred(s) {
			cp := *s
			return &cp
		}
	}
	return nil
}

func (f *fakeRepo) FindActiveByUser(ctx context.Context, userID int64) (*model.Session, error) {
	return f.find(func(s *model.Session) bool { return s.UserID == userID && s.Status == model.SessionActive }), nil
}

func (f *fakeRepo) FindCurrentByUser(ctx context.Context, userID int64) (*model.Session, error) {
	if s, _ := f.FindActiveByUser(ctx, userID); s != nil {
		return s, nil
	}
	return f.find(func(s *model.Session) bool { return s.UserID == userID && s.Status == model.SessionSuspended }), nil
}

func (f *fakeRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Session, error) {
	return f.find(func(s *model.Session) bool { return s.SessionID == sessionID }), nil
}

func (f *fakeRepo) Create(ctx context.Context, s *model.Session) error {
	if f.raceWinner != nil {
		f.sessions[f.raceWinner.SessionID] = f.raceWinner
		f.raceWinner = nil
	}
	if active, _ := f.FindActiveByUser(ctx, s.UserID); active != nil {
		return apperror.ErrActiveSessionExists
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.sessions[s.SessionID] = &cp
	return nil
}

func (f *fakeRepo) FindActiveWithSales(ctx context.Context, sessionID string) (*model.SessionWithSales, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != model.SessionActive {
		return nil, nil
	}
	return &model.SessionWithSales{Session: *s, ActualSales: f.sales[sessionID], ActualTransactions: f.txCount[sessionID]}, nil
}

func (f *fakeRepo) Close(ctx context.Context, p *dto.CloseParams) (bool, error) {
	s, ok := f.sessions[p.SessionID]
	if !ok || s.Status != model.SessionActive {
		return false, nil
	}
	s.Status = model.SessionClosed
	s.ClosingCash = decimal.NewNullDecimal(p.ClosingCash)
	s.TotalSales = p.TotalSales
	s.TotalTransactions = p.TotalTransactions
	f.appendNote(s, p.Note)
	f.closed = p
	return true, nil
}

func (f *fakeRepo) TransitionStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, note string) (bool, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != from {
		return false, nil
	}
	if to == model.SessionActive {
		if active, _ := f.FindActiveByUser(ctx, s.UserID); active != nil {
			return false, apperror.ErrActiveSessionExists
		}
	}
	s.Status = to
	f.appendNote(s, note)
	return true, nil
}

func (f *fakeRepo) appendNote(s *model.Session, note string) {
	if note == "" {
		return
	}
	if s.Notes == nil || *s.Notes == "" {
		s.Notes = &note
		return
	}
	joined := *s.Notes + " | " + note
	s.Notes = &joined
}

func (f *fakeRepo) FindAll(ctx context.Context, filters *dto.SessionFilters) ([]model.SessionListItem, int, error) {
	return nil, 0, nil
}

func newUseCase(repo *fakeRepo, rc *cache.RedisClient) *sessionUseCase {
	uc := NewSessionUseCase(repo, rc, logger.NewNop()).(*sessionUseCase)
	uc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return uc
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpenThenCloseBalanced(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	s, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4, OpeningCash: dec("1000")})
	if err != nil {
		t.Fatal(err)
	}
	if s.TerminalName != DefaultTerminal || s.Status != model.SessionActive || s.ID == 0 {
		t.Errorf("opened session = %+v", s)
	}

	repo.sales[s.SessionID] = dec("1000")
	repo.txCount[s.SessionID] = 3

	summary, err := uc.CloseSession(ctx, &dto.CloseSessionInput{UserID: 4, SessionID: s.SessionID, ClosingCash: dec("2000"), Notes: "end of day"})
	if err != nil {
		t.Fatal(err)
	}
	if !summary.ExpectedCash.Equal(dec("2000")) || !summary.CashVariance.IsZero() {
		t.Errorf("expected %s variance %s", summary.ExpectedCash, summary.CashVariance)
	}
	if summary.VarianceStatus != dto.VarianceBalanced {
		t.Errorf("variance status = %s", summary.VarianceStatus)
	}
	if summary.TotalTransactions != 3 {
		t.Errorf("transactions = %d", summary.TotalTransactions)
	}
	if repo.closed.Note != "Closing: end of day" {
		t.Errorf("note = %q", repo.closed.Note)
	}
	if repo.sessions[s.SessionID].Status != model.SessionClosed {
		t.Error("session not closed")
	}
}

func TestCloseKeepsExistingNotes(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	s, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4, Notes: "float from safe"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.CloseSession(ctx, &dto.CloseSessionInput{SessionID: s.SessionID, ClosingCash: dec("0"), Notes: "done"}); err != nil {
		t.Fatal(err)
	}
	if got := *repo.sessions[s.SessionID].Notes; got != "float from safe | Closing: done" {
		t.Errorf("notes = %q", got)
	}
}

func TestSecondOpenIsRejected(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	first, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4})
	if err != nil {
		t.Fatal(err)
	}

	_, err = uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4})
	var conflict *apperror.ActiveSessionError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ActiveSessionError", err)
	}
	if conflict.SessionID != first.SessionID {
		t.Errorf("existing session = %q, want %q", conflict.SessionID, first.SessionID)
	}

	if _, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 5}); err != nil {
		t.Errorf("another cashier must be able to open: %v", err)
	}
}

func TestConcurrentOpenLosesToUniqueKey(t *testing.T) {
	repo := newFakeRepo()
	repo.raceWinner = &model.Session{SessionID: "SES-1-WINNER", UserID: 4, Status: model.SessionActive}
	uc := newUseCase(repo, nil)

	_, err := uc.OpenSession(context.Background(), &dto.OpenSessionInput{UserID: 4})
	var conflict *apperror.ActiveSessionError
	if !errors.As(err, &conflict) || conflict.SessionID != "SES-1-WINNER" {
		t.Fatalf("err = %v, want conflict naming the winner", err)
	}
}

func TestOpenLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	repo := newFakeRepo()
	uc := newUseCase(repo, rc)
	ctx := context.Background()

	mr.Set(openLockKey(4), "someone-else")
	_, err = uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation while locked", err)
	}
	if len(repo.sessions) != 0 {
		t.Fatal("session created while lock was held")
	}

	mr.Del(openLockKey(4))
	if _, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4}); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(openLockKey(4)) {
		t.Error("lock not released after open")
	}
}

func TestOpenRejectsNegativeCash(t *testing.T) {
	uc := newUseCase(newFakeRepo(), nil)
	_, err := uc.OpenSession(context.Background(), &dto.OpenSessionInput{UserID: 4, OpeningCash: dec("-1")})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCloseUnknownSession(t *testing.T) {
	uc := newUseCase(newFakeRepo(), nil)
	_, err := uc.CloseSession(context.Background(), &dto.CloseSessionInput{SessionID: "SES-404", ClosingCash: dec("10")})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestVarianceStatus(t *testing.T) {
	tests := []struct {
		variance string
		want     string
	}{
		{"0", dto.VarianceBalanced},
		{"0.009", dto.VarianceBalanced},
		{"-0.009", dto.VarianceBalanced},
		{"0.01", dto.VarianceOver},
		{"250", dto.VarianceOver},
		{"-0.01", dto.VarianceShort},
		{"-75.50", dto.VarianceShort},
	}
	for _, tt := range tests {
		if got := VarianceStatus(dec(tt.variance)); got != tt.want {
			t.Errorf("VarianceStatus(%s) = %s, want %s", tt.variance, got, tt.want)
		}
	}
}

func TestSuspendAndResume(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	s, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := uc.ChangeStatus(ctx, &dto.ChangeStatusInput{UserID: 1, SessionID: s.SessionID, Action: "resume"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("resume of active session: err = %v, want not found", err)
	}

	change, err := uc.ChangeStatus(ctx, &dto.ChangeStatusInput{UserID: 1, SessionID: s.SessionID, Action: "suspend", Notes: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if change.Status != model.SessionSuspended {
		t.Errorf("status = %s", change.Status)
	}

	if _, err := uc.ChangeStatus(ctx, &dto.ChangeStatusInput{UserID: 1, SessionID: s.SessionID, Action: "suspend"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("double suspend: err = %v, want not found", err)
	}

	if _, err := uc.ChangeStatus(ctx, &dto.ChangeStatusInput{UserID: 1, SessionID: s.SessionID, Action: "resume"}); err != nil {
		t.Fatal(err)
	}
	if got := *repo.sessions[s.SessionID].Notes; got != "SUSPENDED: lunch | RESUMED: Session resumed" {
		t.Errorf("notes = %q", got)
	}
}

func TestResumeWhileAnotherSessionActive(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	repo.sessions["SES-OLD"] = &model.Session{SessionID: "SES-OLD", UserID: 4, Status: model.SessionSuspended}
	current, err := uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: 4})
	if err != nil {
		t.Fatal(err)
	}

	_, err = uc.ChangeStatus(ctx, &dto.ChangeStatusInput{UserID: 1, SessionID: "SES-OLD", Action: "resume"})
	var conflict *apperror.ActiveSessionError
	if !errors.As(err, &conflict) || conflict.SessionID != current.SessionID {
		t.Fatalf("err = %v, want conflict naming %s", err, current.SessionID)
	}
}

func TestChangeStatusRejectsUnknownAction(t *testing.T) {
	uc := newUseCase(newFakeRepo(), nil)
	_, err := uc.ChangeStatus(context.Background(), &dto.ChangeStatusInput{SessionID: "SES-1", Action: "close"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	uc := newUseCase(newFakeRepo(), nil)
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, _, err := uc.ListSessions(context.Background(), &dto.SessionFilters{StartDate: &start, EndDate: &end})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}
