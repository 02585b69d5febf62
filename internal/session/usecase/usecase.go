package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/gkicks/gkicks-pos-service/pkg/idgen"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultTerminal = "POS-01"

	openLockTTL = 10 * time.Second
)

var varianceTolerance = decimal.NewFromFloat(0.01)

type sessionUseCase struct {
	repo   session.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
	now    func() time.Time
}

// NewSessionUseCase builds the session manager. cache may be nil, in which
// case concurrent opens rely on the database unique key alone.
func NewSessionUseCase(repo session.Repository, cache *cache.RedisClient, log logger.ZapLogger) session.UseCase {
	return &sessionUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

func openLockKey(userID int64) string {
	return fmt.Sprintf("lock:pos-session:%d", userID)
}

func (uc *sessionUseCase) OpenSession(ctx context.Context, input *dto.OpenSessionInput) (*model.Session, error) {
	if input.OpeningCash.IsNegative() {
		return nil, apperror.Validation("Opening cash cannot be negative")
	}

	if uc.cache != nil {
		key, token := openLockKey(input.UserID), uuid.NewString()
		acquired, err := uc.cache.AcquireLock(ctx, key, token, openLockTTL)
		if err != nil {
			uc.logger.Warn("session lock unavailable", zap.Int64("user_id", input.UserID), zap.Error(err))
		} else if !acquired {
			return nil, apperror.Validation("A session is already being opened for this cashier. Please try again.")
		} else {
			defer func() {
				if err := uc.cache.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
					uc.logger.Warn("failed to release session lock", zap.String("key", key), zap.Error(err))
				}
			}()
		}
	}

	existing, err := uc.repo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("check active session: %w", err)
	}
	if existing != nil {
		return nil, &apperror.ActiveSessionError{SessionID: existing.SessionID}
	}

	terminal := input.TerminalName
	if terminal == "" {
		terminal = DefaultTerminal
	}

	now := uc.now()
	s := &model.Session{
		SessionID:    idgen.Reference(idgen.PrefixSession, now),
		UserID:       input.UserID,
		TerminalName: terminal,
		Status:       model.SessionActive,
		OpeningCash:  input.OpeningCash,
		TotalSales:   decimal.Zero,
		StartTime:    now,
	}
	if input.Notes != "" {
		notes := input.Notes
		s.Notes = &notes
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		if errors.Is(err, apperror.ErrActiveSessionExists) {
			return nil, uc.conflict(ctx, input.UserID, err)
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	uc.logger.Info("pos session opened",
		zap.String("session_id", s.SessionID),
		zap.Int64("user_id", s.UserID),
		zap.String("terminal", s.TerminalName),
	)
	return s, nil
}

// conflict turns a unique-key violation into the same error the pre-check
// returns, naming the session that won.
func (uc *sessionUseCase) conflict(ctx context.Context, userID int64, cause error) error {
	existing, err := uc.repo.FindActiveByUser(ctx, userID)
	if err != nil || existing == nil {
		uc.logger.Warn("active session vanished after conflict", zap.Int64("user_id", userID), zap.Error(cause))
		return &apperror.ActiveSessionError{}
	}
	return &apperror.ActiveSessionError{SessionID: existing.SessionID}
}

func (uc *sessionUseCase) CloseSession(ctx context.Context, input *dto.CloseSessionInput) (*dto.SessionSummary, error) {
	if input.SessionID == "" {
		return nil, apperror.Validation("Session ID is required")
	}
	if input.ClosingCash.IsNegative() {
		return nil, apperror.Validation("Closing cash cannot be negative")
	}

	s, err := uc.repo.FindActiveWithSales(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, apperror.NotFound("Active session not found")
	}

	expected := s.OpeningCash.Add(s.ActualSales)
	variance := input.ClosingCash.Sub(expected)
	end := uc.now()

	params := &dto.CloseParams{
		SessionID:         s.SessionID,
		ClosingCash:       input.ClosingCash,
		TotalSales:        s.ActualSales,
		TotalTransactions: s.ActualTransactions,
		EndTime:           end,
	}
	if input.Notes != "" {
		params.Note = "Closing: " + input.Notes
	}

	ok, err := uc.repo.Close(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	if !ok {
		return nil, apperror.NotFound("Active session not found")
	}

	summary := &dto.SessionSummary{
		SessionID:         s.SessionID,
		TerminalName:      s.TerminalName,
		StartTime:         s.StartTime,
		EndTime:           end,
		OpeningCash:       s.OpeningCash,
		ClosingCash:       input.ClosingCash,
		TotalSales:        s.ActualSales,
		TotalTransactions: s.ActualTransactions,
		ExpectedCash:      expected,
		CashVariance:      variance,
		VarianceStatus:    VarianceStatus(variance),
	}

	uc.logger.Info("pos session closed",
		zap.String("session_id", s.SessionID),
		zap.Int64("user_id", s.UserID),
		zap.String("variance", variance.StringFixed(2)),
		zap.String("variance_status", summary.VarianceStatus),
	)
	return summary, nil
}

// VarianceStatus classifies a cash variance; anything under one centavo
// either way is balanced.
func VarianceStatus(variance decimal.Decimal) string {
	switch {
	case variance.Abs().LessThan(varianceTolerance):
		return dto.VarianceBalanced
	case variance.IsPositive():
		return dto.VarianceOver
	default:
		return dto.VarianceShort
	}
}

func (uc *sessionUseCase) ChangeStatus(ctx context.Context, input *dto.ChangeStatusInput) (*dto.StatusChange, error) {
	if input.SessionID == "" {
		return nil, apperror.Validation("Session ID is required")
	}

	var from, to model.SessionStatus
	var note string
	switch input.Action {
	case "suspend":
		from, to = model.SessionActive, model.SessionSuspended
		note = "SUSPENDED: " + withDefault(input.Notes, "Session suspended")
	case "resume":
		from, to = model.SessionSuspended, model.SessionActive
		note = "RESUMED: " + withDefault(input.Notes, "Session resumed")
	default:
		return nil, apperror.Validation("Invalid action. Use 'suspend' or 'resume'")
	}

	ok, err := uc.repo.TransitionStatus(ctx, input.SessionID, from, to, note)
	if err != nil {
		if errors.Is(err, apperror.ErrActiveSessionExists) {
			s, findErr := uc.repo.FindBySessionID(ctx, input.SessionID)
			if findErr != nil || s == nil {
				return nil, &apperror.ActiveSessionError{}
			}
			return nil, uc.conflict(ctx, s.UserID, err)
		}
		return nil, fmt.Errorf("%s session: %w", input.Action, err)
	}
	if !ok {
		return nil, apperror.NotFound("Session not found or not %s", from)
	}

	uc.logger.Info("pos session status changed",
		zap.String("session_id", input.SessionID),
		zap.String("status", string(to)),
		zap.Int64("changed_by", input.UserID),
	)
	return &dto.StatusChange{SessionID: input.SessionID, Status: to}, nil
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (uc *sessionUseCase) GetCurrentSession(ctx context.Context, userID int64) (*model.Session, error) {
	return uc.repo.FindCurrentByUser(ctx, userID)
}

func (uc *sessionUseCase) ListSessions(ctx context.Context, filters *dto.SessionFilters) ([]model.SessionListItem, int, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, 0, apperror.Validation("endDate must not be before startDate")
	}
	return uc.repo.FindAll(ctx, filters)
}
