package session

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
)

type Repository interface {
	FindActiveByUser(ctx context.Context, userID int64) (*model.Session, error)
	FindCurrentByUser(ctx context.Context, userID int64) (*model.Session, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error

	// Active session plus the completed sales its cashier made since start_time
	FindActiveWithSales(ctx context.Context, sessionID string) (*model.SessionWithSales, error)
	Close(ctx context.Context, params *dto.CloseParams) (bool, error)

	// Moves sessionID from one status to another. false if it was not in from.
	TransitionStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, note string) (bool, error)

	FindAll(ctx context.Context, filters *dto.SessionFilters) ([]model.SessionListItem, int, error)
}
