package session

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/session/dto"
)

type UseCase interface {
	OpenSession(ctx context.Context, input *dto.OpenSessionInput) (*model.Session, error)
	CloseSession(ctx context.Context, input *dto.CloseSessionInput) (*dto.SessionSummary, error)
	ChangeStatus(ctx context.Context, input *dto.ChangeStatusInput) (*dto.StatusChange, error)
	GetCurrentSession(ctx context.Context, userID int64) (*model.Session, error)
	ListSessions(ctx context.Context, filters *dto.SessionFilters) ([]model.SessionListItem, int, error)
}
