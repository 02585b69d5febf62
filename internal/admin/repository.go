package admin

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
)

type Repository interface {
	FindActiveByEmail(ctx context.Context, email string) (*model.AdminUser, error)
}
