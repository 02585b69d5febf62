package dailysales

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
	"github.com/gkicks/gkicks-pos-service/internal/model"
)

type Repository interface {
	// Increment adds the row's counters to the existing (sale_date, admin_user_id) row
	Increment(ctx context.Context, delta *model.DailySales) error
	FindAll(ctx context.Context, filters *dto.DailySalesFilters) ([]model.DailySales, error)
}
