package dailysales

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
	"github.com/gkicks/gkicks-pos-service/internal/model"
)

type UseCase interface {
	RecordSale(ctx context.Context, input *dto.RecordSaleInput) error
	ListDailySales(ctx context.Context, filters *dto.DailySalesFilters) ([]model.DailySales, error)
}
