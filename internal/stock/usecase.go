package stock

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/stock/dto"
)

type UseCase interface {
	GetProductStock(ctx context.Context, productID int64) (*model.Product, error)
	Decrement(ctx context.Context, input *dto.DecrementInput) error
	ApplyOrder(ctx context.Context, input *dto.ApplyOrderInput) error
	InvalidateProducts(ctx context.Context, productIDs ...int64)
}
