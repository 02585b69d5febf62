package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/stock"
	"github.com/gkicks/gkicks-pos-service/internal/stock/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"go.uber.org/zap"
)

const stockCacheTTL = 30 * time.Second

type stockUseCase struct {
	repo   stock.Repository
	tx     mysql.Transactor
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, tx mysql.Transactor, cache *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		tx:     tx,
		cache:  cache,
		logger: log,
	}
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("pos:stock:product:%d", productID)
}

func (uc *stockUseCase) GetProductStock(ctx context.Context, productID int64) (*model.Product, error) {
	if uc.cache != nil {
		var cached model.Product
		err := uc.cache.GetJSON(ctx, cacheKey(productID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("stock cache read failed", zap.Int64("product_id", productID), zap.Error(err))
		}
	}

	p, err := uc.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("Product not found")
	}

	p.VariantRows, err = uc.repo.FindVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey(productID), p, stockCacheTTL); err != nil {
			uc.logger.Warn("stock cache write failed", zap.Int64("product_id", productID), zap.Error(err))
		}
	}
	return p, nil
}

// Decrement removes quantity from one variant. It joins the transaction in
// ctx when there is one, so a failing line rolls back the whole sale.
//
// product_variants is tried first and the product aggregate is rebuilt from
// it. Without a matching variant row the product row is decremented: its
// variants map entry when it has one, otherwise the flat stock_quantity.
func (uc *stockUseCase) Decrement(ctx context.Context, input *dto.DecrementInput) error {
	if input.Quantity <= 0 {
		return apperror.Validation("Invalid quantity for %s", input.ProductName)
	}

	ok, err := uc.repo.DecrementVariant(ctx, input.ProductID, input.Color, input.Size, input.Quantity)
	if err != nil {
		return fmt.Errorf("decrement variant stock: %w", err)
	}
	if ok {
		if err := uc.repo.SyncProductAggregate(ctx, input.ProductID); err != nil {
			return fmt.Errorf("sync product aggregate: %w", err)
		}
		return nil
	}

	uc.logger.Debug("variant stock unavailable, trying product stock",
		zap.Int64("product_id", input.ProductID),
		zap.String("size", input.Size),
		zap.String("color", input.Color),
	)

	ok, err = uc.repo.DecrementProduct(ctx, input.ProductID, input.Color, input.Size, input.Quantity)
	if err != nil {
		return fmt.Errorf("decrement product stock: %w", err)
	}
	if !ok {
		return apperror.InsufficientStock(input.ProductName, input.Size, input.Color)
	}
	return nil
}

func (uc *stockUseCase) ApplyOrder(ctx context.Context, input *dto.ApplyOrderInput) error {
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i := range input.Items {
			if err := uc.Decrement(ctx, &input.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, it.ProductID)
	}
	uc.InvalidateProducts(ctx, ids...)
	return nil
}

func (uc *stockUseCase) InvalidateProducts(ctx context.Context, productIDs ...int64) {
	if uc.cache == nil || len(productIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, cacheKey(id))
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.logger.Warn("stock cache invalidation failed", zap.Error(err))
	}
}
