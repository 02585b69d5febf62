package transaction

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/transaction/dto"
)

type Repository interface {
	Create(ctx context.Context, t *model.Transaction) error
	CreateItem(ctx context.Context, item *model.TransactionItem) error
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)
	FindItems(ctx context.Context, transactionID string) ([]model.TransactionItem, error)
	FindAll(ctx context.Context, filters *dto.TransactionFilters) ([]model.TransactionListItem, int, error)
}
