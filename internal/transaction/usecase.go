package transaction

import (
	"context"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/transaction/dto"
)

type UseCase interface {
	CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (*model.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.TransactionListItem, int, error)
}
