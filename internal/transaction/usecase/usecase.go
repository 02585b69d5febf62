package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/dailysales"
	dailydto "github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/internal/stock"
	stockdto "github.com/gkicks/gkicks-pos-service/internal/stock/dto"
	"github.com/gkicks/gkicks-pos-service/internal/transaction"
	"github.com/gkicks/gkicks-pos-service/internal/transaction/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/broker"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/gkicks/gkicks-pos-service/pkg/idgen"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/search"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const IndexName = "pos_transactions"

const indexMapping = `{
	"mappings": {
		"properties": {
			"transaction_id": { "type": "keyword" },
			"receipt_number": { "type": "keyword" },
			"customer_name": { "type": "text" },
			"payment_reference": { "type": "keyword" },
			"payment_method": { "type": "keyword" },
			"status": { "type": "keyword" },
			"admin_user_id": { "type": "long" },
			"cashier_name": { "type": "text" },
			"total_amount": { "type": "double" },
			"transaction_date": { "type": "date" }
		}
	}
}`

// Indexer is the part of search.Client the writer needs.
type Indexer interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}

type transactionUseCase struct {
	repo      transaction.Repository
	tx        mysql.Transactor
	stock     stock.UseCase
	daily     dailysales.UseCase
	publisher broker.Publisher
	es        Indexer
	logger    logger.ZapLogger
	now       func() time.Time

	indexOnce sync.Once
	bg        sync.WaitGroup
}

// NewTransactionUseCase builds the sale writer. publisher and es are
// optional; pass nil to skip event publishing or search indexing.
func NewTransactionUseCase(
	repo transaction.Repository,
	tx mysql.Transactor,
	stockUC stock.UseCase,
	dailyUC dailysales.UseCase,
	publisher broker.Publisher,
	es Indexer,
	log logger.ZapLogger,
) transaction.UseCase {
	return &transactionUseCase{
		repo:      repo,
		tx:        tx,
		stock:     stockUC,
		daily:     dailyUC,
		publisher: publisher,
		es:        es,
		logger:    log,
		now:       time.Now,
	}
}

// validate checks the sale and upper-cases the payment method so the daily
// rollup can bucket it.
func validate(input *dto.CreateTransactionInput) error {
	input.PaymentMethod = strings.ToUpper(strings.TrimSpace(input.PaymentMethod))

	if len(input.Items) == 0 {
		return apperror.Validation("No items in transaction")
	}
	for _, it := range input.Items {
		if it.Quantity < 1 {
			return apperror.Validation("Invalid quantity for %s", it.Name)
		}
		if it.Price.IsNegative() {
			return apperror.Validation("Invalid price for %s", it.Name)
		}
	}
	if !input.Total.IsPositive() {
		return apperror.Validation("Invalid total amount")
	}
	if input.PaymentMethod == "" {
		return apperror.Validation("Payment method is required")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateTransaction records a sale. Header, line items, stock decrements and
// the daily rollup are written in one database transaction; if any item is
// short on stock nothing is kept.
func (uc *transactionUseCase) CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (*model.Transaction, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	t := &model.Transaction{
		TransactionID:    idgen.Reference(idgen.PrefixTransaction, now),
		ReceiptNumber:    idgen.Reference(idgen.PrefixReceipt, now),
		AdminUserID:      input.AdminUserID,
		CustomerName:     optional(input.CustomerName),
		DiscountAmount:   decimal.Zero,
		TaxAmount:        decimal.Zero,
		TotalAmount:      input.Total,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: optional(input.PaymentReference),
		CashReceived:     input.CashReceived,
		ChangeGiven:      input.ChangeGiven,
		Status:           model.TransactionCompleted,
		TransactionDate:  now,
	}
	for _, it := range input.Items {
		t.Items = append(t.Items, model.TransactionItem{
			TransactionID: t.TransactionID,
			ProductID:     it.ProductID,
			ProductName:   it.Name,
			Brand:         it.Brand,
			Size:          it.Size,
			Color:         it.Color,
			Quantity:      it.Quantity,
			UnitPrice:     it.Price,
			TotalPrice:    it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			ImageURL:      it.Image,
		})
	}
	t.Subtotal = t.ItemsSubtotal()

	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		for i := range t.Items {
			item := &t.Items[i]
			if err := uc.repo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("insert transaction item: %w", err)
			}
			err := uc.stock.Decrement(ctx, &stockdto.DecrementInput{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Color:       item.Color,
				Size:        item.Size,
				Quantity:    item.Quantity,
			})
			if err != nil {
				return err
			}
		}
		return uc.daily.RecordSale(ctx, &dailydto.RecordSaleInput{
			SaleDate:      now,
			AdminUserID:   t.AdminUserID,
			ItemsSold:     t.ItemsSold(),
			Amount:        t.TotalAmount,
			PaymentMethod: t.PaymentMethod,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("pos transaction completed",
		zap.String("transaction_id", t.TransactionID),
		zap.String("receipt_number", t.ReceiptNumber),
		zap.Int64("admin_user_id", t.AdminUserID),
		zap.String("total", t.TotalAmount.StringFixed(2)),
		zap.String("payment_method", t.PaymentMethod),
	)

	ids := make([]int64, 0, len(t.Items))
	for _, it := range t.Items {
		ids = append(ids, it.ProductID)
	}
	uc.stock.InvalidateProducts(ctx, ids...)

	uc.background(func(ctx context.Context) { uc.publishCompleted(ctx, t) })
	uc.background(func(ctx context.Context) { uc.syncToElastic(ctx, t, input.CashierName) })

	return t, nil
}

// background runs fn after the response is decided. The request context may
// be gone by then, so fn gets its own.
func (uc *transactionUseCase) background(fn func(ctx context.Context)) {
	uc.bg.Add(1)
	go func() {
		defer uc.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

func (uc *transactionUseCase) publishCompleted(ctx context.Context, t *model.Transaction) {
	if uc.publisher == nil {
		return
	}

	event := dto.TransactionEvent{
		Type:          dto.EventTransactionCompleted,
		TransactionID: t.TransactionID,
		ReceiptNumber: t.ReceiptNumber,
		AdminUserID:   t.AdminUserID,
		TotalAmount:   t.TotalAmount,
		PaymentMethod: t.PaymentMethod,
		OccurredAt:    t.TransactionDate,
	}
	for _, it := range t.Items {
		event.Items = append(event.Items, dto.EventItem{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to encode transaction event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, t.TransactionID, payload); err != nil {
		uc.logger.Error("failed to publish transaction event",
			zap.String("transaction_id", t.TransactionID),
			zap.Error(err),
		)
	}
}

func (uc *transactionUseCase) syncToElastic(ctx context.Context, t *model.Transaction, cashierName string) {
	if uc.es == nil {
		return
	}

	uc.indexOnce.Do(func() {
		if err := uc.es.CreateIndex(ctx, IndexName, indexMapping); err != nil {
			uc.logger.Warn("failed to create transaction index", zap.Error(err))
		}
	})

	doc := model.TransactionListItem{
		Transaction: *t,
		ItemCount:   len(t.Items),
		CashierName: optional(cashierName),
	}
	doc.Items = nil

	if err := uc.es.Index(ctx, IndexName, t.TransactionID, doc); err != nil {
		uc.logger.Error("failed to index transaction",
			zap.String("transaction_id", t.TransactionID),
			zap.Error(err),
		)
	}
}

func (uc *transactionUseCase) GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	t, err := uc.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NotFound("Transaction not found")
	}

	t.Items, err = uc.repo.FindItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *transactionUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.TransactionListItem, int, error) {
	if filters.Search != "" && uc.es != nil {
		items, total, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return items, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *transactionUseCase) searchElastic(ctx context.Context, filters *dto.TransactionFilters) ([]model.TransactionListItem, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.Search),
				"fields": []string{"receipt_number^3", "transaction_id^2", "customer_name", "payment_reference"},
			},
		},
	}
	if filters.Status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"status": filters.Status},
		})
	}
	if filters.Date != nil {
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{
				"transaction_date": map[string]interface{}{
					"gte": filters.Date.Format(time.RFC3339),
					"lt":  filters.Date.AddDate(0, 0, 1).Format(time.RFC3339),
				},
			},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"transaction_date": map[string]interface{}{"order": "desc"}},
		},
		"from": model.Offset(filters.Page, filters.PageSize),
		"size": filters.PageSize,
	}

	res, err := uc.es.Search(ctx, IndexName, q)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.TransactionListItem, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var it model.TransactionListItem
		if err := json.Unmarshal(hit.Source, &it); err != nil {
			uc.logger.Warn("skipping unreadable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		items = append(items, it)
	}
	return items, res.Hits.Total.Value, nil
}
