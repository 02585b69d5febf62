package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/dailysales"
	"github.com/gkicks/gkicks-pos-service/internal/dailysales/dto"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/shopspring/decimal"
)

type dailySalesUseCase struct {
	repo   dailysales.Repository
	logger logger.ZapLogger
}

func NewDailySalesUseCase(repo dailysales.Repository, log logger.ZapLogger) dailysales.UseCase {
	return &dailySalesUseCase{
		repo:   repo,
		logger: log,
	}
}

// RecordSale adds one completed sale to the cashier's rollup for the day.
func (uc *dailySalesUseCase) RecordSale(ctx context.Context, input *dto.RecordSaleInput) error {
	return uc.repo.Increment(ctx, BuildDelta(input))
}

// BuildDelta converts a sale into the increments applied to pos_daily_sales.
// Discounts are not tracked on the POS yet, so net equals gross.
func BuildDelta(input *dto.RecordSaleInput) *model.DailySales {
	y, m, d := input.SaleDate.Date()
	delta := &model.DailySales{
		SaleDate:           time.Date(y, m, d, 0, 0, 0, 0, input.SaleDate.Location()),
		AdminUserID:        input.AdminUserID,
		TotalTransactions:  1,
		TotalItemsSold:     input.ItemsSold,
		GrossSales:         input.Amount,
		NetSales:           input.Amount,
		CashSales:          decimal.Zero,
		CardSales:          decimal.Zero,
		DigitalWalletSales: decimal.Zero,
		BankTransferSales:  decimal.Zero,
	}

	switch strings.ToUpper(strings.TrimSpace(input.PaymentMethod)) {
	case model.PaymentCash:
		delta.CashSales = input.Amount
	case model.PaymentCard:
		delta.CardSales = input.Amount
	case model.PaymentGCash, model.PaymentMaya:
		delta.DigitalWalletSales = input.Amount
	case model.PaymentBankTransfer:
		delta.BankTransferSales = input.Amount
	}
	return delta
}

func (uc *dailySalesUseCase) ListDailySales(ctx context.Context, filters *dto.DailySalesFilters) ([]model.DailySales, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, apperror.Validation("endDate must not be before startDate")
	}
	return uc.repo.FindAll(ctx, filters)
}
