package services

import (
	"context"
	"time"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
	"analytics-dashboard/pkg/utils"
)

type SalesService struct {
	salesRepo domain.SalesRepository
	eventPub  domain.EventPublisher
	log       logger.Logger
}

func NewSalesService(salesRepo domain.SalesRepository, eventPub domain.EventPublisher,
	log logger.Logger) *SalesService {
	return &SalesService{
		salesRepo: salesRepo,
		eventPub:  eventPub,
		log:       log,
	}
}

// CreateSale persists a sale and pushes a new-sale event onto the dashboard
// bus. A failed publish does not roll back the write; the record is the
// source of truth and the broadcast is best-effort.
func (s *SalesService) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	now := time.Now()
	sale.ID = utils.GenerateID("sale")
	sale.TotalAmount = float64(sale.Quantity) * sale.UnitPrice
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	if sale.PaymentStatus == "" {
		sale.PaymentStatus = domain.PaymentPending
	}
	sale.CreatedAt = now
	sale.UpdatedAt = now

	if err := s.salesRepo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	event, err := domain.NewSaleEvent(sale)
	if err == nil {
		err = s.eventPub.PublishDashboardEvent(ctx, event)
	}
	if err != nil {
		s.log.Error("Failed to publish new-sale event", "sale_id", sale.ID, "error", err)
	}

	s.log.Info("Sale recorded", "sale_id", sale.ID, "amount", sale.TotalAmount)
	return sale, nil
}

func (s *SalesService) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	return s.salesRepo.GetSale(ctx, saleID)
}

func (s *SalesService) ListSales(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.salesRepo.ListSales(ctx, limit, offset)
}

func (s *SalesService) DeleteSale(ctx context.Context, saleID string) error {
	if err := s.salesRepo.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	s.log.Info("Sale deleted", "sale_id", saleID)
	return nil
}
