package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

const defaultCurrency = "EUR"

// PricingService reads and maintains walker price lists. Reservations copy
// prices out of here at booking time; nothing here ever touches a reservation.
type PricingService struct {
	prices   PriceStore
	users    UserDirectory
	services ServiceCatalog
	logger   *zap.Logger
}

func NewPricingService(prices PriceStore, users UserDirectory, services ServiceCatalog, logger *zap.Logger) *PricingService {
	return &PricingService{
		prices:   prices,
		users:    users,
		services: services,
		logger:   logger,
	}
}

// GetPrice returns the walker's configured price for a service.
func (s *PricingService) GetPrice(ctx context.Context, walkerID, serviceID int64) (*model.WalkerPrice, error) {
	price, err := s.prices.Get(ctx, walkerID, serviceID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, apperr.NotFound("walker %d has no price for service %d", walkerID, serviceID)
	}

	return price, nil
}

// SetPrice creates or replaces the walker's price for a service. An empty
// currency defaults to EUR.
func (s *PricingService) SetPrice(ctx context.Context, principal model.Principal, walkerID, serviceID, amountCents int64, currency string) (*model.WalkerPrice, error) {
	if !principal.IsAdmin() && principal.UserID != walkerID {
		return nil, apperr.Authorization("only the walker or an admin may set prices")
	}
	if amountCents <= 0 {
		return nil, apperr.Validation("price must be positive, got %d", amountCents)
	}
	if currency == "" {
		currency = defaultCurrency
	}

	walker, err := s.users.GetByID(ctx, walkerID)
	if err != nil {
		return nil, err
	}
	if walker == nil {
		return nil, apperr.NotFound("walker %d not found", walkerID)
	}
	if walker.Role != model.RoleWalker {
		return nil, apperr.Validation("user %d is not a walker", walkerID)
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperr.NotFound("service %d not found", serviceID)
	}

	price := &model.WalkerPrice{
		WalkerID:  walkerID,
		ServiceID: serviceID,
		Price: model.Price{
			AmountCents: amountCents,
			Currency:    currency,
		},
	}

	if err := s.prices.Upsert(ctx, price); err != nil {
		return nil, err
	}

	s.logger.Info("Walker price set",
		zap.Int64("walker_id", walkerID),
		zap.Int64("service_id", serviceID),
		zap.String("price", price.Price.String()),
	)

	return price, nil
}

// ListPrices returns a walker's whole price list.
func (s *PricingService) ListPrices(ctx context.Context, walkerID int64) ([]*model.WalkerPrice, error) {
	return s.prices.ListByWalker(ctx, walkerID)
}
