package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

// ReservationService drives the reservation lifecycle. All availability
// decisions happen inside the store's conditional writes; this layer owns
// validation, authorization, price capture and the state machine guards.
type ReservationService struct {
	reservations ReservationStore
	slots        SlotStore
	pricing      *PricingService
	users        UserDirectory
	dogs         DogRegistry
	services     ServiceCatalog
	logger       *zap.Logger
}

func NewReservationService(
	reservations ReservationStore,
	slots SlotStore,
	pricing *PricingService,
	users UserDirectory,
	dogs DogRegistry,
	services ServiceCatalog,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		slots:        slots,
		pricing:      pricing,
		users:        users,
		dogs:         dogs,
		services:     services,
		logger:       logger,
	}
}

// Book creates a pending reservation against an available slot. The slot
// claim and the reservation insert run as one transaction in the store; when
// two calls race for the same slot exactly one commits and the other gets a
// Conflict error without writing anything. Booking is a single attempt,
// never a retry loop.
func (s *ReservationService) Book(ctx context.Context, principal model.Principal, customerID, walkerID, serviceID, dogID, slotID int64) (*model.Reservation, error) {
	if !principal.IsAdmin() && principal.UserID != customerID {
		return nil, apperr.Authorization("only the customer or an admin may book")
	}

	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperr.NotFound("customer %d not found", customerID)
	}
	if customer.Role != model.RoleOwner {
		return nil, apperr.Validation("user %d is not a dog owner", customerID)
	}

	dog, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog == nil {
		return nil, apperr.NotFound("dog %d not found", dogID)
	}
	if dog.OwnerID != customerID {
		return nil, apperr.Authorization("dog %d does not belong to customer %d", dogID, customerID)
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperr.NotFound("service %d not found", serviceID)
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperr.NotFound("slot %d not found", slotID)
	}
	if slot.WalkerID != walkerID {
		return nil, apperr.Validation("slot %d does not belong to walker %d", slotID, walkerID)
	}
	if slot.StartTime.Before(time.Now()) {
		return nil, apperr.Validation("cannot book a slot in the past")
	}

	// Price is copied into the reservation; later price list changes never
	// touch it.
	price, err := s.pricing.GetPrice(ctx, walkerID, serviceID)
	if err != nil {
		return nil, err
	}

	res := &model.Reservation{
		CustomerID: customerID,
		WalkerID:   walkerID,
		ServiceID:  serviceID,
		DogID:      dogID,
		SlotID:     slotID,
		Price:      price.Price,
		State:      model.ReservationStatePending,
	}

	// The read above shaped the error kinds; the conditional claim inside
	// CreateWithClaim is the only availability guard.
	if err := s.reservations.CreateWithClaim(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("Reservation booked",
		zap.Int64("reservation_id", res.ID),
		zap.String("reference", res.Reference.String()),
		zap.Int64("customer_id", customerID),
		zap.Int64("walker_id", walkerID),
		zap.Int64("slot_id", slotID),
		zap.String("price", res.Price.String()),
	)

	return res, nil
}

// Confirm moves a pending reservation to confirmed. Walker or admin only.
func (s *ReservationService) Confirm(ctx context.Context, principal model.Principal, reservationID int64) (*model.Reservation, error) {
	return s.transition(ctx, principal, reservationID, model.ReservationStateConfirmed)
}

// Complete moves a confirmed reservation to completed. Walker or admin only.
func (s *ReservationService) Complete(ctx context.Context, principal model.Principal, reservationID int64) (*model.Reservation, error) {
	return s.transition(ctx, principal, reservationID, model.ReservationStateCompleted)
}

func (s *ReservationService) transition(ctx context.Context, principal model.Principal, reservationID int64, target model.ReservationState) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound("reservation %d not found", reservationID)
	}

	if !principal.IsAdmin() && principal.UserID != res.WalkerID {
		return nil, apperr.Authorization("only the walker or an admin may %s a reservation", verbFor(target))
	}
	if !res.State.CanTransitionTo(target) {
		return nil, apperr.StateTransition("cannot %s a reservation in state %s", verbFor(target), res.State)
	}

	// Conditional on the state just read; a concurrent writer that got in
	// between makes the update a no-op and this attempt loses.
	ok, err := s.reservations.TransitionState(ctx, reservationID, res.State, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.StateTransition("reservation %d changed concurrently", reservationID)
	}

	res.State = target

	s.logger.Info("Reservation state changed",
		zap.Int64("reservation_id", reservationID),
		zap.String("state", string(target)),
	)

	return res, nil
}

func verbFor(target model.ReservationState) string {
	switch target {
	case model.ReservationStateConfirmed:
		return "confirm"
	case model.ReservationStateCompleted:
		return "complete"
	case model.ReservationStateCancelled:
		return "cancel"
	default:
		return "transition"
	}
}

// Cancel cancels a pending or confirmed reservation and reopens its slot.
// Customer, walker (each for their own reservations) or admin may call.
func (s *ReservationService) Cancel(ctx context.Context, principal model.Principal, reservationID int64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound("reservation %d not found", reservationID)
	}

	if !principal.IsAdmin() && principal.UserID != res.CustomerID && principal.UserID != res.WalkerID {
		return nil, apperr.Authorization("not a participant of reservation %d", reservationID)
	}
	if !res.State.CanTransitionTo(model.ReservationStateCancelled) {
		return nil, apperr.StateTransition("cannot cancel a reservation in state %s", res.State)
	}

	ok, err := s.reservations.CancelAndRelease(ctx, reservationID, res.SlotID, res.State)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.StateTransition("reservation %d changed concurrently", reservationID)
	}

	res.State = model.ReservationStateCancelled

	s.logger.Info("Reservation cancelled",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("slot_id", res.SlotID),
		zap.Int64("by_user_id", principal.UserID),
	)

	return res, nil
}

// ListForCustomer returns all of a customer's reservations. Owner or admin.
func (s *ReservationService) ListForCustomer(ctx context.Context, principal model.Principal, customerID int64) ([]*model.Reservation, error) {
	if !principal.IsAdmin() && principal.UserID != customerID {
		return nil, apperr.Authorization("may only list own reservations")
	}
	return s.reservations.ListByCustomer(ctx, customerID)
}

// ListForWalker returns all reservations against a walker's slots. Owner or
// admin.
func (s *ReservationService) ListForWalker(ctx context.Context, principal model.Principal, walkerID int64) ([]*model.Reservation, error) {
	if !principal.IsAdmin() && principal.UserID != walkerID {
		return nil, apperr.Authorization("may only list own reservations")
	}
	return s.reservations.ListByWalker(ctx, walkerID)
}

// ListActive returns the caller's pending and confirmed reservations.
func (s *ReservationService) ListActive(ctx context.Context, principal model.Principal) ([]*model.Reservation, error) {
	return s.reservations.ListByUserAndStates(ctx, principal.UserID, []model.ReservationState{
		model.ReservationStatePending,
		model.ReservationStateConfirmed,
	})
}

// ListHistory returns the caller's completed and cancelled reservations.
func (s *ReservationService) ListHistory(ctx context.Context, principal model.Principal) ([]*model.Reservation, error) {
	return s.reservations.ListByUserAndStates(ctx, principal.UserID, []model.ReservationState{
		model.ReservationStateCompleted,
		model.ReservationStateCancelled,
	})
}
