package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

// AvailabilityService generates, lists and toggles a walker's slots.
type AvailabilityService struct {
	slots        SlotStore
	reservations ReservationStore
	logger       *zap.Logger
}

func NewAvailabilityService(slots SlotStore, reservations ReservationStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		slots:        slots,
		reservations: reservations,
		logger:       logger,
	}
}

// GenerateSlots materializes one slot per interval step in [rangeStart,
// rangeEnd). Re-generation over an overlapping range is idempotent: existing
// (walker, start) pairs are skipped by the store and only newly created slots
// are returned.
func (s *AvailabilityService) GenerateSlots(ctx context.Context, principal model.Principal, walkerID int64, rangeStart, rangeEnd time.Time, intervalMinutes int) ([]*model.Slot, error) {
	if !principal.IsAdmin() && principal.UserID != walkerID {
		return nil, apperr.Authorization("only the walker or an admin may generate slots")
	}
	if intervalMinutes <= 0 {
		return nil, apperr.Validation("interval must be positive, got %d", intervalMinutes)
	}
	if !rangeStart.Before(rangeEnd) {
		return nil, apperr.Validation("range start must be before range end")
	}
	if rangeStart.Before(time.Now()) {
		return nil, apperr.Validation("cannot generate slots in the past")
	}

	interval := time.Duration(intervalMinutes) * time.Minute
	var starts []time.Time
	for t := rangeStart; t.Before(rangeEnd); t = t.Add(interval) {
		starts = append(starts, t)
	}

	created, err := s.slots.InsertMissing(ctx, walkerID, starts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slots generated",
		zap.Int64("walker_id", walkerID),
		zap.Time("range_start", rangeStart),
		zap.Time("range_end", rangeEnd),
		zap.Int("requested", len(starts)),
		zap.Int("created", len(created)),
	)

	return created, nil
}

// ListSlots returns a walker's slots, optionally restricted to one calendar
// day. Slots already in the past are excluded unless includePast is set.
func (s *AvailabilityService) ListSlots(ctx context.Context, walkerID int64, day *time.Time, includePast bool) ([]*model.Slot, error) {
	var from time.Time
	var to *time.Time

	if day != nil {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24 * time.Hour)
		from = dayStart
		to = &dayEnd
	}

	if !includePast {
		if now := time.Now(); from.Before(now) {
			from = now
		}
	}

	return s.slots.ListByWalker(ctx, walkerID, from, to)
}

// SetSlotState toggles a slot between available and reserved, e.g. a walker
// blocking a slot off or reopening it. Reopening is refused while an active
// reservation still references the slot.
func (s *AvailabilityService) SetSlotState(ctx context.Context, principal model.Principal, slotID int64, requested model.SlotState) (*model.Slot, error) {
	if requested != model.SlotStateAvailable && requested != model.SlotStateReserved {
		return nil, apperr.Validation("unknown slot state %q", requested)
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperr.NotFound("slot %d not found", slotID)
	}

	if !principal.IsAdmin() && principal.UserID != slot.WalkerID {
		return nil, apperr.Authorization("only the slot's walker or an admin may change it")
	}
	if slot.StartTime.Before(time.Now()) {
		return nil, apperr.Validation("cannot change a slot in the past")
	}
	if requested == slot.State {
		return slot, nil
	}

	if requested == model.SlotStateAvailable {
		active, err := s.reservations.ActiveExistsForSlot(ctx, slotID)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, apperr.Conflict("slot %d has an active reservation", slotID)
		}
	}

	ok, err := s.slots.SetState(ctx, slotID, slot.State, requested)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("slot %d changed concurrently", slotID)
	}

	slot.State = requested

	s.logger.Info("Slot state changed",
		zap.Int64("slot_id", slotID),
		zap.Int64("walker_id", slot.WalkerID),
		zap.String("state", string(requested)),
	)

	return slot, nil
}

// DeleteSlot removes a future, available slot with no active reservation.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, principal model.Principal, slotID int64) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return apperr.NotFound("slot %d not found", slotID)
	}

	if !principal.IsAdmin() && principal.UserID != slot.WalkerID {
		return apperr.Authorization("only the slot's walker or an admin may delete it")
	}
	if slot.StartTime.Before(time.Now()) {
		return apperr.Validation("cannot delete a slot in the past")
	}

	// Scoped to this slot only: reservations against other slots are
	// irrelevant here.
	active, err := s.reservations.ActiveExistsForSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if active {
		return apperr.Conflict("slot %d has an active reservation", slotID)
	}

	ok, err := s.slots.Delete(ctx, slotID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict("slot %d is no longer available", slotID)
	}

	s.logger.Info("Slot deleted",
		zap.Int64("slot_id", slotID),
		zap.Int64("walker_id", slot.WalkerID),
	)

	return nil
}
