package service

import (
	"context"
	"time"

	"github.com/aam9063/dogwalk/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes with the same conditional-update
// semantics. Slots and reservations are mutated through these two stores
// only.

type SlotStore interface {
	InsertMissing(ctx context.Context, walkerID int64, starts []time.Time) ([]*model.Slot, error)
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	ListByWalker(ctx context.Context, walkerID int64, from time.Time, to *time.Time) ([]*model.Slot, error)
	SetState(ctx context.Context, slotID int64, from, to model.SlotState) (bool, error)
	Delete(ctx context.Context, slotID int64) (bool, error)
}

type ReservationStore interface {
	CreateWithClaim(ctx context.Context, res *model.Reservation) error
	TransitionState(ctx context.Context, id int64, from, to model.ReservationState) (bool, error)
	CancelAndRelease(ctx context.Context, id, slotID int64, from model.ReservationState) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	ActiveExistsForSlot(ctx context.Context, slotID int64) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Reservation, error)
	ListByWalker(ctx context.Context, walkerID int64) ([]*model.Reservation, error)
	ListByUserAndStates(ctx context.Context, userID int64, states []model.ReservationState) ([]*model.Reservation, error)
}

type PriceStore interface {
	Get(ctx context.Context, walkerID, serviceID int64) (*model.WalkerPrice, error)
	Upsert(ctx context.Context, price *model.WalkerPrice) error
	ListByWalker(ctx context.Context, walkerID int64) ([]*model.WalkerPrice, error)
}

// Collaborator lookups. Identity, dog ownership and the service catalog live
// outside the booking core; only existence and ownership are consulted here.

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type DogRegistry interface {
	GetByID(ctx context.Context, id int64) (*model.Dog, error)
}

type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*model.WalkService, error)
}
