package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
	"github.com/aam9063/dogwalk/internal/repository/base"
)

// ReservationRepository owns all writes to the reservations table and the
// composite writes that must keep slot and reservation state consistent.
type ReservationRepository struct {
	pool  *pgxpool.Pool
	db    base.Querier
	slots *SlotRepository
}

func NewReservationRepository(pool *pgxpool.Pool, slots *SlotRepository) *ReservationRepository {
	return &ReservationRepository{pool: pool, db: pool, slots: slots}
}

const reservationColumns = `id, reference, customer_id, walker_id, service_id, dog_id, slot_id,
	price_amount_cents, price_currency, state, created_at, updated_at`

func scanReservation(row interface{ Scan(dest ...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID,
		&res.Reference,
		&res.CustomerID,
		&res.WalkerID,
		&res.ServiceID,
		&res.DogID,
		&res.SlotID,
		&res.Price.AmountCents,
		&res.Price.Currency,
		&res.State,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateWithClaim claims the slot and inserts the reservation in a single
// transaction. The claim is a conditional update; when it affects no row the
// slot was taken (or gone) and the whole operation rolls back with a
// Conflict error. Nothing is ever written on failure.
func (r *ReservationRepository) CreateWithClaim(ctx context.Context, res *model.Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Infrastructure("begin booking transaction", err)
	}
	defer tx.Rollback(ctx)

	claimed, err := r.slots.WithTx(tx).Claim(ctx, res.SlotID)
	if err != nil {
		return apperr.Infrastructure("claim slot", err)
	}
	if !claimed {
		return apperr.Conflict("slot no longer available")
	}

	res.Reference = uuid.New()

	query := `
		INSERT INTO reservations (reference, customer_id, walker_id, service_id, dog_id, slot_id,
			price_amount_cents, price_currency, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(
		ctx, query,
		res.Reference,
		res.CustomerID,
		res.WalkerID,
		res.ServiceID,
		res.DogID,
		res.SlotID,
		res.Price.AmountCents,
		res.Price.Currency,
		res.State,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return apperr.Infrastructure("create reservation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Infrastructure("commit booking transaction", err)
	}

	return nil
}

// TransitionState applies state conditional on the expected current state.
// Returns false when the reservation exists but the condition did not hold,
// which means a concurrent writer got there first or the transition is
// illegal for the current state.
func (r *ReservationRepository) TransitionState(ctx context.Context, id int64, from, to model.ReservationState) (bool, error) {
	query := `
		UPDATE reservations
		SET state = $1, updated_at = now()
		WHERE id = $2 AND state = $3`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("transition reservation state: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// CancelAndRelease cancels the reservation and reopens its slot in one
// transaction. The cancel is conditional on the expected pre-state so a
// concurrent confirm/complete/cancel cannot be overwritten.
func (r *ReservationRepository) CancelAndRelease(ctx context.Context, id, slotID int64, from model.ReservationState) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, apperr.Infrastructure("begin cancel transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE reservations
		SET state = 'cancelled', updated_at = now()
		WHERE id = $1 AND state = $2`

	tag, err := tx.Exec(ctx, query, id, from)
	if err != nil {
		return false, apperr.Infrastructure("cancel reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	released, err := r.slots.WithTx(tx).Release(ctx, slotID)
	if err != nil {
		return false, apperr.Infrastructure("release slot", err)
	}
	if !released {
		// Slot and reservation state drifted apart; refuse to make it worse.
		return false, apperr.Conflict("slot for reservation %d is not reserved", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, apperr.Infrastructure("commit cancel transaction", err)
	}

	return true, nil
}

// GetByID returns the reservation or nil when it does not exist.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return res, nil
}

// ActiveExistsForSlot reports whether a non-cancelled reservation references
// the slot. Scoped to the one slot on purpose.
func (r *ReservationRepository) ActiveExistsForSlot(ctx context.Context, slotID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE slot_id = $1 AND state != 'cancelled'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, slotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active reservation for slot: %w", err)
	}

	return exists, nil
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	return reservations, nil
}

// ListByCustomer returns all of a customer's reservations, newest first.
func (r *ReservationRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, customerID)
}

// ListByWalker returns all reservations against a walker's slots, newest first.
func (r *ReservationRepository) ListByWalker(ctx context.Context, walkerID int64) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE walker_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, walkerID)
}

// ListByUserAndStates returns reservations the user participates in (as
// customer or walker) restricted to the given states.
func (r *ReservationRepository) ListByUserAndStates(ctx context.Context, userID int64, states []model.ReservationState) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE (customer_id = $1 OR walker_id = $1)
		  AND state = ANY($2)
		ORDER BY created_at DESC`

	vals := make([]string, len(states))
	for i, s := range states {
		vals[i] = string(s)
	}

	return r.list(ctx, query, userID, vals)
}
