package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aam9063/dogwalk/internal/model"
	"github.com/aam9063/dogwalk/internal/repository/base"
)

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{db: pool}
}

// WithTx returns a copy of the repository bound to tx.
func (r *SlotRepository) WithTx(tx base.Querier) *SlotRepository {
	return &SlotRepository{db: tx}
}

const slotColumns = `id, walker_id, start_time, state, created_at`

func scanSlot(row interface{ Scan(dest ...any) error }) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.WalkerID,
		&slot.StartTime,
		&slot.State,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// InsertMissing inserts one slot per start time, skipping (walker, start_time)
// pairs that already exist. The unique constraint does the duplicate
// detection, so concurrent generation over overlapping ranges stays safe.
// Returns only the rows actually inserted, in start-time order.
func (r *SlotRepository) InsertMissing(ctx context.Context, walkerID int64, starts []time.Time) ([]*model.Slot, error) {
	query := `
		INSERT INTO slots (walker_id, start_time, state)
		SELECT $1, t, 'available'
		FROM unnest($2::timestamptz[]) AS t
		ON CONFLICT (walker_id, start_time) DO NOTHING
		RETURNING ` + slotColumns

	rows, err := r.db.Query(ctx, query, walkerID, starts)
	if err != nil {
		return nil, fmt.Errorf("insert slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insert slots: %w", err)
	}

	return slots, nil
}

// GetByID returns the slot or nil when it does not exist.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListByWalker returns a walker's slots starting at or after from, in
// start-time order. A nil to leaves the range open-ended.
func (r *SlotRepository) ListByWalker(ctx context.Context, walkerID int64, from time.Time, to *time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE walker_id = $1
		  AND start_time >= $2
		  AND ($3::timestamptz IS NULL OR start_time < $3)
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, walkerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots by walker: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots by walker: %w", err)
	}

	return slots, nil
}

// Claim transitions a slot from available to reserved. Returns false when the
// slot was not available (or does not exist); the WHERE clause is the only
// guard, there is no separate read.
func (r *SlotRepository) Claim(ctx context.Context, slotID int64) (bool, error) {
	query := `
		UPDATE slots
		SET state = 'reserved'
		WHERE id = $1 AND state = 'available'`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("claim slot: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Release transitions a slot from reserved back to available.
func (r *SlotRepository) Release(ctx context.Context, slotID int64) (bool, error) {
	query := `
		UPDATE slots
		SET state = 'available'
		WHERE id = $1 AND state = 'reserved'`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("release slot: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetState applies an explicit state conditional on the expected current
// state. Returns false when the condition did not hold.
func (r *SlotRepository) SetState(ctx context.Context, slotID int64, from, to model.SlotState) (bool, error) {
	query := `
		UPDATE slots
		SET state = $1
		WHERE id = $2 AND state = $3`

	tag, err := r.db.Exec(ctx, query, to, slotID, from)
	if err != nil {
		return false, fmt.Errorf("set slot state: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete removes a slot, but only while it is still available.
func (r *SlotRepository) Delete(ctx context.Context, slotID int64) (bool, error) {
	query := `DELETE FROM slots WHERE id = $1 AND state = 'available'`

	tag, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("delete slot: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
