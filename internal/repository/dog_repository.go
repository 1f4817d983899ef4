package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aam9063/dogwalk/internal/model"
	"github.com/aam9063/dogwalk/internal/repository/base"
)

type DogRepository struct {
	db base.Querier
}

func NewDogRepository(pool *pgxpool.Pool) *DogRepository {
	return &DogRepository{db: pool}
}

func (r *DogRepository) Create(ctx context.Context, dog *model.Dog) error {
	query := `
		INSERT INTO dogs (owner_id, name, breed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, dog.OwnerID, dog.Name, dog.Breed).
		Scan(&dog.ID, &dog.CreatedAt)
	if err != nil {
		return fmt.Errorf("create dog: %w", err)
	}

	return nil
}

// GetByID returns the dog or nil when it does not exist.
func (r *DogRepository) GetByID(ctx context.Context, id int64) (*model.Dog, error) {
	query := `
		SELECT id, owner_id, name, breed, created_at
		FROM dogs
		WHERE id = $1`

	var dog model.Dog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&dog.ID,
		&dog.OwnerID,
		&dog.Name,
		&dog.Breed,
		&dog.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dog by id: %w", err)
	}

	return &dog, nil
}

// ListByOwner returns all dogs registered to an owner.
func (r *DogRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Dog, error) {
	query := `
		SELECT id, owner_id, name, breed, created_at
		FROM dogs
		WHERE owner_id = $1
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dogs by owner: %w", err)
	}
	defer rows.Close()

	var dogs []*model.Dog
	for rows.Next() {
		var dog model.Dog
		err := rows.Scan(&dog.ID, &dog.OwnerID, &dog.Name, &dog.Breed, &dog.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan dog: %w", err)
		}
		dogs = append(dogs, &dog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dogs by owner: %w", err)
	}

	return dogs, nil
}
