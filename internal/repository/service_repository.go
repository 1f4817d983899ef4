package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aam9063/dogwalk/internal/model"
	"github.com/aam9063/dogwalk/internal/repository/base"
)

type ServiceRepository struct {
	db base.Querier
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{db: pool}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *model.WalkService) error {
	query := `
		INSERT INTO walk_services (name, description, duration_minutes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, svc.Name, svc.Description, svc.DurationMinutes).
		Scan(&svc.ID, &svc.CreatedAt)
	if err != nil {
		return fmt.Errorf("create walk service: %w", err)
	}

	return nil
}

// GetByID returns the service or nil when it does not exist.
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.WalkService, error) {
	query := `
		SELECT id, name, description, duration_minutes, created_at
		FROM walk_services
		WHERE id = $1`

	var svc model.WalkService
	err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get walk service by id: %w", err)
	}

	return &svc, nil
}

// List returns the whole catalog.
func (r *ServiceRepository) List(ctx context.Context) ([]*model.WalkService, error) {
	query := `
		SELECT id, name, description, duration_minutes, created_at
		FROM walk_services
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list walk services: %w", err)
	}
	defer rows.Close()

	var services []*model.WalkService
	for rows.Next() {
		var svc model.WalkService
		err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.DurationMinutes, &svc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan walk service: %w", err)
		}
		services = append(services, &svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list walk services: %w", err)
	}

	return services, nil
}
