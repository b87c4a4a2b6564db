package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamTracker/internal/logger"
	"teamTracker/internal/models/request"
	repo "teamTracker/internal/repository"
	pgdb "teamTracker/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Storage struct {
	db *pgdb.DB
}

func New(db *pgdb.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Create(ctx context.Context, requestToCreate *request.Request) error {
	start := time.Now()

	query := `INSERT INTO requests
				(uuid, description, type, status, task_uuid, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := s.db.Querier(ctx).QueryRow(ctx, query,
		requestToCreate.UUID,
		requestToCreate.Description,
		requestToCreate.Type,
		requestToCreate.Status,
		requestToCreate.TaskID,
		time.Now(),
	).Scan(&requestToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить заявку", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление заявки: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, requestToUpdate *request.Request) error {
	start := time.Now()

	query := `UPDATE requests
			SET status = $1,
				updated_at = NOW()
			WHERE uuid = $2
			RETURNING updated_at`

	err := s.db.Querier(ctx).QueryRow(ctx, query,
		requestToUpdate.Status,
		requestToUpdate.UUID,
	).Scan(&requestToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить заявку", err)
		return fmt.Errorf("обновление заявки: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				description,
				type,
				status,
				task_uuid,
				created_at,
				updated_at
				FROM requests
				WHERE uuid = $1`

	r := &request.Request{}
	err := s.db.Querier(ctx).QueryRow(ctx, query, id).Scan(
		&r.UUID,
		&r.Description,
		&r.Type,
		&r.Status,
		&r.TaskID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить заявку", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение заявки: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return r, nil
}

func (s *Storage) GetByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				description,
				type,
				status,
				task_uuid,
				created_at,
				updated_at
				FROM requests
				WHERE task_uuid = $1`

	rows, err := s.db.Querier(ctx).Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить заявки", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение заявок: %w", err)
	}
	defer rows.Close()

	requests := []*request.Request{}
	for rows.Next() {
		r := &request.Request{}

		err := rows.Scan(
			&r.UUID,
			&r.Description,
			&r.Type,
			&r.Status,
			&r.TaskID,
			&r.CreatedAt,
			&r.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования заявки", zap.Error(err))
			continue
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return requests, nil
}

// DeleteByTask убирает все заявки задачи, чтобы не осталось сирот
func (s *Storage) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM requests WHERE task_uuid = $1`

	_, err := s.db.Querier(ctx).Exec(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Удаление заявок задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление заявок задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}
