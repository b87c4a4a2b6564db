package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamTracker/internal/logger"
	"teamTracker/internal/models/task"
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

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, title, description, status, due_date, times_rearranged, time_passed, member_id, group_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING created_at`

	err := s.db.Querier(ctx).QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.DueDate,
		taskToCreate.TimesRearranged,
		taskToCreate.TimePassed.Nanoseconds(),
		taskToCreate.MemberID,
		taskToCreate.GroupID,
		time.Now(),
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				due_date = $4,
				times_rearranged = $5,
				time_passed = $6,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $7 AND version = $8
			RETURNING updated_at, version`

	err := s.db.Querier(ctx).QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.DueDate,
		taskToUpdate.TimesRearranged,
		taskToUpdate.TimePassed.Nanoseconds(),
		taskToUpdate.UUID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Конфликт версий при обновлении задачи",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				title,
				description,
				status,
				due_date,
				times_rearranged,
				time_passed,
				member_id,
				group_id,
				created_at,
				updated_at,
				version
				FROM tasks
				WHERE uuid = $1`

	t, err := scanTask(s.db.Querier(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// GetInProgressDueBefore - выборка воркера: незавершённые задачи с истёкшим дедлайном
func (s *Storage) GetInProgressDueBefore(ctx context.Context, deadline time.Time) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				title,
				description,
				status,
				due_date,
				times_rearranged,
				time_passed,
				member_id,
				group_id,
				created_at,
				updated_at,
				version
				FROM tasks
				WHERE status = $1 AND due_date < $2`

	rows, err := s.db.Querier(ctx).Query(ctx, query, task.StatusInProgress, deadline)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

func (s *Storage) GetByMember(ctx context.Context, memberID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				title,
				description,
				status,
				due_date,
				times_rearranged,
				time_passed,
				member_id,
				group_id,
				created_at,
				updated_at,
				version
				FROM tasks
				WHERE member_id = $1`

	rows, err := s.db.Querier(ctx).Query(ctx, query, memberID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

// DeleteByMember - каскадное удаление всех задач участника
func (s *Storage) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks WHERE member_id = $1`

	_, err := s.db.Querier(ctx).Exec(ctx, query, memberID)
	if err != nil {
		logger.Error("Repository: Удаление задач участника", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задач участника: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var timePassed int64

	err := row.Scan(
		&t.UUID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.DueDate,
		&t.TimesRearranged,
		&timePassed,
		&t.MemberID,
		&t.GroupID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.TimePassed = time.Duration(timePassed)
	return t, nil
}

func collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	tasks := []*task.Task{}

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}
