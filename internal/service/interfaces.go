package service

import (
	"context"
	"time"

	"teamTracker/internal/models/request"
	"teamTracker/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetInProgressDueBefore(ctx context.Context, deadline time.Time) ([]*task.Task, error)
	GetByMember(ctx context.Context, memberID uuid.UUID) ([]*task.Task, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
}

type RequestRepository interface {
	Create(ctx context.Context, r *request.Request) error
	Update(ctx context.Context, r *request.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error)
	GetByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

// TxManager группирует несколько обращений к хранилищам
// в один атомарный unit of work
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
