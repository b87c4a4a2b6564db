package handlers

import (
	"context"
	"time"

	"teamTracker/internal/models/request"
	"teamTracker/internal/models/task"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateNewTask(ctx context.Context, title, description string, dueDate time.Time, memberID *uuid.UUID, groupID uuid.UUID) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, requested task.Status) (*task.Task, error)
	UpdateTaskFields(ctx context.Context, id uuid.UUID, title, description string, dueDate time.Time) (*task.Task, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, description string, reqType string, taskID uuid.UUID) (*request.Request, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, newStatus string) (*request.Request, error)
	GetRequestsByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error)
}

type CascadeService interface {
	RemoveMember(ctx context.Context, memberID uuid.UUID) error
}
