package service

import (
	"context"
	"errors"
	"fmt"

	"teamTracker/internal/logger"
	"teamTracker/internal/models/request"
	repo "teamTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService - жизненный цикл заявок, создаваемых пользователями.
// Заявки воркера идут отдельным путём через TaskService.ExpireOverdue.
type RequestService struct {
	requests RequestRepository
	tasks    TaskRepository
}

func NewRequestService(requests RequestRepository, tasks TaskRepository) *RequestService {
	return &RequestService{
		requests: requests,
		tasks:    tasks,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, description string, reqType string, taskID uuid.UUID) (*request.Request, error) {
	parsedType, err := request.ParseType(reqType)
	if err != nil {
		return nil, NewValidationError("type", err.Error())
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача для заявки не найдена", zap.String("task_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	r := &request.Request{
		UUID:        uuid.New(),
		Description: description,
		Type:        parsedType,
		Status:      request.StatusPending,
		TaskID:      taskID,
	}

	if err := s.requests.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("создание заявки: %w", err)
	}

	logger.Info("Service: Заявка создана",
		zap.String("request_id", r.UUID.String()),
		zap.String("type", string(parsedType)))
	return r, nil
}

// UpdateRequestStatus перезаписывает статус без ограничений на переходы:
// допустим любой статус из любого, включая возврат в PENDING.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, id uuid.UUID, newStatus string) (*request.Request, error) {
	parsedStatus, err := request.ParseStatus(newStatus)
	if err != nil {
		return nil, NewValidationError("status", err.Error())
	}

	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Заявка не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("заявка", id.String())
		}
		return nil, fmt.Errorf("получение заявки: %w", err)
	}

	r.Status = parsedStatus
	if err := s.requests.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("обновление заявки: %w", err)
	}

	logger.Info("Service: Статус заявки изменён",
		zap.String("request_id", r.UUID.String()),
		zap.String("status", string(parsedStatus)))
	return r, nil
}

func (s *RequestService) GetRequestsByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error) {
	requests, err := s.requests.GetByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение заявок: %w", err)
	}
	return requests, nil
}

// DeleteAllForTask зачищает заявки удаляемой задачи, чтобы не оставлять
// осиротевшие аудит-записи
func (s *RequestService) DeleteAllForTask(ctx context.Context, taskID uuid.UUID) error {
	if err := s.requests.DeleteByTask(ctx, taskID); err != nil {
		return fmt.Errorf("удаление заявок задачи: %w", err)
	}
	return nil
}
