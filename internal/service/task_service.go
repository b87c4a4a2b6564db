package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamTracker/internal/logger"
	"teamTracker/internal/models/request"
	"teamTracker/internal/models/task"
	repo "teamTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService - движок жизненного цикла задач. Все записи в хранилище
// задач проходят только через него.
type TaskService struct {
	tasks    TaskRepository
	requests RequestRepository
	tx       TxManager
}

func NewTaskService(tasks TaskRepository, requests RequestRepository, tx TxManager) *TaskService {
	return &TaskService{
		tasks:    tasks,
		requests: requests,
		tx:       tx,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.tasks.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateNewTask(ctx context.Context, title, description string, dueDate time.Time, memberID *uuid.UUID, groupID uuid.UUID) (*task.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if description == "" {
		return nil, NewValidationError("description", "описание не может быть пустым")
	}
	if dueDate.IsZero() {
		return nil, NewValidationError("due_date", "дедлайн должен быть задан")
	}

	t := &task.Task{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		Status:      task.StatusInProgress,
		DueDate:     dueDate,
		MemberID:    memberID,
		GroupID:     groupID,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// ChangeStatus применяет пользовательский переход статуса. Таблица
// переходов определяет только побочные эффекты на счётчики: сам
// целевой статус записывается всегда, никакие комбинации не запрещены.
func (s *TaskService) ChangeStatus(ctx context.Context, id uuid.UUID, requested task.Status) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyTransition(t, requested, time.Now())
	t.Status = requested

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Статус задачи изменён",
		zap.String("task_id", t.UUID.String()),
		zap.String("status", string(requested)))
	return t, nil
}

// applyTransition - побочные эффекты перехода (from -> to).
// TimePassed и TimesRearranged только растут: это накопительные
// аудит-счётчики, а не живой таймер.
func applyTransition(t *task.Task, requested task.Status, now time.Time) {
	from := t.Status

	if from == task.StatusInProgress && requested == task.StatusCompleted {
		base := t.CreatedAt
		if t.TimesRearranged > 0 && t.UpdatedAt != nil {
			base = *t.UpdatedAt
		}
		t.TimePassed += now.Sub(base)
		return
	}

	if requested == task.StatusInProgress &&
		(from == task.StatusCompleted || from == task.StatusOnHold || from == task.StatusExpired) {
		t.TimesRearranged++
	}
}

// UpdateTaskFields обновляет непустые поля. Если передан новый дедлайн,
// статус перезаписывается напрямую: EXPIRED для прошедшего дедлайна,
// иначе IN_PROGRESS - без побочных эффектов таблицы переходов и
// независимо от прежнего статуса.
func (s *TaskService) UpdateTaskFields(ctx context.Context, id uuid.UUID, title, description string, dueDate time.Time) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		t.Title = title
	}
	if description != "" {
		t.Description = description
	}
	if !dueDate.IsZero() {
		t.DueDate = dueDate
		if dueDate.Before(time.Now()) {
			t.Status = task.StatusExpired
		} else {
			t.Status = task.StatusInProgress
		}
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена", zap.String("task_id", t.UUID.String()))
	return t, nil
}

// DeleteByMember удаляет все задачи участника. Используется только
// каскадом удаления участника; атомарность обеспечивает unit of work
// вызывающего.
func (s *TaskService) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	if err := s.tasks.DeleteByMember(ctx, memberID); err != nil {
		return fmt.Errorf("удаление задач участника: %w", err)
	}
	return nil
}

// ExpireOverdue - принудительный системный переход, отдельный от
// ChangeStatus: воркер помечает просроченные задачи EXPIRED без учёта
// счётчиков и создаёт по одной заявке EXPIRED на задачу. Весь тик -
// один unit of work: либо всё, либо ничего.
func (s *TaskService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	expired := 0

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		overdue, err := s.tasks.GetInProgressDueBefore(ctx, now)
		if err != nil {
			return fmt.Errorf("выборка просроченных задач: %w", err)
		}

		for _, t := range overdue {
			t.Status = task.StatusExpired

			r := &request.Request{
				UUID:        uuid.New(),
				Description: request.ExpiredDescription,
				Type:        request.TypeExpired,
				Status:      request.StatusPending,
				TaskID:      t.UUID,
			}
			if err := s.requests.Create(ctx, r); err != nil {
				return fmt.Errorf("создание заявки о просрочке: %w", err)
			}

			if err := s.tasks.Update(ctx, t); err != nil {
				return fmt.Errorf("сохранение просроченной задачи: %w", err)
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return expired, nil
}
