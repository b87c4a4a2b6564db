package inmemory

import (
	"context"
	"sync"
	"time"

	"teamTracker/internal/logger"
	"teamTracker/internal/models/task"
	repo "teamTracker/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()

	s.storage[taskToCreate.UUID] = taskToCreate
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	s.storage[taskToUpdate.UUID] = taskToUpdate

	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet, nil
}

func (s *TaskStorage) GetInProgressDueBefore(ctx context.Context, deadline time.Time) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for _, id := range s.ids {
		t, ok := s.storage[id]
		if !ok {
			continue
		}
		if t.Status == task.StatusInProgress && t.DueDate.Before(deadline) {
			tasks = append(tasks, t)
		}
	}

	return tasks, nil
}

func (s *TaskStorage) GetByMember(ctx context.Context, memberID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for _, id := range s.ids {
		t, ok := s.storage[id]
		if !ok {
			continue
		}
		if t.MemberID != nil && *t.MemberID == memberID {
			tasks = append(tasks, t)
		}
	}

	return tasks, nil
}

func (s *TaskStorage) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	kept := s.ids[:0]
	for _, id := range s.ids {
		t, ok := s.storage[id]
		if ok && t.MemberID != nil && *t.MemberID == memberID {
			delete(s.storage, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept

	return nil
}

// Snapshot и Restore нужны in-memory unit of work для отката

func (s *TaskStorage) Snapshot() map[uuid.UUID]task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	snapshot := make(map[uuid.UUID]task.Task, len(s.storage))
	for id, t := range s.storage {
		snapshot[id] = *t
	}
	return snapshot
}

func (s *TaskStorage) Restore(snapshot map[uuid.UUID]task.Task) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[uuid.UUID]*task.Task, len(snapshot))
	s.ids = s.ids[:0]
	for id, t := range snapshot {
		restored := t
		s.storage[id] = &restored
		s.ids = append(s.ids, id)
	}
}
