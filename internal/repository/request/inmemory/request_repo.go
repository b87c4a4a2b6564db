package inmemory

import (
	"context"
	"sync"
	"time"

	"teamTracker/internal/models/request"
	repo "teamTracker/internal/repository"

	"github.com/google/uuid"
)

type RequestStorage struct {
	storage map[uuid.UUID]*request.Request
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewRequestStorage() *RequestStorage {
	return &RequestStorage{
		storage: make(map[uuid.UUID]*request.Request),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *RequestStorage) Create(ctx context.Context, requestToCreate *request.Request) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	requestToCreate.CreatedAt = time.Now()

	s.storage[requestToCreate.UUID] = requestToCreate
	s.ids = append(s.ids, requestToCreate.UUID)
	return nil
}

func (s *RequestStorage) Update(ctx context.Context, requestToUpdate *request.Request) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[requestToUpdate.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	requestToUpdate.UpdatedAt = &now
	s.storage[requestToUpdate.UUID] = requestToUpdate

	return nil
}

func (s *RequestStorage) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	requestToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return requestToGet, nil
}

func (s *RequestStorage) GetByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	requests := []*request.Request{}
	for _, id := range s.ids {
		r, ok := s.storage[id]
		if !ok {
			continue
		}
		if r.TaskID == taskID {
			requests = append(requests, r)
		}
	}

	return requests, nil
}

func (s *RequestStorage) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	kept := s.ids[:0]
	for _, id := range s.ids {
		r, ok := s.storage[id]
		if ok && r.TaskID == taskID {
			delete(s.storage, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept

	return nil
}

// Snapshot и Restore нужны in-memory unit of work для отката

func (s *RequestStorage) Snapshot() map[uuid.UUID]request.Request {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	snapshot := make(map[uuid.UUID]request.Request, len(s.storage))
	for id, r := range s.storage {
		snapshot[id] = *r
	}
	return snapshot
}

func (s *RequestStorage) Restore(snapshot map[uuid.UUID]request.Request) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[uuid.UUID]*request.Request, len(snapshot))
	s.ids = s.ids[:0]
	for id, r := range snapshot {
		restored := r
		s.storage[id] = &restored
		s.ids = append(s.ids, id)
	}
}
