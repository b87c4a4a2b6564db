package inmemory

import (
	"context"
	"sync"

	requestmem "teamTracker/internal/repository/request/inmemory"
	taskmem "teamTracker/internal/repository/task/inmemory"
)

// TxManager - in-memory аналог транзакции поверх двух хранилищ.
// Сериализует unit of work мьютексом и откатывает оба хранилища
// по снапшоту при ошибке.
type TxManager struct {
	mtx      sync.Mutex
	tasks    *taskmem.TaskStorage
	requests *requestmem.RequestStorage
}

func NewTxManager(tasks *taskmem.TaskStorage, requests *requestmem.RequestStorage) *TxManager {
	return &TxManager{
		tasks:    tasks,
		requests: requests,
	}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	taskSnapshot := m.tasks.Snapshot()
	requestSnapshot := m.requests.Snapshot()

	if err := fn(ctx); err != nil {
		m.tasks.Restore(taskSnapshot)
		m.requests.Restore(requestSnapshot)
		return err
	}

	return nil
}
