package service

import (
	"context"
	"fmt"

	"teamTracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CascadeService - узкая точка входа для внешнего контекста управления
// участниками: единственная операция - удалить всё, чем владел
// удалённый участник.
type CascadeService struct {
	tasks    TaskRepository
	requests RequestRepository
	tx       TxManager
}

func NewCascadeService(tasks TaskRepository, requests RequestRepository, tx TxManager) *CascadeService {
	return &CascadeService{
		tasks:    tasks,
		requests: requests,
		tx:       tx,
	}
}

// RemoveMember удаляет задачи участника и их заявки одной логической
// операцией. Сначала заявки, потом задачи - чтобы не осталось сирот.
func (s *CascadeService) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owned, err := s.tasks.GetByMember(ctx, memberID)
		if err != nil {
			return fmt.Errorf("получение задач участника: %w", err)
		}

		for _, t := range owned {
			if err := s.requests.DeleteByTask(ctx, t.UUID); err != nil {
				return fmt.Errorf("удаление заявок задачи: %w", err)
			}
		}

		if err := s.tasks.DeleteByMember(ctx, memberID); err != nil {
			return fmt.Errorf("удаление задач участника: %w", err)
		}

		logger.Info("Service: Каскадное удаление участника",
			zap.String("member_id", memberID.String()),
			zap.Int("tasks_deleted", len(owned)))
		return nil
	})
	if err != nil {
		return fmt.Errorf("каскад удаления участника: %w", err)
	}
	return nil
}
