package worker

import (
	"context"
	"time"

	"teamTracker/internal/logger"

	"go.uber.org/zap"
)

type TaskExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// ExpireWorker - фоновый планировщик просрочки. Тики выполняются
// синхронно в цикле, поэтому перекрытие тиков невозможно: пока тик
// идёт, таймер просто копит следующий сигнал.
type ExpireWorker struct {
	expirer  TaskExpirer
	interval time.Duration
}

func NewExpireWorker(expirer TaskExpirer, interval *time.Duration) *ExpireWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 30 * time.Second
	} else {
		intervalToSet = *interval
	}

	return &ExpireWorker{
		expirer:  expirer,
		interval: intervalToSet,
	}
}

func (w *ExpireWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Tick - одна итерация: скан и просрочка в одном unit of work.
// Ошибка тика только логируется: следующий тик сам перечитает
// непросроченные задачи и повторит попытку.
func (w *ExpireWorker) Tick(ctx context.Context) {
	start := time.Now()
	logger.Info("Worker: Фоновая проверка задач на просроченность", zap.Time("started_at", start))

	expired, err := w.expirer.ExpireOverdue(ctx, start)
	if err != nil {
		logger.Warn("Worker: Тик отменён, изменения откатаны", zap.Error(err))
		return
	}

	logger.Info("Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("expired", expired),
	)
}
