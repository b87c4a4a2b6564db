package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"teamTracker/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier - общий интерфейс пула и транзакции, чтобы репозитории
// работали одинаково внутри и вне unit of work
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

type txKey struct{}

// WithinTx выполняет fn внутри одной транзакции. Репозитории,
// вызванные через переданный контекст, пишут в эту же транзакцию.
// Ошибка fn откатывает всё целиком.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить транзакцию", err)
		return fmt.Errorf("коммит транзакции: %w", err)
	}
	return nil
}

// Querier возвращает транзакцию из контекста, если она там есть
func (db *DB) Querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.pool
}

func (db *DB) Migrate(ctx context.Context) error {
	logger.Info("Попытка миграций")

	files := []string{
		"internal/migrations/001_init.up.sql",
		"internal/migrations/002_indexes.up.sql",
	}

	for _, file := range files {
		query, err := os.ReadFile(file)
		if err != nil {
			logger.Error("failed to read "+file, err)
			return err
		}

		if _, err := db.pool.Exec(ctx, string(query)); err != nil {
			logger.Error("failed to apply "+file, err)
			return err
		}
	}

	logger.Info("Миграции применены")
	return nil
}

func (db *DB) Down(ctx context.Context) error {
	logger.Info("Откат миграций")

	files := []string{
		"internal/migrations/002_indexes.down.sql",
		"internal/migrations/001_init.down.sql",
	}

	for _, file := range files {
		query, err := os.ReadFile(file)
		if err != nil {
			logger.Error("failed to read "+file, err)
			return err
		}

		if _, err := db.pool.Exec(ctx, string(query)); err != nil {
			logger.Error("failed to rollback "+file, err)
			return err
		}
	}

	logger.Info("Миграции откатаны")
	return nil
}
