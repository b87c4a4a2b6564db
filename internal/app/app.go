package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"teamTracker/internal/config"
	"teamTracker/internal/handlers"
	"teamTracker/internal/logger"
	"teamTracker/internal/middleware"
	repomem "teamTracker/internal/repository/inmemory"
	pgdb "teamTracker/internal/repository/postgres"
	requestmem "teamTracker/internal/repository/request/inmemory"
	requestpg "teamTracker/internal/repository/request/postgres"
	taskmem "teamTracker/internal/repository/task/inmemory"
	taskpg "teamTracker/internal/repository/task/postgres"
	"teamTracker/internal/service"
	"teamTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	worker    *worker.ExpireWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var taskRepo service.TaskRepository
	var requestRepo service.RequestRepository
	var txManager service.TxManager

	switch a.config.Repository.Type {
	case "postgres":
		db, err := pgdb.New(ctx, a.config.Database.URL)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("применение миграций: %w", err)
		}

		a.shutdowns = append(a.shutdowns, db.Close)

		taskRepo = taskpg.New(db)
		requestRepo = requestpg.New(db)
		txManager = db
	default:
		tasks := taskmem.NewTaskStorage()
		requests := requestmem.NewRequestStorage()

		taskRepo = tasks
		requestRepo = requests
		txManager = repomem.NewTxManager(tasks, requests)
	}

	taskService := service.NewTaskService(taskRepo, requestRepo, txManager)
	requestService := service.NewRequestService(requestRepo, taskRepo)
	cascadeService := service.NewCascadeService(taskRepo, requestRepo, txManager)

	taskHandler := handlers.NewTaskHandler(taskService)
	requestHandler := handlers.NewRequestHandler(requestService)
	memberHandler := handlers.NewMemberHandler(cascadeService)

	interval := a.config.Worker.Interval
	var intervalPtr *time.Duration
	if interval > 0 {
		intervalPtr = &interval
	}
	a.worker = worker.NewExpireWorker(taskService, intervalPtr)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)    // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID) // PUT /tasks/{id}

			r.Post("/status", taskHandler.ChangeStatus)       // POST /tasks/{id}/status
			r.Get("/requests", requestHandler.GetTaskRequests) // GET /tasks/{id}/requests
		})
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", requestHandler.PostRequest) // POST /requests

		r.Put("/{id}/status", requestHandler.UpdateRequestStatus) // PUT /requests/{id}/status
	})

	r.Delete("/members/{id}/tasks", memberHandler.DeleteMemberTasks) // каскад из контекста участников

	r.Get("/health", taskHandler.HealthCheck)

	a.router = r
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: r,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	go a.worker.Start(workerCtx)

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Остановка фонового воркера...")
		cancelWorker()
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Stop()
		return fmt.Errorf("ошибка сервера: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Не удалось корректно остановить сервер", zap.Error(err))
		}
		a.Stop()
		return nil
	}
}

// Stop запускает зарегистрированные shutdown-функции в обратном порядке
func (a *App) Stop() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = a.shutdowns[:0]
}
