package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamTracker/internal/handlers"
	"teamTracker/internal/models/request"
	"teamTracker/internal/models/task"
	"teamTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskService struct {
	mock.Mock
}

var _ handlers.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateNewTask(ctx context.Context, title, description string, dueDate time.Time, memberID *uuid.UUID, groupID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, title, description, dueDate, memberID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ChangeStatus(ctx context.Context, id uuid.UUID, requested task.Status) (*task.Task, error) {
	args := m.Called(ctx, id, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTaskFields(ctx context.Context, id uuid.UUID, title, description string, dueDate time.Time) (*task.Task, error) {
	args := m.Called(ctx, id, title, description, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

type MockRequestService struct {
	mock.Mock
}

var _ handlers.RequestService = (*MockRequestService)(nil)

func (m *MockRequestService) CreateRequest(ctx context.Context, description, reqType string, taskID uuid.UUID) (*request.Request, error) {
	args := m.Called(ctx, description, reqType, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.Request), args.Error(1)
}

func (m *MockRequestService) UpdateRequestStatus(ctx context.Context, id uuid.UUID, newStatus string) (*request.Request, error) {
	args := m.Called(ctx, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.Request), args.Error(1)
}

func (m *MockRequestService) GetRequestsByTask(ctx context.Context, taskID uuid.UUID) ([]*request.Request, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.Request), args.Error(1)
}

type MockCascadeService struct {
	mock.Mock
}

var _ handlers.CascadeService = (*MockCascadeService)(nil)

func (m *MockCascadeService) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// newTestRouter собирает роутер с теми же маршрутами, что и приложение
func newTestRouter(taskSvc *MockTaskService, requestSvc *MockRequestService, cascadeSvc *MockCascadeService) *chi.Mux {
	taskHandler := handlers.NewTaskHandler(taskSvc)
	requestHandler := handlers.NewRequestHandler(requestSvc)
	memberHandler := handlers.NewMemberHandler(cascadeSvc)

	r := chi.NewRouter()
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.PostTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)
			r.Put("/", taskHandler.UpdateTaskByID)
			r.Post("/status", taskHandler.ChangeStatus)
			r.Get("/requests", requestHandler.GetTaskRequests)
		})
	})
	r.Route("/requests", func(r chi.Router) {
		r.Post("/", requestHandler.PostRequest)
		r.Put("/{id}/status", requestHandler.UpdateRequestStatus)
	})
	r.Delete("/members/{id}/tasks", memberHandler.DeleteMemberTasks)
	r.Get("/health", taskHandler.HealthCheck)

	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	return payload
}

func TestPostTask_Success(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	dueDate := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	groupID := uuid.New()
	created := &task.Task{
		UUID:        uuid.New(),
		Title:       "Test Task",
		Description: "Test Description",
		Status:      task.StatusInProgress,
		DueDate:     dueDate,
		GroupID:     groupID,
		CreatedAt:   time.Now(),
	}

	taskSvc.On("CreateNewTask", mock.Anything, "Test Task", "Test Description", mock.AnythingOfType("time.Time"), (*uuid.UUID)(nil), groupID).
		Return(created, nil)

	rec := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"title":       "Test Task",
		"description": "Test Description",
		"due_date":    dueDate,
		"group_id":    groupID,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	taskBody, ok := body["task"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, created.UUID.String(), taskBody["id"])
	assert.Equal(t, "IN_PROGRESS", taskBody["status"])

	taskSvc.AssertExpectations(t)
}

func TestPostTask_WrongContentType(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	taskSvc.AssertNotCalled(t, "CreateNewTask")
}

func TestPostTask_InvalidJSON(t *testing.T) {
	router := newTestRouter(new(MockTaskService), new(MockRequestService), new(MockCascadeService))

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString("{не json"))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTask_ValidationError(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	taskSvc.On("CreateNewTask", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.NewValidationError("title", "название не может быть пустым"))

	rec := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"title":    "",
		"due_date": time.Now().Add(time.Hour),
		"group_id": uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "error")
}

func TestGetTaskByID_NotFound(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	taskID := uuid.New()
	taskSvc.On("GetTaskByID", mock.Anything, taskID).
		Return(nil, service.NewNotFound("задача", taskID.String()))

	rec := doJSON(t, router, http.MethodGet, "/tasks/"+taskID.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTaskByID_BadID(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	rec := doJSON(t, router, http.MethodGet, "/tasks/не-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	taskSvc.AssertNotCalled(t, "GetTaskByID")
}

func TestChangeStatus_Success(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	taskID := uuid.New()
	updated := &task.Task{
		UUID:    taskID,
		Title:   "Test Task",
		Status:  task.StatusCompleted,
		DueDate: time.Now().Add(time.Hour),
		GroupID: uuid.New(),
	}

	taskSvc.On("ChangeStatus", mock.Anything, taskID, task.StatusCompleted).Return(updated, nil)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/tasks/%s/status", taskID), map[string]any{
		"status": "COMPLETED",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	taskBody := body["task"].(map[string]any)
	assert.Equal(t, "COMPLETED", taskBody["status"])

	taskSvc.AssertExpectations(t)
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/tasks/%s/status", uuid.New()), map[string]any{
		"status": "ARCHIVED",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	taskSvc.AssertNotCalled(t, "ChangeStatus")
}

func TestUpdateTaskByID_PartialBody(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	taskID := uuid.New()
	updated := &task.Task{
		UUID:    taskID,
		Title:   "Новое название",
		Status:  task.StatusInProgress,
		DueDate: time.Now().Add(time.Hour),
		GroupID: uuid.New(),
	}

	// не переданный due_date уходит в сервис нулевым значением
	taskSvc.On("UpdateTaskFields", mock.Anything, taskID, "Новое название", "", time.Time{}).
		Return(updated, nil)

	rec := doJSON(t, router, http.MethodPut, "/tasks/"+taskID.String(), map[string]any{
		"title": "Новое название",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	taskSvc.AssertExpectations(t)
}

func TestPostRequest_Success(t *testing.T) {
	requestSvc := new(MockRequestService)
	router := newTestRouter(new(MockTaskService), requestSvc, new(MockCascadeService))

	taskID := uuid.New()
	created := &request.Request{
		UUID:        uuid.New(),
		Description: "Прошу проверить",
		Type:        request.TypeSubmission,
		Status:      request.StatusPending,
		TaskID:      taskID,
		CreatedAt:   time.Now(),
	}

	requestSvc.On("CreateRequest", mock.Anything, "Прошу проверить", "SUBMISSION", taskID).Return(created, nil)

	rec := doJSON(t, router, http.MethodPost, "/requests", map[string]any{
		"description": "Прошу проверить",
		"type":        "SUBMISSION",
		"task_id":     taskID,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	requestBody := body["request"].(map[string]any)
	assert.Equal(t, "PENDING", requestBody["status"])
	assert.Equal(t, taskID.String(), requestBody["task_id"])

	requestSvc.AssertExpectations(t)
}

func TestPostRequest_UnknownType(t *testing.T) {
	requestSvc := new(MockRequestService)
	router := newTestRouter(new(MockTaskService), requestSvc, new(MockCascadeService))

	requestSvc.On("CreateRequest", mock.Anything, mock.Anything, "ESCALATION", mock.Anything).
		Return(nil, service.NewValidationError("type", "неизвестный тип заявки"))

	rec := doJSON(t, router, http.MethodPost, "/requests", map[string]any{
		"description": "d",
		"type":        "ESCALATION",
		"task_id":     uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRequestStatus_Success(t *testing.T) {
	requestSvc := new(MockRequestService)
	router := newTestRouter(new(MockTaskService), requestSvc, new(MockCascadeService))

	requestID := uuid.New()
	updated := &request.Request{
		UUID:   requestID,
		Type:   request.TypeSubmission,
		Status: request.StatusApproved,
		TaskID: uuid.New(),
	}

	requestSvc.On("UpdateRequestStatus", mock.Anything, requestID, "APPROVED").Return(updated, nil)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/requests/%s/status", requestID), map[string]any{
		"status": "APPROVED",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	requestBody := body["request"].(map[string]any)
	assert.Equal(t, "APPROVED", requestBody["status"])

	requestSvc.AssertExpectations(t)
}

func TestGetTaskRequests_Success(t *testing.T) {
	requestSvc := new(MockRequestService)
	router := newTestRouter(new(MockTaskService), requestSvc, new(MockCascadeService))

	taskID := uuid.New()
	stored := []*request.Request{
		{UUID: uuid.New(), Type: request.TypeSubmission, Status: request.StatusPending, TaskID: taskID},
		{UUID: uuid.New(), Type: request.TypeExpired, Status: request.StatusApproved, TaskID: taskID},
	}

	requestSvc.On("GetRequestsByTask", mock.Anything, taskID).Return(stored, nil)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%s/requests", taskID), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	list, ok := body["requests"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestGetTaskRequests_Empty(t *testing.T) {
	requestSvc := new(MockRequestService)
	router := newTestRouter(new(MockTaskService), requestSvc, new(MockCascadeService))

	taskID := uuid.New()
	requestSvc.On("GetRequestsByTask", mock.Anything, taskID).Return([]*request.Request{}, nil)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%s/requests", taskID), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	list, ok := body["requests"].([]any)
	require.True(t, ok)
	assert.Empty(t, list)
}

func TestDeleteMemberTasks_Success(t *testing.T) {
	cascadeSvc := new(MockCascadeService)
	router := newTestRouter(new(MockTaskService), new(MockRequestService), cascadeSvc)

	memberID := uuid.New()
	cascadeSvc.On("RemoveMember", mock.Anything, memberID).Return(nil)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/members/%s/tasks", memberID), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cascadeSvc.AssertExpectations(t)
}

func TestHealthCheck(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(taskSvc, new(MockRequestService), new(MockCascadeService))

	taskSvc.On("HealthCheck", mock.Anything).Return(nil)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
}
