package dto

import (
	"time"

	"teamTracker/internal/models/request"
	"teamTracker/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"due_date"`
	MemberID    *uuid.UUID `json:"member_id,omitempty"`
	GroupID     uuid.UUID  `json:"group_id"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	UUID            uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	DueDate         time.Time  `json:"due_date"`
	TimesRearranged int        `json:"times_rearranged"`
	TimePassed      string     `json:"time_passed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	MemberID        *uuid.UUID `json:"member_id,omitempty"`
	GroupID         uuid.UUID  `json:"group_id"`
	IsOverdue       bool       `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:            t.UUID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          string(t.Status),
		DueDate:         t.DueDate,
		TimesRearranged: t.TimesRearranged,
		TimePassed:      t.TimePassed.String(),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		MemberID:        t.MemberID,
		GroupID:         t.GroupID,
		IsOverdue:       t.Status != task.StatusDone && t.DueDate.Before(time.Now()),
	}
}

type CreateRequestRequest struct {
	Description string    `json:"description"`
	Type        string    `json:"type"`
	TaskID      uuid.UUID `json:"task_id"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

type RequestResponse struct {
	UUID        uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	TaskID      uuid.UUID  `json:"task_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func FromRequest(r *request.Request) RequestResponse {
	return RequestResponse{
		UUID:        r.UUID,
		Description: r.Description,
		Type:        string(r.Type),
		Status:      string(r.Status),
		TaskID:      r.TaskID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
