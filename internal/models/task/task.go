package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID            uuid.UUID     `json:"uuid" db:"uuid"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	Status          Status        `json:"status" db:"status"`
	DueDate         time.Time     `json:"due_date" db:"due_date"`
	TimesRearranged int           `json:"times_rearranged" db:"times_rearranged"`
	TimePassed      time.Duration `json:"time_passed" db:"time_passed"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	MemberID        *uuid.UUID    `json:"member_id,omitempty" db:"member_id,omitempty"`
	GroupID         uuid.UUID     `json:"group_id" db:"group_id"`
	Version         int           `json:"version" db:"version"`
}

type Status string

const StatusOnHold Status = "ON_HOLD"
const StatusInProgress Status = "IN_PROGRESS"
const StatusCompleted Status = "COMPLETED"
const StatusDone Status = "DONE"
const StatusExpired Status = "EXPIRED"

// ParseStatus проверяет строку статуса, пришедшую извне
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOnHold, StatusInProgress, StatusCompleted, StatusDone, StatusExpired:
		return Status(s), nil
	}
	return "", fmt.Errorf("неизвестный статус задачи: %q", s)
}
