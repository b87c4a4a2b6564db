package request

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Request - заявка-аудит по задаче. Создаётся либо пользователем,
// либо автоматически воркером при просрочке задачи.
type Request struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	Description string     `json:"description" db:"description"`
	Type        Type       `json:"type" db:"type"`
	Status      Status     `json:"status" db:"status"`
	TaskID      uuid.UUID  `json:"task_id" db:"task_uuid"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type Type string
type Status string

const TypeSubmission Type = "SUBMISSION"
const TypeModification Type = "MODIFICATION"
const TypeExpired Type = "EXPIRED"

const StatusPending Status = "PENDING"
const StatusApproved Status = "APPROVED"
const StatusRejected Status = "REJECTED"

// ExpiredDescription - фиксированный текст заявки, которую создаёт воркер
const ExpiredDescription = "Задача автоматически помечена как просроченная"

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSubmission, TypeModification, TypeExpired:
		return Type(s), nil
	}
	return "", fmt.Errorf("неизвестный тип заявки: %q", s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("неизвестный статус заявки: %q", s)
}
