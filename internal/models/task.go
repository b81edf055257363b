package models

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task представляет задачу пользователя
type Task struct {
	ID          string     `json:"id"`                 // UUID задачи
	UserID      string     `json:"user_id"`            // владелец
	Title       string     `json:"title"`              // заголовок
	Description string     `json:"description"`        // описание
	Status      TaskStatus `json:"status"`             // статус
	DueDate     *time.Time `json:"due_date,omitempty"` // срок выполнения
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
