package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/gophtodo/internal/models"
)

const (
	// MaxTitleLen максимальная длина заголовка задачи
	MaxTitleLen = 200
	// MaxDescriptionLen максимальная длина описания задачи
	MaxDescriptionLen = 4000
)

// ValidateTask проверяет обязательные поля задачи
func ValidateTask(title, description string, status models.TaskStatus) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is mandatory")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}

	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is mandatory")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return fmt.Errorf("description must not exceed %d characters", MaxDescriptionLen)
	}

	if !status.Valid() {
		return fmt.Errorf("status must be one of: %s, %s, %s",
			models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone)
	}

	return nil
}
