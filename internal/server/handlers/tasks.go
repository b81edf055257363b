package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
	"github.com/iudanet/gophtodo/pkg/api"
)

// TaskHandler обрабатывает CRUD задач текущего пользователя
type TaskHandler struct {
	responder
	tasks storage.TaskStorage
	now   func() time.Time
}

// NewTaskHandler создает новый handler задач
func NewTaskHandler(logger *slog.Logger, tasks storage.TaskStorage) *TaskHandler {
	return &TaskHandler{
		responder: responder{logger: logger},
		tasks:     tasks,
		now:       time.Now,
	}
}

// List обрабатывает GET /api/v1/tasks?status=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	status := models.TaskStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		h.sendError(w, CodeInvalidInput, "unknown status filter", http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.ListTasks(ctx, user.ID, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Any("error", err))
		h.sendError(w, CodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskDTO(t))
	}

	h.sendJSON(w, api.Response{Message: "Tasks retrieved successfully", Data: resp}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	now := h.now()
	task := &models.Task{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.tasks.CreateTask(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to create task", slog.Any("error", err))
		h.sendError(w, CodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "task created",
		slog.String("user_id", user.ID),
		slog.String("task_id", task.ID))

	h.sendJSON(w, api.Response{Message: "Task created successfully", Data: toTaskDTO(task)}, http.StatusCreated)
}

// Get обрабатывает GET /api/v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(ctx, user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	h.sendJSON(w, api.Response{Message: "Task retrieved successfully", Data: toTaskDTO(task)}, http.StatusOK)
}

// Update обрабатывает PUT /api/v1/tasks/{id}
// Заменяет все изменяемые поля задачи
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(ctx, user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Status = models.TaskStatus(req.Status)
	task.DueDate = req.DueDate
	task.UpdatedAt = h.now()

	if err := h.tasks.UpdateTask(ctx, task); err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	h.sendJSON(w, api.Response{Message: "Task updated successfully", Data: toTaskDTO(task)}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(ctx, user.ID, chi.URLParam(r, "id")); err != nil {
		h.sendTaskError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.String("user_id", user.ID))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.sendError(w, CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

// decodeTask читает и валидирует тело запроса. Пустой статус означает todo.
func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (*api.TaskRequest, bool) {
	var req api.TaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode task request", slog.Any("error", err))
		h.sendError(w, CodeInvalidInput, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if req.Status == "" {
		req.Status = string(models.TaskStatusTodo)
	}

	if err := validation.ValidateTask(req.Title, req.Description, models.TaskStatus(req.Status)); err != nil {
		h.sendError(w, CodeInvalidInput, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return &req, true
}

func (h *TaskHandler) sendTaskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrTaskNotFound) {
		h.sendError(w, CodeNotFound, "task not found", http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "task operation failed", slog.Any("error", err))
	h.sendError(w, CodeInternal, "internal server error", http.StatusInternalServerError)
}

func toTaskDTO(t *models.Task) api.Task {
	return api.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
