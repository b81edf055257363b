package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/gophtodo/pkg/api"
)

// Error is a non-2xx response of the server
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// LoginResponse содержит профиль и выданный токен
type LoginResponse struct {
	User      api.UserProfile
	Token     string
	ExpiresIn int64
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Ограничиваем количество редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.UserProfile, error) {
	var profile api.UserProfile
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/user/register", "", req, &profile); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &profile, nil
}

// Login выполняет аутентификацию по паролю
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*LoginResponse, error) {
	resp, err := c.login(ctx, "/api/v1/user/login", req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return resp, nil
}

// LoginGoogle выполняет вход по Google ID token
func (c *Client) LoginGoogle(ctx context.Context, idToken string) (*LoginResponse, error) {
	resp, err := c.login(ctx, "/api/v1/user/auth/google", api.GoogleAuthRequest{IDToken: idToken})
	if err != nil {
		return nil, fmt.Errorf("google login request failed: %w", err)
	}
	return resp, nil
}

// Profile получает профиль владельца токена
func (c *Client) Profile(ctx context.Context, token string) (*api.UserProfile, error) {
	var profile api.UserProfile
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/user/profile", token, nil, &profile); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &profile, nil
}

// Logout отзывает токен на сервере
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/user/logout", token, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ListTasks возвращает задачи пользователя, status может быть пустым
func (c *Client) ListTasks(ctx context.Context, token, status string) ([]api.Task, error) {
	path := "/api/v1/tasks"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var tasks []api.Task
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks request failed: %w", err)
	}
	return tasks, nil
}

// GetTask получает задачу по ID
func (c *Client) GetTask(ctx context.Context, token, id string) (*api.Task, error) {
	var task api.Task
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), token, nil, &task); err != nil {
		return nil, fmt.Errorf("get task request failed: %w", err)
	}
	return &task, nil
}

// CreateTask создает задачу
func (c *Client) CreateTask(ctx context.Context, token string, req api.TaskRequest) (*api.Task, error) {
	var task api.Task
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/tasks", token, req, &task); err != nil {
		return nil, fmt.Errorf("create task request failed: %w", err)
	}
	return &task, nil
}

// UpdateTask заменяет поля задачи
func (c *Client) UpdateTask(ctx context.Context, token, id string, req api.TaskRequest) (*api.Task, error) {
	var task api.Task
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(id), token, req, &task); err != nil {
		return nil, fmt.Errorf("update task request failed: %w", err)
	}
	return &task, nil
}

// DeleteTask удаляет задачу
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), token, nil, nil); err != nil {
		return fmt.Errorf("delete task request failed: %w", err)
	}
	return nil
}

func (c *Client) login(ctx context.Context, path string, body any) (*LoginResponse, error) {
	var resp api.Response
	var profile api.UserProfile
	resp.Data = &profile

	if err := c.doRawRequest(ctx, http.MethodPost, path, "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("server returned no token")
	}

	return &LoginResponse{User: profile, Token: resp.Token, ExpiresIn: resp.ExpiresIn}, nil
}

// doRequest выполняет запрос и распаковывает поле data из конверта ответа
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, data any) error {
	var envelope api.Response
	envelope.Data = data
	return c.doRawRequest(ctx, method, path, token, body, &envelope)
}

// doRawRequest выполняет HTTP запрос
func (c *Client) doRawRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	// 204 и пустые ответы не декодируем
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
