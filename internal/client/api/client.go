// Package api - клиент REST API сайта Summit для консоли администратора.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/SteakTheStake/SummitMC/models"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Client определяет интерфейс для взаимодействия с API сайта.
type Client interface {
	// Login аутентифицирует администратора и сохраняет токен.
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	// CurrentUser возвращает пользователя текущей сессии.
	CurrentUser(ctx context.Context) (*models.SessionUser, error)
	ListVersions(ctx context.Context) ([]models.Version, error)
	// MarkLatest отмечает версию последней, снимая отметку с остальных.
	MarkLatest(ctx context.Context, id int64) (*models.Version, error)
	DeleteVersion(ctx context.Context, id int64) error
	ListScreenshots(ctx context.Context, filter models.ScreenshotFilter) ([]models.Screenshot, error)
	// SetFeatured меняет признак избранного скриншота.
	SetFeatured(ctx context.Context, id int64, featured bool) (*models.Screenshot, error)
	DeleteScreenshot(ctx context.Context, id int64) error
	// SetAuthToken устанавливает токен для запросов администратора.
	SetAuthToken(token string)
}

// Error - ответ сервера с кодом ошибки.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("сервер вернул статус %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (статус %d)", e.Message, e.StatusCode)
}

// Is сопоставляет 401 и 403 с ErrAuthorization.
func (e *Error) Is(target error) bool {
	if target == ErrAuthorization {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// httpClient реализует Client поверх HTTP.
type httpClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

func (c *httpClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("сервер вернул пустой токен")
	}
	c.authToken = resp.Token
	return &resp, nil
}

func (c *httpClient) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *httpClient) ListVersions(ctx context.Context) ([]models.Version, error) {
	versions := []models.Version{}
	if err := c.do(ctx, http.MethodGet, "/api/versions", nil, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *httpClient) MarkLatest(ctx context.Context, id int64) (*models.Version, error) {
	latest := true
	var version models.Version
	body := models.UpdateVersionRequest{IsLatest: &latest}
	if err := c.do(ctx, http.MethodPut, versionPath(id), nil, body, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *httpClient) DeleteVersion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, versionPath(id), nil, nil, nil)
}

func (c *httpClient) ListScreenshots(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Resolution != "" {
		q.Set("resolution", filter.Resolution)
	}
	if filter.Featured != nil {
		q.Set("featured", strconv.FormatBool(*filter.Featured))
	}

	screenshots := []models.Screenshot{}
	if err := c.do(ctx, http.MethodGet, "/api/screenshots", q, nil, &screenshots); err != nil {
		return nil, err
	}
	return screenshots, nil
}

func (c *httpClient) SetFeatured(ctx context.Context, id int64, featured bool) (*models.Screenshot, error) {
	var screenshot models.Screenshot
	body := models.UpdateScreenshotRequest{Featured: &featured}
	if err := c.do(ctx, http.MethodPut, screenshotPath(id), nil, body, &screenshot); err != nil {
		return nil, err
	}
	return &screenshot, nil
}

func (c *httpClient) DeleteScreenshot(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, screenshotPath(id), nil, nil, nil)
}

func versionPath(id int64) string {
	return "/api/versions/" + strconv.FormatInt(id, 10)
}

func screenshotPath(id int64) string {
	return "/api/screenshots/" + strconv.FormatInt(id, 10)
}

// do выполняет запрос с JSON телом и декодирует JSON ответ в out (если out не nil).
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL %s: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, errMarshal := json.Marshal(in)
		if errMarshal != nil {
			return fmt.Errorf("ошибка кодирования запроса: %w", errMarshal)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s %s: %w", method, path, err)
	}
	return nil
}

// readError извлекает сообщение из тела ответа об ошибке.
func readError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// ErrAuthorization сигнализирует об ошибке авторизации (401 или 403).
var ErrAuthorization = errors.New("ошибка авторизации")
