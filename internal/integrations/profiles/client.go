package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Client клиент REST API Supabase для чтения профилей пользователей
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента профилей
func NewClient(baseURL, serviceKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль пользователя по ID
func (c *Client) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := url.Values{}
	query.Set("id", "eq."+userID.String())
	query.Set("select", "id,first_name,last_name,email")
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// PostgREST возвращает массив строк
	var rows []Profile
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if len(rows) == 0 {
		return nil, ErrProfileNotFound
	}

	return &rows[0], nil
}

// GetProfileWithGracefulDegradation получает профиль с graceful degradation.
// При недоступности Supabase возвращает ErrServiceDegraded, уведомление уходит без контактов.
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	profile, err := c.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Warn("Profile not found for user_id=%s", userID)
			return nil, err
		}

		c.log.Error("Profiles unavailable, applying graceful degradation for user_id=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%s, error=%v", ErrServiceDegraded, userID, err)
	}

	return profile, nil
}
