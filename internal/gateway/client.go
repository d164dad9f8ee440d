package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"
	"blockrooms-client/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Actions — все state-changing вызовы бэкенда плюс принудительный refetch.
// Каждый вызов синхронный и уважает контекст; Success=false в ответе это
// штатный отказ, а не ошибка транспорта.
type Actions interface {
	EnterDoor(ctx context.Context, doorID string) (*api.ActionResult, error)
	ExitDoor(ctx context.Context, doorID string) (*api.ActionResult, error)
	AttackEntity(ctx context.Context, entityID string) (*api.ActionResult, error)
	CollectShard(ctx context.Context, target string) (*api.ActionResult, error)
	EndGame(ctx context.Context) (*api.ActionResult, error)
	FetchGameData(ctx context.Context) (*api.GameData, error)
}

// HTTPClient — реализация Actions поверх HTTP API индексера.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// callAction отправляет один action-вызов. Запрос валидируется до отправки:
// бэкенд не должен видеть заведомо сломанные интенты.
func (c *HTTPClient) callAction(ctx context.Context, action, target string) (*api.ActionResult, error) {
	reqBody := api.ActionRequest{
		Action:   action,
		Target:   target,
		IntentID: utils.GenerateID(),
	}
	if err := reqBody.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s request: %w", action, err)
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/action", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s call: %w", action, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s call: status %d: %s", action, resp.StatusCode, body)
	}

	var result api.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", action, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"action":   action,
		"target":   target,
		"success":  result.Success,
		"duration": time.Since(start),
	}).Debug("action call finished")

	return &result, nil
}

func (c *HTTPClient) EnterDoor(ctx context.Context, doorID string) (*api.ActionResult, error) {
	return c.callAction(ctx, "enterDoor", doorID)
}

func (c *HTTPClient) ExitDoor(ctx context.Context, doorID string) (*api.ActionResult, error) {
	return c.callAction(ctx, "exitDoor", doorID)
}

func (c *HTTPClient) AttackEntity(ctx context.Context, entityID string) (*api.ActionResult, error) {
	return c.callAction(ctx, "attackEntity", entityID)
}

func (c *HTTPClient) CollectShard(ctx context.Context, target string) (*api.ActionResult, error) {
	return c.callAction(ctx, "collectShard", target)
}

func (c *HTTPClient) EndGame(ctx context.Context) (*api.ActionResult, error) {
	return c.callAction(ctx, "endGame", "")
}

// FetchGameData запрашивает полный снимок состояния. Тот же снимок
// индексер пушит в фид, но после действий клиент перечитывает сам.
func (c *HTTPClient) FetchGameData(ctx context.Context) (*api.GameData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/game-data", nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("game-data call: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("game-data call: status %d", resp.StatusCode)
	}

	var data api.GameData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode game data: %w", err)
	}
	return &data, nil
}
