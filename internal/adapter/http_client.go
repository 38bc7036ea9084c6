package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/zpasskit/zpass/models"
)

// HTTPClientConfig carries the transport settings of the HTTP adapter.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs a ServerAdapter over resty with sane
// defaults for a local server.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/auth/register")
	if err != nil {
		return models.RegisterResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp, ErrLoginAlreadyExists); err != nil {
		return models.RegisterResponse{}, err
	}

	var out models.RegisterResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.RegisterResponse{}, fmt.Errorf("decode register response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) AccountParams(ctx context.Context, login string) (models.ParamsResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ParamsRequest{Login: login}).
		Post("/api/auth/params")
	if err != nil {
		return models.ParamsResponse{}, fmt.Errorf("account params request: %w", err)
	}
	if err = mapHTTPError(resp, nil); err != nil {
		return models.ParamsResponse{}, err
	}

	var out models.ParamsResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.ParamsResponse{}, fmt.Errorf("decode account params response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/auth/login")
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp, nil); err != nil {
		return models.LoginResponse{}, err
	}

	var out models.LoginResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.LoginResponse{}, fmt.Errorf("decode login response: %w", err)
	}

	h.SetToken(out.SessionToken)
	return out, nil
}

func (h *httpServerAdapter) Verify(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Get("/api/auth/verify")
	if err != nil {
		return fmt.Errorf("verify request: %w", err)
	}
	return mapHTTPError(resp, nil)
}

func (h *httpServerAdapter) PullVault(ctx context.Context) (models.VaultGetResponse, error) {
	resp, err := h.authedRequest(ctx).Get("/api/vault")
	if err != nil {
		return models.VaultGetResponse{}, fmt.Errorf("pull vault request: %w", err)
	}
	if err = mapHTTPError(resp, nil); err != nil {
		return models.VaultGetResponse{}, err
	}

	var out models.VaultGetResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.VaultGetResponse{}, fmt.Errorf("decode vault response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) PushVault(ctx context.Context, req models.VaultPutRequest) (models.VaultPutResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Put("/api/vault")
	if err != nil {
		return models.VaultPutResponse{}, fmt.Errorf("push vault request: %w", err)
	}
	if err = mapHTTPError(resp, ErrRevisionConflict); err != nil {
		return models.VaultPutResponse{}, err
	}

	var out models.VaultPutResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.VaultPutResponse{}, fmt.Errorf("decode push response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// mapHTTPError translates an HTTP status into the adapter's sentinel errors.
// conflictErr names the meaning of 409 for the endpoint at hand (taken
// login on register, revision conflict on vault push).
func mapHTTPError(resp *resty.Response, conflictErr error) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrAccountNotFound
	case http.StatusConflict:
		if conflictErr != nil {
			return conflictErr
		}
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
