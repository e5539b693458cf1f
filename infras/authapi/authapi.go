package authapi

//go:generate go run go.uber.org/mock/mockgen -source=./authapi.go -destination=./mocks/authapi_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"conferent/config"
	"conferent/shared/failure"
	"conferent/shared/logger"
)

const defaultTimeoutSeconds = 10

// LoginPayload is the auth server's response to a credential exchange.
// Zero-valued fields mean the server omitted them.
type LoginPayload struct {
	AccessToken string `json:"accessToken"`
	UserID      int64  `json:"userId"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	UserRole    string `json:"userRole"`
}

// ProfilePayload is the auth server's response to a token introspection.
type ProfilePayload struct {
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserRole  string `json:"userRole"`
}

// ValidatePayload reports whether a token is still accepted by the auth
// server.
type ValidatePayload struct {
	Valid bool `json:"valid"`
}

// Gateway talks to the external auth server.
type Gateway interface {
	Login(ctx context.Context, email, password string) (LoginPayload, error)
	Logout(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (ValidatePayload, error)
	Profile(ctx context.Context, token string) (ProfilePayload, error)
}

type gatewayImpl struct {
	baseURL string
	client  *http.Client
}

func New(cfg *config.Config) Gateway {
	timeout := cfg.External.Auth.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &gatewayImpl{
		baseURL: cfg.External.Auth.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

func (g *gatewayImpl) Login(ctx context.Context, email, password string) (LoginPayload, error) {
	var payload LoginPayload

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return payload, errors.Wrap(err, "encoding login request")
	}

	resp, err := g.do(ctx, http.MethodPost, "/v1/auth/login", "", bytes.NewReader(body))
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return payload, failure.Auth("invalid credentials")
	case resp.StatusCode >= http.StatusInternalServerError:
		return payload, failure.Transport(fmt.Errorf("auth server returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return payload, failure.MalformedResponse("status")
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.ErrorWithStack(err)

		return payload, failure.MalformedResponse("body")
	}

	return payload, nil
}

func (g *gatewayImpl) Logout(ctx context.Context, token string) error {
	resp, err := g.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return failure.Transport(fmt.Errorf("auth server returned %d", resp.StatusCode))
	}

	return nil
}

// Validate asks the auth server whether the token is still good. A 401
// means definitively invalid and is not an error.
func (g *gatewayImpl) Validate(ctx context.Context, token string) (ValidatePayload, error) {
	var payload ValidatePayload

	resp, err := g.do(ctx, http.MethodGet, "/v1/auth/validate", token, nil)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ValidatePayload{Valid: false}, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return payload, failure.Transport(fmt.Errorf("auth server returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return payload, failure.MalformedResponse("status")
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.ErrorWithStack(err)

		return payload, failure.MalformedResponse("body")
	}

	return payload, nil
}

func (g *gatewayImpl) Profile(ctx context.Context, token string) (ProfilePayload, error) {
	var payload ProfilePayload

	resp, err := g.do(ctx, http.MethodGet, "/v1/auth/me", token, nil)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return payload, failure.Auth("token is no longer valid")
	case resp.StatusCode >= http.StatusInternalServerError:
		return payload, failure.Transport(fmt.Errorf("auth server returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return payload, failure.MalformedResponse("status")
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.ErrorWithStack(err)

		return payload, failure.MalformedResponse("body")
	}

	return payload, nil
}

func (g *gatewayImpl) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building auth request")
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, failure.Transport(err)
	}

	return resp, nil
}
