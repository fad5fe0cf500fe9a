package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"comic-auth/internal/config"
	"comic-auth/internal/handler"
	"comic-auth/internal/middleware"
	"comic-auth/internal/model"
	"comic-auth/internal/repository"
	"comic-auth/internal/router"
	"comic-auth/internal/service"
)

type testEnv struct {
	server *httptest.Server
	auth   *service.AuthService
	users  *repository.MemoryUserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repository.NewMemoryUserStore()
	roles := repository.NewMemoryRoleStore()
	tokens := service.NewTokenService(repository.NewMemoryTokenStore(12 * time.Hour))
	authService := service.NewAuthService(users, roles, tokens)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		TokenTTL:         12 * time.Hour,
		TokenStore:       config.TokenStoreMemory,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	appRouter := router.New(cfg,
		authMiddleware,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(authService),
		handler.NewRoleHandler(authService),
	)

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, auth: authService, users: users}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method string, path string, body any, token string) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func (e *testEnv) register(t *testing.T, username string, email string, password string) (string, model.PublicUser) {
	t.Helper()

	resp, envelope := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		Token string           `json:"token"`
		User  model.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User
}

func (e *testEnv) login(t *testing.T, identifier string, password string) (string, model.PublicUser) {
	t.Helper()

	resp, envelope := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth struct {
		Token string           `json:"token"`
		User  model.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User
}
