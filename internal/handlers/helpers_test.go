package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/birlikkoshan/todo-tracker/internal/auth"
	"github.com/birlikkoshan/todo-tracker/internal/dto"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/repo"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repo.NewMemoryUserRepo()
	todos := repo.NewMemoryTodoRepo(users)
	log := logging.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	authH := NewAuthHandler(service.NewUserService(users), tokens, nil, log)
	userH := NewUserHandler(service.NewUserService(users), log)
	todoH := NewTodoHandler(service.NewTodoService(todos, nil), log)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	protected := api.Group("", auth.RequireAuth(tokens, nil, log))
	protected.GET("/auth/profile", authH.Profile)
	protected.POST("/auth/refresh", authH.Refresh)
	protected.POST("/auth/logout", authH.Logout)
	protected.GET("/users/me", userH.Me)
	protected.PATCH("/users/me", userH.UpdateMe)
	protected.POST("/todos", todoH.Create)
	protected.GET("/todos", todoH.List)
	protected.GET("/todos/stats", todoH.Stats)
	protected.GET("/todos/:id", todoH.GetByID)
	protected.PATCH("/todos/:id", todoH.Update)
	protected.DELETE("/todos/:id", todoH.Delete)
	protected.PATCH("/todos/:id/toggle-complete", todoH.ToggleComplete)
	protected.PATCH("/todos/:id/toggle-pin", todoH.TogglePin)

	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its bearer token.
func (s *testServer) register(email string) (string, dto.UserResponse) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "name": "Tester", "password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	decode(s.t, w, &resp)
	return resp.AccessToken, resp.User
}

func (s *testServer) createTodo(token string, body any) dto.TodoResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/todos", token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var td dto.TodoResponse
	decode(s.t, w, &td)
	return td
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
