package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api/controller"
	"taskdeck/internal/api/repository"
	"taskdeck/internal/api/service"
	"taskdeck/internal/auth"
	"taskdeck/internal/db"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool, err := db.Connect(":memory:")
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)
	require.NoError(t, db.Initialize(pool))
	t.Cleanup(func() { pool.Close() })

	tokens := auth.NewTokenService([]byte(testSecret), time.Hour)
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	authSvc := service.NewAuthService(userRepo, tokens)
	taskSvc := service.NewTaskService(taskRepo, nil, nil)

	return NewServer(nil, tokens,
		controller.NewAuthController(authSvc),
		controller.NewTaskController(taskSvc))
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signup(t *testing.T, s *Server, username, password string) *httptest.ResponseRecorder {
	return do(t, s, http.MethodPost, "/signup", "", gin.H{"username": username, "password": password})
}

func signin(t *testing.T, s *Server, username, password string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/signin", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok, "signin response must carry a token")
	return token
}

func TestSignup_ValidationBounds(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{name: "username too short", username: "ab", password: "secret1", message: "invalid username"},
		{name: "username too long", username: strings.Repeat("a", 31), password: "secret1", message: "invalid username"},
		{name: "empty username", username: "", password: "secret1", message: "invalid username"},
		{name: "password too short", username: "alice", password: "12345", message: "invalid password"},
		{name: "password too long", username: "alice", password: strings.Repeat("p", 101), message: "invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := signup(t, s, tt.username, tt.password)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)

	w := signup(t, s, "alice", "another-password")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "user exists", decode(t, w)["message"])
}

func TestSignup_ConcurrentDuplicates_ExactlyOneWins(t *testing.T) {
	s := newTestServer(t)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = signup(t, s, "alice", fmt.Sprintf("password%d", i)).Code
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, code := range codes {
		if code == http.StatusOK {
			wins++
		} else {
			require.Equal(t, http.StatusBadRequest, code)
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent signup must succeed")
}

func TestSignin(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)

	t.Run("success", func(t *testing.T) {
		token := signin(t, s, "alice", "secret1")
		require.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/signin", "", gin.H{"username": "alice", "password": "wrong-password"})
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "invalid creds", decode(t, w)["message"])
	})

	t.Run("unknown user", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/signin", "", gin.H{"username": "nobody", "password": "secret1"})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("validation applies before lookup", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/signin", "", gin.H{"username": "ab", "password": "secret1"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid username", decode(t, w)["message"])
	})
}

func TestProtectedRoutes_AuthErrors(t *testing.T) {
	s := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/add-task"},
		{http.MethodGet, "/view-task"},
		{http.MethodPatch, "/complete-task/some-id"},
		{http.MethodPatch, "/edit-task/some-id"},
		{http.MethodDelete, "/delete-task/some-id"},
	}

	for _, p := range paths {
		t.Run("missing header "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			w := httptest.NewRecorder()
			s.Engine().ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Equal(t, "token required", decode(t, w)["message"])
		})

		t.Run("garbage token "+p.path, func(t *testing.T) {
			w := do(t, s, p.method, p.path, "garbage.token.here", nil)
			require.Equal(t, http.StatusForbidden, w.Code)
			require.Equal(t, "invalid token", decode(t, w)["message"])
		})
	}

	t.Run("header without bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/view-task", nil)
		req.Header.Set("Authorization", "some-raw-token")
		w := httptest.NewRecorder()
		s.Engine().ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)
		expiredIssuer := auth.NewTokenService([]byte(testSecret), -time.Minute)
		expired, err := expiredIssuer.Issue("alice")
		require.NoError(t, err)

		w := do(t, s, http.MethodGet, "/view-task", expired, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

// TestTaskLifecycle walks the example transcript end to end: signup,
// signin, add, view, complete, edit, delete, view.
func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)
	token := signin(t, s, "alice", "secret1")

	// add-task
	w := do(t, s, http.MethodPost, "/add-task", token, gin.H{"description": "buy milk"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)
	require.Equal(t, "alice", created["username"])
	require.Equal(t, "buy milk", created["description"])
	require.Equal(t, false, created["completed"])
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// view-task includes it, completed=false
	w = do(t, s, http.MethodGet, "/view-task", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, id, tasks[0]["id"])
	require.Equal(t, false, tasks[0]["completed"])

	// complete-task flips the flag
	w = do(t, s, http.MethodPatch, "/complete-task/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decode(t, w)["completed"])

	w = do(t, s, http.MethodGet, "/view-task", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Equal(t, true, tasks[0]["completed"])

	// edit-task replaces the description
	w = do(t, s, http.MethodPatch, "/edit-task/"+id, token, gin.H{"description": "buy oat milk"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "buy oat milk", decode(t, w)["description"])

	// delete-task returns the removed record
	w = do(t, s, http.MethodDelete, "/delete-task/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode(t, w)
	require.Equal(t, "deleted", deleted["message"])
	task, ok := deleted["task"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, id, task["id"])

	// and it is gone
	w = do(t, s, http.MethodGet, "/view-task", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Empty(t, tasks)
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)
	require.Equal(t, http.StatusOK, signup(t, s, "bobby", "secret2").Code)
	aliceToken := signin(t, s, "alice", "secret1")
	bobToken := signin(t, s, "bobby", "secret2")

	w := do(t, s, http.MethodPost, "/add-task", aliceToken, gin.H{"description": "alice's task"})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["id"].(string)

	// Bob's view never includes Alice's task.
	w = do(t, s, http.MethodGet, "/view-task", bobToken, nil)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Empty(t, tasks)

	// All mutating routes behave as if the task does not exist.
	for _, attempt := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPatch, "/complete-task/" + id, nil},
		{http.MethodPatch, "/edit-task/" + id, gin.H{"description": "hijacked"}},
		{http.MethodDelete, "/delete-task/" + id, nil},
	} {
		w = do(t, s, attempt.method, attempt.path, bobToken, attempt.body)
		require.Equal(t, http.StatusNotFound, w.Code, "%s %s", attempt.method, attempt.path)
		require.Equal(t, "not found", decode(t, w)["message"])
	}

	// Alice still sees her untouched task.
	w = do(t, s, http.MethodGet, "/view-task", aliceToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "alice's task", tasks[0]["description"])
	require.Equal(t, false, tasks[0]["completed"])
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, signup(t, s, "alice", "secret1").Code)
	token := signin(t, s, "alice", "secret1")

	t.Run("add empty description", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/add-task", token, gin.H{"description": ""})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid description", decode(t, w)["message"])
	})

	t.Run("add oversized description", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/add-task", token, gin.H{"description": strings.Repeat("d", 501)})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("edit empty description", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/add-task", token, gin.H{"description": "buy milk"})
		require.Equal(t, http.StatusOK, w.Code)
		id := decode(t, w)["id"].(string)

		w = do(t, s, http.MethodPatch, "/edit-task/"+id, token, gin.H{"description": ""})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid description", decode(t, w)["message"])
	})

	t.Run("mutate unknown id", func(t *testing.T) {
		w := do(t, s, http.MethodPatch, "/complete-task/no-such-id", token, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
