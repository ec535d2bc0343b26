package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/repositories"
	"github.com/pffigueiredo/simple-todo-app-cdf7/testutil"
)

func TestCreateTodo_Success(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	resp := testutil.CallRPC(t, r, "createTodo", map[string]any{"description": "Test todo item"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	out := testutil.DecodeRPC[models.Todo](t, resp)
	require.NotNil(t, out.Result)
	created := out.Result.Data

	assert.NotZero(t, created.ID, "Expected a non-zero Todo ID")
	assert.Equal(t, "Test todo item", created.Description)
	assert.False(t, created.Completed, "Expected completed to be false")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, 5*time.Second)

	var dbTodo models.Todo
	err := db.QueryRow("SELECT id, description, completed, created_at FROM todos WHERE id = ?", created.ID).Scan(
		&dbTodo.ID, &dbTodo.Description, &dbTodo.Completed, &dbTodo.CreatedAt,
	)
	require.NoError(t, err)
	assert.Equal(t, created.Description, dbTodo.Description)
	assert.False(t, dbTodo.Completed)
	assert.True(t, created.CreatedAt.Equal(dbTodo.CreatedAt), "created_at should be the stored value")
}

func TestCreateTodo_IgnoresClientSuppliedFields(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	resp := testutil.CallRPC(t, r, "createTodo", map[string]any{
		"description": "Spoofed",
		"id":          4242,
		"completed":   true,
		"created_at":  "2001-01-01T00:00:00Z",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	created := testutil.DecodeRPC[models.Todo](t, resp).Result.Data
	assert.NotEqual(t, 4242, created.ID)
	assert.False(t, created.Completed)
	assert.True(t, created.CreatedAt.Year() > 2001)
}

func TestCreateTodo_TwoTodosHaveDistinctIDs(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	first := testutil.CreateTestTodo(t, r, "First todo")
	second := testutil.CreateTestTodo(t, r, "Second todo")
	require.NotEqual(t, first.ID, second.ID)

	todos := testutil.DecodeRPC[[]models.Todo](t, testutil.CallRPC(t, r, "getTodos", nil)).Result.Data
	require.Len(t, todos, 2)
	descriptions := []string{todos[0].Description, todos[1].Description}
	assert.Contains(t, descriptions, "First todo")
	assert.Contains(t, descriptions, "Second todo")
}

func TestCreateTodo_LengthIsCheckedAfterTrimming(t *testing.T) {
	db, r, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	description := strings.Repeat("a", models.MaxDescriptionLength)
	resp := testutil.CallRPC(t, r, "createTodo", map[string]any{"description": "  " + description + "  "})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := testutil.DecodeRPC[models.Todo](t, resp).Result.Data
	assert.Equal(t, description, created.Description)

	stored, err := todoRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxDescriptionLength, utf8.RuneCountInString(stored.Description))
}

func TestCreateTodo_InvalidInput(t *testing.T) {
	cases := map[string]string{
		"missing":    `{}`,
		"empty":      `{"description": ""}`,
		"whitespace": `{"description": "   "}`,
		"too long":   fmt.Sprintf(`{"description": %q}`, strings.Repeat("a", models.MaxDescriptionLength+1)),
		"wrong type": `{"description": 12}`,
		"malformed":  `{"description":`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			db, r, todoRepo := testutil.SetupTestDB(t)
			defer db.Close()

			req, _ := http.NewRequest(http.MethodPost, "/trpc/createTodo", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			out := testutil.DecodeRPC[models.Todo](t, w)
			require.NotNil(t, out.Error)
			assert.Equal(t, "BAD_REQUEST", out.Error.Code)

			todos, err := todoRepo.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, todos, "invalid input must not reach the store")
		})
	}
}

func TestGetTodos_Empty(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	resp := testutil.CallRPC(t, r, "getTodos", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"result":{"data":[]}}`, resp.Body.String())
}

func TestGetTodos_OrderedByCreationWithCompletedPreserved(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	first := testutil.CreateTestTodo(t, r, "First")
	second := testutil.CreateTestTodo(t, r, "Second")
	third := testutil.CreateTestTodo(t, r, "Third")

	resp := testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": second.ID, "completed": true})
	require.Equal(t, http.StatusOK, resp.Code)

	todos := testutil.DecodeRPC[[]models.Todo](t, testutil.CallRPC(t, r, "getTodos", nil)).Result.Data
	require.Len(t, todos, 3)
	assert.Equal(t, []int{first.ID, second.ID, third.ID}, []int{todos[0].ID, todos[1].ID, todos[2].ID})
	assert.Equal(t, []bool{false, true, false}, []bool{todos[0].Completed, todos[1].Completed, todos[2].Completed})
	assert.False(t, todos[1].CreatedAt.After(todos[2].CreatedAt))
}

func TestUpdateTodo_Success(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	original := testutil.CreateTestTodo(t, r, "Learn Go")

	resp := testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": original.ID, "completed": true})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := testutil.DecodeRPC[models.Todo](t, resp).Result.Data
	assert.Equal(t, original.ID, updated.ID)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Learn Go", updated.Description)
	assert.True(t, original.CreatedAt.Equal(updated.CreatedAt), "created_at must not change")

	todos := testutil.DecodeRPC[[]models.Todo](t, testutil.CallRPC(t, r, "getTodos", nil)).Result.Data
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)
}

func TestUpdateTodo_BackToFalseAndIdempotent(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	todo := testutil.CreateTestTodo(t, r, "Multiple updates test")

	for _, completed := range []bool{true, true, false, false} {
		resp := testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": todo.ID, "completed": completed})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		got := testutil.DecodeRPC[models.Todo](t, resp).Result.Data
		assert.Equal(t, completed, got.Completed)
		assert.Equal(t, "Multiple updates test", got.Description)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	db, r, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	resp := testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": 99999, "completed": true})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	out := testutil.DecodeRPC[models.Todo](t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, "NOT_FOUND", out.Error.Code)
	assert.Equal(t, "Todo with id 99999 not found", out.Error.Message)

	_, err := todoRepo.FindByID(context.Background(), 99999)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound, "update must not create a record")
}

func TestUpdateTodo_InvalidInput(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	for _, payload := range []map[string]any{
		{"id": 1},
		{"completed": true},
		{"id": "one", "completed": true},
		{"id": 1, "completed": "yes"},
	} {
		resp := testutil.CallRPC(t, r, "updateTodo", payload)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "payload %v", payload)
	}
}

func TestDeleteTodo_SuccessThenNoMatch(t *testing.T) {
	db, r, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	todo := testutil.CreateTestTodo(t, r, "Todo to Delete")

	resp := testutil.CallRPC(t, r, "deleteTodo", map[string]any{"id": todo.ID})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, testutil.DecodeRPC[models.DeleteTodoResult](t, resp).Result.Data.Success)

	_, err := todoRepo.FindByID(context.Background(), todo.ID)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)

	resp = testutil.CallRPC(t, r, "deleteTodo", map[string]any{"id": todo.ID})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, testutil.DecodeRPC[models.DeleteTodoResult](t, resp).Result.Data.Success)
}

func TestNegativeIDIsTreatedAsNoMatch(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	testutil.CreateTestTodo(t, r, "Keep me")

	resp := testutil.CallRPC(t, r, "deleteTodo", map[string]any{"id": -1})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.False(t, testutil.DecodeRPC[models.DeleteTodoResult](t, resp).Result.Data.Success)

	resp = testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": -1, "completed": true})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	out := testutil.DecodeRPC[models.Todo](t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, "Todo with id -1 not found", out.Error.Message)

	todos := testutil.DecodeRPC[[]models.Todo](t, testutil.CallRPC(t, r, "getTodos", nil)).Result.Data
	assert.Len(t, todos, 1)
}

func TestDeleteTodo_DoesNotAffectOthers(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	keep1 := testutil.CreateTestTodo(t, r, "Keep me")
	victim := testutil.CreateTestTodo(t, r, "Delete me")
	keep2 := testutil.CreateTestTodo(t, r, "Keep me too")
	resp := testutil.CallRPC(t, r, "updateTodo", map[string]any{"id": keep2.ID, "completed": true})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = testutil.CallRPC(t, r, "deleteTodo", map[string]any{"id": victim.ID})
	require.Equal(t, http.StatusOK, resp.Code)

	todos := testutil.DecodeRPC[[]models.Todo](t, testutil.CallRPC(t, r, "getTodos", nil)).Result.Data
	require.Len(t, todos, 2)
	assert.Equal(t, keep1.ID, todos[0].ID)
	assert.Equal(t, "Keep me", todos[0].Description)
	assert.False(t, todos[0].Completed)
	assert.Equal(t, keep2.ID, todos[1].ID)
	assert.Equal(t, "Keep me too", todos[1].Description)
	assert.True(t, todos[1].Completed)
}

func TestGetTodos_StoreFailure(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	require.NoError(t, db.Close())

	resp := testutil.CallRPC(t, r, "getTodos", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	out := testutil.DecodeRPC[[]models.Todo](t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", out.Error.Code)
	assert.Contains(t, out.Error.Message, "database is closed")
}

// --- REST ---

func TestREST_CRUD(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body, _ := json.Marshal(models.CreateTodoInput{Description: "REST todo"})
	req, _ := http.NewRequest(http.MethodPost, "/api/todos", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req, _ = http.NewRequest(http.MethodPatch, fmt.Sprintf("/api/todos/%d", created.ID), strings.NewReader(`{"completed": true}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)

	req, _ = http.NewRequest(http.MethodGet, "/api/todos", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var todos []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos))
	assert.Len(t, todos, 1)

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/todos/%d", created.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestREST_UpdateNotFound(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	req, _ := http.NewRequest(http.MethodPatch, "/api/todos/99999", strings.NewReader(`{"completed": true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Todo with id 99999 not found")
}

func TestREST_InvalidID(t *testing.T) {
	db, r, _ := testutil.SetupTestDB(t)
	defer db.Close()

	req, _ := http.NewRequest(http.MethodDelete, "/api/todos/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
