package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/config"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/database"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/repositories"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/routes"
)

// SetupTestDB はテスト用のデータベース接続を確立し、テーブルを作成します。
// テストごとに t.TempDir() 配下の新しい SQLite ファイルを使うため、常にクリーンな状態から始まります。
func SetupTestDB(t *testing.T) (*database.DB, *gin.Engine, *repositories.TodoRepository) {
	t.Helper()

	cfg := &config.Config{
		DBDriver:   "sqlite3",
		SQLitePath: filepath.Join(t.TempDir(), "todos_test.db"),
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("Failed to create todos table: %v", err)
	}

	// Ginルーターのセットアップ
	router := SetupTestRouter(t, db)
	todoRepo := repositories.NewTodoRepository(db)

	return db, router, todoRepo
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *database.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db, []string{"http://localhost:3000"})
}

// CallRPC は /trpc/<procedure> を呼び出し、レスポンスレコーダーを返します。
// input が nil の場合、GET としてクエリを呼び出します。
func CallRPC(t *testing.T, router *gin.Engine, procedure string, input any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if input == nil {
		req, _ = http.NewRequest(http.MethodGet, "/trpc/"+procedure, nil)
	} else {
		body, err := json.Marshal(input)
		require.NoError(t, err)
		req, _ = http.NewRequest(http.MethodPost, "/trpc/"+procedure, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// RPCResponse はテストでレスポンスをデコードするためのエンベロープです。
type RPCResponse[T any] struct {
	Result *struct {
		Data T `json:"data"`
	} `json:"result"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeRPC はレスポンスボディを RPCResponse[T] にデコードします。
func DecodeRPC[T any](t *testing.T, resp *httptest.ResponseRecorder) RPCResponse[T] {
	t.Helper()
	var out RPCResponse[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

// CreateTestTodo はRPC経由でテスト用のTODOを作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, description string) *models.Todo {
	t.Helper()

	resp := CallRPC(t, router, "createTodo", map[string]any{"description": description})
	require.Equal(t, http.StatusOK, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	out := DecodeRPC[models.Todo](t, resp)
	require.NotNil(t, out.Result)
	return &out.Result.Data
}
