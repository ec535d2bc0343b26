// Package client はTodo RPC API のHTTPクライアントです。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/rpc"
)

// Client は /trpc エンドポイントを呼び出します。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New は baseURL (例: http://localhost:8080) に接続する Client を作成します。
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient は使用する *http.Client を差し替えます。
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error *rpc.Error `json:"error"`
}

// GetTodos はすべてのTodoを取得します。
func (c *Client) GetTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.query(ctx, "getTodos", &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// CreateTodo はTodoを作成し、ストアが返したレコードを返します。
func (c *Client) CreateTodo(ctx context.Context, description string) (models.Todo, error) {
	var todo models.Todo
	err := c.mutate(ctx, "createTodo", models.CreateTodoInput{Description: description}, &todo)
	return todo, err
}

// UpdateTodo はTodoの完了状態を更新し、更新後のレコードを返します。
func (c *Client) UpdateTodo(ctx context.Context, id int, completed bool) (models.Todo, error) {
	var todo models.Todo
	err := c.mutate(ctx, "updateTodo", models.UpdateTodoInput{ID: id, Completed: &completed}, &todo)
	return todo, err
}

// DeleteTodo はTodoを削除します。該当が無い場合は Success=false が返ります。
func (c *Client) DeleteTodo(ctx context.Context, id int) (models.DeleteTodoResult, error) {
	var result models.DeleteTodoResult
	err := c.mutate(ctx, "deleteTodo", models.DeleteTodoInput{ID: id}, &result)
	return result, err
}

func (c *Client) query(ctx context.Context, procedure string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trpc/"+url.PathEscape(procedure), nil)
	if err != nil {
		return err
	}
	return c.do(req, procedure, out)
}

func (c *Client) mutate(ctx context.Context, procedure string, input, out any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("could not encode %s input: %w", procedure, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/trpc/"+url.PathEscape(procedure), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, procedure, out)
}

// do はリクエストを送信し、result.data を out にデコードします。
// サーバーがエラーを返した場合は *rpc.Error を返します。
func (c *Client) do(req *http.Request, procedure string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", procedure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: could not read response: %w", procedure, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: unexpected response (status %d): %w", procedure, resp.StatusCode, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if env.Result == nil {
		return fmt.Errorf("%s: response has neither result nor error (status %d)", procedure, resp.StatusCode)
	}
	if err := json.Unmarshal(env.Result.Data, out); err != nil {
		return fmt.Errorf("%s: could not decode result: %w", procedure, err)
	}
	return nil
}
