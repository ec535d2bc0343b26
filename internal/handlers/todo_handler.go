package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/rpc"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// updateTodoBody は PATCH /api/todos/:id のリクエストボディです。
type updateTodoBody struct {
	Completed *bool `json:"completed" binding:"required"`
}

// abortWithError はRPCと同じ分類でRESTのエラーレスポンスを返します。
func abortWithError(c *gin.Context, err error) {
	rpcErr := rpc.AsError(err)
	c.JSON(rpcErr.HTTPStatus(), gin.H{"error": rpcErr.Message, "code": rpcErr.Code})
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var input models.CreateTodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	createdTodo, err := h.todoService.CreateTodo(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, toRPCError(err))
		return
	}
	c.JSON(http.StatusCreated, createdTodo)
}

// GetTodosHandler はTodoリストを作成順に取得します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	todos, err := h.todoService.GetTodos(c.Request.Context())
	if err != nil {
		abortWithError(c, toRPCError(err))
		return
	}
	c.JSON(http.StatusOK, todos)
}

// UpdateTodoHandler はTodoの完了状態を更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, rpc.Errorf(rpc.CodeBadRequest, "Invalid ID format"))
		return
	}

	var body updateTodoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	updatedTodo, err := h.todoService.UpdateTodo(c.Request.Context(), models.UpdateTodoInput{ID: id, Completed: body.Completed})
	if err != nil {
		abortWithError(c, toRPCError(err))
		return
	}
	c.JSON(http.StatusOK, updatedTodo)
}

// DeleteTodoHandler はTodoを削除します。該当が無い場合も200で {"success": false} を返します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, rpc.Errorf(rpc.CodeBadRequest, "Invalid ID format"))
		return
	}

	result, err := h.todoService.DeleteTodo(c.Request.Context(), models.DeleteTodoInput{ID: id})
	if err != nil {
		abortWithError(c, toRPCError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}
