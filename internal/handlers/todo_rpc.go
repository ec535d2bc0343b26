package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/rpc"
)

// RegisterProcedures はTodoの4つのプロシージャを rpc.Router に登録します。
func (h *TodoHandler) RegisterProcedures(r *rpc.Router) {
	r.Query("getTodos", h.GetTodos)
	r.Mutation("createTodo", h.CreateTodo)
	r.Mutation("updateTodo", h.UpdateTodo)
	r.Mutation("deleteTodo", h.DeleteTodo)
}

// CreateTodo は createTodo プロシージャです。
func (h *TodoHandler) CreateTodo(c *gin.Context) (any, error) {
	var input models.CreateTodoInput
	if err := rpc.BindInput(c, &input); err != nil {
		return nil, bindError(err)
	}
	todo, err := h.todoService.CreateTodo(c.Request.Context(), input)
	if err != nil {
		return nil, toRPCError(err)
	}
	return todo, nil
}

// GetTodos は getTodos プロシージャです。
func (h *TodoHandler) GetTodos(c *gin.Context) (any, error) {
	todos, err := h.todoService.GetTodos(c.Request.Context())
	if err != nil {
		return nil, toRPCError(err)
	}
	return todos, nil
}

// UpdateTodo は updateTodo プロシージャです。
func (h *TodoHandler) UpdateTodo(c *gin.Context) (any, error) {
	var input models.UpdateTodoInput
	if err := rpc.BindInput(c, &input); err != nil {
		return nil, bindError(err)
	}
	todo, err := h.todoService.UpdateTodo(c.Request.Context(), input)
	if err != nil {
		return nil, toRPCError(err)
	}
	return todo, nil
}

// DeleteTodo は deleteTodo プロシージャです。
func (h *TodoHandler) DeleteTodo(c *gin.Context) (any, error) {
	var input models.DeleteTodoInput
	if err := rpc.BindInput(c, &input); err != nil {
		return nil, bindError(err)
	}
	result, err := h.todoService.DeleteTodo(c.Request.Context(), input)
	if err != nil {
		return nil, toRPCError(err)
	}
	return result, nil
}
