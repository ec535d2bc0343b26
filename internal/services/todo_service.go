package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/repositories"
)

// ErrInvalidInput は入力がバリデーションに失敗した場合のエラーです。
// ストアにアクセスする前に返されます。
var ErrInvalidInput = errors.New("invalid input")

// TodoStore は TodoService が使用するデータアクセス操作です。
type TodoStore interface {
	Create(ctx context.Context, description string) (*models.Todo, error)
	FindAll(ctx context.Context) ([]*models.Todo, error)
	UpdateCompleted(ctx context.Context, id int, completed bool) (*models.Todo, error)
	Delete(ctx context.Context, id int) (bool, error)
}

var _ TodoStore = (*repositories.TodoRepository)(nil)

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo TodoStore
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo TodoStore) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// CreateTodo は新しいTodoを作成します。descriptionは前後の空白を除いて保存されます。
func (s *TodoService) CreateTodo(ctx context.Context, input models.CreateTodoInput) (*models.Todo, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(description); n > models.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description must be at most %d characters, got %d",
			ErrInvalidInput, models.MaxDescriptionLength, n)
	}
	return s.todoRepo.Create(ctx, description)
}

// GetTodos はすべてのTodoを作成順に取得します。
func (s *TodoService) GetTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.todoRepo.FindAll(ctx)
}

// UpdateTodo はTodoの完了状態を更新します。
// 該当IDが存在しない場合は *repositories.TodoNotFoundError を返します。
func (s *TodoService) UpdateTodo(ctx context.Context, input models.UpdateTodoInput) (*models.Todo, error) {
	if input.Completed == nil {
		return nil, fmt.Errorf("%w: completed is required", ErrInvalidInput)
	}
	return s.todoRepo.UpdateCompleted(ctx, input.ID, *input.Completed)
}

// DeleteTodo はTodoを削除します。該当行が無い場合はエラーではなく Success=false を返します。
func (s *TodoService) DeleteTodo(ctx context.Context, input models.DeleteTodoInput) (*models.DeleteTodoResult, error) {
	deleted, err := s.todoRepo.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &models.DeleteTodoResult{Success: deleted}, nil
}
