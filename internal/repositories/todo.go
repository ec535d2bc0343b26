// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/database"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
)

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

// TodoNotFoundError は見つからなかったTODOのIDを保持するエラーです。
// errors.Is(err, ErrTodoNotFound) で判定できます。
type TodoNotFoundError struct {
	ID int
}

func (e *TodoNotFoundError) Error() string {
	return fmt.Sprintf("Todo with id %d not found", e.ID)
}

func (e *TodoNotFoundError) Is(target error) bool {
	return target == ErrTodoNotFound
}

const selectTodoColumns = "SELECT id, description, completed, created_at FROM todos"

// TodoRepository はtodosテーブルへの操作を行うための構造体です。
type TodoRepository struct {
	DB *database.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *database.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// Create は新しいTodoタスクをデータベースに挿入し、ストアが設定した値を含む行を返します。
// id と created_at はストアが採番・設定します。
func (r *TodoRepository) Create(ctx context.Context, description string) (*models.Todo, error) {
	query := "INSERT INTO todos (description, completed) VALUES (?, ?)"

	id, err := r.insert(ctx, query, description, false)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	// created_at はDBのデフォルト値なので、挿入した行を読み直して返す
	return r.FindByID(ctx, id)
}

func (r *TodoRepository) insert(ctx context.Context, query string, args ...any) (int, error) {
	d := r.DB.Dialect
	if d.InsertReturning {
		var id int
		if err := r.DB.QueryRowContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := r.DB.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return int(id), nil
}

// FindAll はすべてのTodoタスクを作成日時の昇順 (挿入順) で取得します。
// 0件の場合は空のスライスを返します。
func (r *TodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	query := selectTodoColumns + " ORDER BY created_at ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// FindByID は指定されたIDのTodoタスクを取得します。
func (r *TodoRepository) FindByID(ctx context.Context, id int) (*models.Todo, error) {
	query := r.DB.Dialect.Rebind(selectTodoColumns + " WHERE id = ?")

	var t models.Todo
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &TodoNotFoundError{ID: id}
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}

	return &t, nil
}

// UpdateCompleted は指定されたIDのTodoタスクの完了状態のみを更新し、更新後の行を返します。
// 存在確認は SELECT で行います (MySQL は値が変わらない UPDATE の影響行数を 0 と報告するため)。
func (r *TodoRepository) UpdateCompleted(ctx context.Context, id int, completed bool) (*models.Todo, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	query := r.DB.Dialect.Rebind("UPDATE todos SET completed = ? WHERE id = ?")
	if _, err := r.DB.ExecContext(ctx, query, completed, id); err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	// 更新されたTODOを取得して返す (その間に削除されていれば NotFound になる)
	return r.FindByID(ctx, id)
}

// Delete は指定されたIDのTodoタスクを削除します。
// 行が削除された場合は true、該当行が無かった場合は false を返します。
func (r *TodoRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := r.DB.Dialect.Rebind("DELETE FROM todos WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return false, fmt.Errorf("could not delete todo: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
