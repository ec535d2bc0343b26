// Package modelsはTodoとRPCの入出力型を定義します。
package models

import (
	"time"
)

// MaxDescriptionLength はdescriptionの最大文字数 (rune数) です。
const MaxDescriptionLength = 500

// Todo は todos テーブルの1行を表します。
// id と created_at はストアが採番・設定するため、クライアントから受け取ることはありません。
type Todo struct {
	ID          int       `json:"id"`          // 主キー (自動採番)
	Description string    `json:"description"` // タスクの内容 (作成後は変更不可)
	Completed   bool      `json:"completed"`   // 完了状態 (唯一変更可能なフィールド)
	CreatedAt   time.Time `json:"created_at"`  // 作成日時 (ストアが設定)
}

// CreateTodoInput は createTodo の入力です。
// 文字数の上限は前後の空白を除いた後にサービス層で検証します。
type CreateTodoInput struct {
	Description string `json:"description" binding:"required"`
}

// UpdateTodoInput は updateTodo の入力です。
// 💡 Completed をポインタにしているのは、false を「未指定」と区別するためです。
type UpdateTodoInput struct {
	ID        int   `json:"id" binding:"required"`
	Completed *bool `json:"completed" binding:"required"`
}

// DeleteTodoInput は deleteTodo の入力です。
// 存在しないIDは負数も含めて Success=false になります。
type DeleteTodoInput struct {
	ID int `json:"id" binding:"required"`
}

// DeleteTodoResult は deleteTodo の結果です。該当行が無い場合は Success=false になります。
type DeleteTodoResult struct {
	Success bool `json:"success"`
}
