package tui

import (
	"math"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
)

// ローカルのリストはストアのキャッシュにすぎないため、以下の関数はすべて
// サーバーの応答を元に新しいスライスを返し、引数のスライスは変更しません。

// replaceAll は読み込み結果でリスト全体を置き換えます。
func replaceAll(loaded []models.Todo) []models.Todo {
	out := make([]models.Todo, len(loaded))
	copy(out, loaded)
	return out
}

// appendTodo は作成されたTodoを末尾に追加します。
func appendTodo(todos []models.Todo, created models.Todo) []models.Todo {
	out := make([]models.Todo, 0, len(todos)+1)
	out = append(out, todos...)
	return append(out, created)
}

// patchTodo は同じIDのTodoをサーバーの応答で置き換えます。
func patchTodo(todos []models.Todo, updated models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	for i, t := range todos {
		if t.ID == updated.ID {
			t = updated
		}
		out[i] = t
	}
	return out
}

// removeTodo は指定IDのTodoを取り除きます。
func removeTodo(todos []models.Todo, id int) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// progress は完了数、総数、完了率 (四捨五入した%) を返します。
func progress(todos []models.Todo) (done, total, percent int) {
	total = len(todos)
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	if total > 0 {
		percent = int(math.Round(float64(done) / float64(total) * 100))
	}
	return done, total, percent
}
