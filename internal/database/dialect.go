package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect はドライバごとの SQL の差異をまとめたものです。
type Dialect struct {
	Driver string

	// InsertReturning が true の場合、LastInsertId の代わりに RETURNING id で採番値を取得します。
	InsertReturning bool

	createTodosTable string
	dollarBindvars   bool
}

var dialects = map[string]Dialect{
	"mysql": {
		Driver: "mysql",
		createTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id INT AUTO_INCREMENT PRIMARY KEY,
				description TEXT NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
			);`,
	},
	"postgres": {
		Driver:          "postgres",
		InsertReturning: true,
		dollarBindvars:  true,
		createTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id SERIAL PRIMARY KEY,
				description TEXT NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);`,
	},
	"sqlite3": {
		Driver: "sqlite3",
		createTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				description TEXT NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
			);`,
	},
}

// DialectFor はドライバ名に対応する Dialect を返します。
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// Rebind は ? プレースホルダをドライバの形式に変換します。
func (d Dialect) Rebind(query string) string {
	if !d.dollarBindvars {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
