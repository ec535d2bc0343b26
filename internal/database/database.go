package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/config"
)

// DB は *sql.DB に Dialect を付加したものです。
type DB struct {
	*sql.DB
	Dialect Dialect
}

// GetDSN は設定からドライバ用の接続文字列 (DSN) を構築します。
func GetDSN(cfg *config.Config) (string, error) {
	switch cfg.DBDriver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, portOr(cfg.DBPort, "3306"))
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:     net.JoinHostPort(cfg.DBHost, portOr(cfg.DBPort, "5432")),
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	case "sqlite3":
		return cfg.SQLitePath + "?_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Open はデータベース接続を初期化し、Ping で疎通を確認します。
func Open(cfg *config.Config) (*DB, error) {
	dialect, err := DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	dsn, err := GetDSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if dialect.Driver == "sqlite3" {
		// SQLite は書き込みが単一接続に限られる
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Printf("Successfully connected to %s database!", dialect.Driver)
	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate は todos テーブルを作成します (既に存在する場合は何もしません)。
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, db.Dialect.createTodosTable); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}
	return nil
}

func portOr(port, fallback string) string {
	if port == "" {
		return fallback
	}
	return port
}
