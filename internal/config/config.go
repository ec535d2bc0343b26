// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config はサーバーの設定値です。
type Config struct {
	DBDriver   string // mysql / postgres / sqlite3
	DBUser     string
	DBPass     string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	Port         string
	AllowOrigins []string
}

// Load は .env を読み込んだうえで環境変数から Config を構築します。
// .env が存在しない場合は環境変数のみを使用します。
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("No .env file loaded, using process environment: %v", err)
	}
	return FromEnv()
}

// FromEnv は現在のプロセス環境変数から Config を構築します。
func FromEnv() *Config {
	return &Config{
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBPort:       os.Getenv("DB_PORT"),
		DBName:       os.Getenv("DB_NAME"),
		SQLitePath:   getEnv("SQLITE_PATH", "todos.db"),
		Port:         getEnv("PORT", "8080"),
		AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
	}
}

// Addr は gin.Engine.Run に渡すリッスンアドレスを返します。
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
