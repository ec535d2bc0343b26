package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/client"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/tui"
)

func main() {
	url := flag.String("url", "http://localhost:8080", "base URL of the todo API")
	logPath := flag.String("log", "todo-client.log", "file to write client logs to")
	flag.Parse()

	// 画面を乱さないようにログはファイルへ出力する
	f, err := tea.LogToFile(*logPath, "todo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := tui.Run(client.New(*url)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
