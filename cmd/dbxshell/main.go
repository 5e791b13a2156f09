// dbxshell is an interactive shell for running SQL against a Databricks
// SQL warehouse and binding results to named variables.
//
// Configuration (env vars):
//
//	DATABRICKS_HOST       workspace host (or DATABRICKS_SERVER_HOSTNAME)
//	DATABRICKS_HTTP_PATH  warehouse HTTP path
//
// Fields not found in the environment are read from
// ~/.databricks/config.json.
//
// Usage:
//
//	go run ./cmd/dbxshell
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/dbxshell/config"
	"github.com/bawdo/dbxshell/warehouse"
)

const mainPrompt = "dbxshell> "

func main() {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          mainPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	cfg := config.Load(os.Stderr)
	mgr := warehouse.NewManager(cfg.Endpoint, os.Stdout)
	sess := NewSession(cfg, mgr, rl)

	// Set up the completer now that we have a session.
	comp := &shellCompleter{sess: sess}
	_ = rl.SetConfig(&readline.Config{
		Prompt:          mainPrompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    comp,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	fmt.Println()
	fmt.Println("dbxshell — type 'help' for commands, 'exit' to quit")
	fmt.Println()

	rl.SetPrompt(mainPrompt)
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}

	if err := sess.runner.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "  close: %v\n", err)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dbxshell_history")
}
