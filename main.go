package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"intelliagent-terminal/internal/backend"
	"intelliagent-terminal/internal/config"
	"intelliagent-terminal/internal/history"
	"intelliagent-terminal/internal/logging"
	"intelliagent-terminal/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	configDir, err := config.GetConfigDir()
	if err != nil {
		log.Fatalf("Failed to get config directory: %v", err)
	}

	if err := logging.InitLogger(filepath.Join(configDir, "logs")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Starting with backend %s", cfg.Backend.BaseURL)

	// History is optional; the client works without it
	var store history.Store
	if cfg.History.Enabled {
		dbPath := filepath.Join(configDir, "history")
		if err := os.MkdirAll(dbPath, 0755); err != nil {
			log.Fatalf("Failed to create history directory: %v", err)
		}

		badgerStore, err := history.NewBadgerStore(dbPath, cfg.History.MaxEntries)
		if err != nil {
			logging.Error("Upload history disabled: %v", err)
		} else {
			store = badgerStore
			defer badgerStore.Close()
		}
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout)

	model := ui.NewClientModel(client, store, ui.Options{
		Greeting:        cfg.Chat.Greeting,
		ScrollThreshold: cfg.Chat.ScrollThreshold,
		ScrollStep:      cfg.Chat.ScrollStep,
		HistoryLimit:    cfg.History.MaxEntries,
	}, 80, 24)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logging.Error("Program exited with error: %v", err)
		log.Fatalf("Error running program: %v", err)
	}
}
