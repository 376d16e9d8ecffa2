// cmd/arena/main.go
package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/config"
	"github.com/jdai1/codenames/internal/engineclient"
	"github.com/jdai1/codenames/internal/session"
	"github.com/jdai1/codenames/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logrus.SetLevel(cfg.LogLevel)
	// The TUI owns the terminal, so logs go to a file instead of stderr.
	if logFile, err := os.OpenFile("codenames.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		defer logFile.Close()
		logrus.SetOutput(logFile)
	}
	logrus.WithField("client", cfg.ClientID).Infof("starting against %s (seats %s)", cfg.EngineURL, cfg.Seats)

	// No client-wide timeout: AI turn streams stay open as long as the
	// engine needs. Plain calls get per-call deadlines from the UI.
	engine := engineclient.New(cfg.EngineURL, &http.Client{})
	sess := session.New(engine, cfg.Seats, cfg.NOperatives)

	prog := tea.NewProgram(ui.New(sess, cfg), tea.WithAltScreen())
	sess.OnUpdate = func() { prog.Send(ui.RefreshMsg{}) }

	if _, err := prog.Run(); err != nil {
		logrus.Errorf("ui exited: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
