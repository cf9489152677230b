package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/fbdash/internal/dashboard"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/preview"
)

// previewCommand runs the terminal preview until the user quits.
func previewCommand(ctx context.Context, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Anything written to stderr would tear the alt screen.
	log := logger.Noop()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	src := dashboard.NewSources(cfg.Series, nil, log)
	src.Start(ctx)
	defer src.Stop()

	d := dashboard.New(src, dashboardOptions(cfg, log)...)
	model := preview.New(d, cfg.Display.Width, cfg.Display.Height, interval)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
