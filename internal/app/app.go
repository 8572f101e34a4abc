package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fetchlab/fetchlab/internal/catapi"
	"github.com/fetchlab/fetchlab/internal/config"
	"github.com/fetchlab/fetchlab/internal/prefs"
	"github.com/fetchlab/fetchlab/internal/ui"
)

// Options configure the fetchlab application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fetchlab/prefs.toml
	Endpoint   string // overrides the configured API endpoint
}

// Run boots the fetchlab TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Endpoint != "" {
		cfg.APIURL = opts.Endpoint
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := catapi.NewClient(cfg.APIURL, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	client.SetTimeout(cfg.RequestTimeout)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	uiOpts := ui.Options{
		Context:       ctx,
		Pages:         ui.NewPages(client, cfg),
		ThemeName:     userPrefs.Theme,
		PrefsPath:     prefsPath,
		StartPage:     userPrefs.LastPage,
		TranscriptDir: config.TranscriptDir(),
	}
	if err := ui.Run(uiOpts); err != nil {
		// A cancelled context kills the program from outside; that is a
		// clean shutdown, not a failure.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
