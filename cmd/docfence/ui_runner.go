package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"docfence/internal/driver"
	"docfence/internal/ui"
)

// runWithUI runs the driver while a Bubble Tea program renders its events.
// The driver owns the event channel and closes it when done, which ends the UI;
// quitting the UI first cancels the run.
func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Summary, error) {
	events := make(chan driver.Event, 256)
	opts.Progress = driver.ChannelSink{Ch: events}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var summary *driver.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		var err error
		summary, err = driver.Run(gctx, opts)
		return err
	})

	model := ui.NewProgressModel(title, opts.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог завершиться раньше драйвера (ctrl+c): останавливаем его и дочитываем события
	cancel()
	go func() {
		for range events {
		}
	}()

	runErr := g.Wait()
	if runErr != nil {
		return summary, runErr
	}
	return summary, uiErr
}
