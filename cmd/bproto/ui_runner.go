package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bproto/internal/driver"
	"bproto/internal/ui"
)

type compileOutcome struct {
	result *driver.Result
	err    error
}

func runCompileWithUI(ctx context.Context, title string, files []string, inputs []driver.Input, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, inputs, opts)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
