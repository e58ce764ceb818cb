package cmd

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/velstream/recurly-export-cli/internal/adapters/render/progress"
	"github.com/velstream/recurly-export-cli/internal/application"
)

type exportDoneMsg struct {
	result application.Result
	err    error
}

type exportProgressModel struct {
	progress.Model
	result application.Result
}

func (m exportProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(exportDoneMsg); ok {
		m.result = done.result
		inner, cmd := m.Model.Update(progress.DoneMsg{Err: done.err})
		m.Model = inner.(progress.Model)
		return m, cmd
	}

	inner, cmd := m.Model.Update(msg)
	m.Model = inner.(progress.Model)
	return m, cmd
}

// runExportWithProgress drives the export underneath a live progress display.
// Interrupts cancel ctx, which the exporter observes; the display quits only
// once the exporter has flushed and returned.
func runExportWithProgress(
	ctx context.Context,
	output io.Writer,
	exporter *application.Exporter,
	opts application.Options,
	verbose bool,
) (application.Result, error) {
	var p *tea.Program

	opts.OnProgress = func(update application.Progress) {
		p.Send(progress.TickMsg(update))
	}

	runCmd := func() tea.Msg {
		result, err := exporter.Export(ctx, opts)
		return exportDoneMsg{result: result, err: err}
	}

	p = tea.NewProgram(
		exportProgressModel{Model: progress.NewModel(runCmd, verbose)},
		tea.WithInput(nil),
		tea.WithOutput(output),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.Result{}, err
	}

	final, ok := finalModel.(exportProgressModel)
	if !ok {
		return application.Result{}, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return final.result, final.Err()
}
