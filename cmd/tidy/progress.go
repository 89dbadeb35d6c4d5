package main

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tidy/internal/runner"
)

// progressView renders job progress on stderr when it is a terminal.
type progressView struct {
	bar *progressbar.ProgressBar
}

func newProgressView(cmd *cobra.Command, description string, enabled bool) *progressView {
	if !enabled || !shouldColorize(cmd.ErrOrStderr()) {
		return &progressView{}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return &progressView{bar: bar}
}

// follow drains job events until the terminal event.
func (p *progressView) follow(events <-chan runner.Event) {
	for ev := range events {
		if ev.Kind != runner.EventProgress || p.bar == nil {
			continue
		}
		_ = p.bar.Set(ev.Percent)
	}
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
