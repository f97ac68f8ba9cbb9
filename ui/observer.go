package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/takeoutdate/media"
	"github.com/schollz/progressbar/v3"
)

// TUIObserver forwards batch progress to a running bubbletea program.
type TUIObserver struct {
	send func(tea.Msg)
}

// NewTUIObserver creates an observer that sends to p.
func NewTUIObserver(p *tea.Program) *TUIObserver {
	return &TUIObserver{send: p.Send}
}

func (o *TUIObserver) OnDiscovered(records []media.MediaFileRecord) {
	o.send(DiscoveredMsg{Total: len(records)})
}

func (o *TUIObserver) OnFileDone(done, total int, outcome media.Outcome) {
	o.send(FileDoneMsg{Done: done, Total: total, Outcome: outcome})
}

// BarObserver draws a plain progress bar, for terminals where the full TUI
// is not wanted.
type BarObserver struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func NewBarObserver(w io.Writer, description string) *BarObserver {
	return &BarObserver{w: w, description: description}
}

func (o *BarObserver) OnDiscovered(records []media.MediaFileRecord) {
	o.bar = progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(o.w),
		progressbar.OptionSetDescription(o.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (o *BarObserver) OnFileDone(int, int, media.Outcome) {
	if o.bar != nil {
		_ = o.bar.Add(1)
	}
}

// Finish completes and clears the bar.
func (o *BarObserver) Finish() {
	if o.bar != nil {
		_ = o.bar.Finish()
	}
}
