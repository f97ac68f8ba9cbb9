package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/takeoutdate/media"
)

// File log entry for the processed files list
type FileLogEntry struct {
	Path   string
	Status media.Status
	Detail string
}

func (f FileLogEntry) FilterValue() string { return f.Path }
func (f FileLogEntry) Title() string       { return filepath.Base(f.Path) }
func (f FileLogEntry) Description() string {
	switch f.Status {
	case media.StatusFailed:
		return fmt.Sprintf("❌ %s", f.Detail)
	case media.StatusWarned:
		return fmt.Sprintf("⚠️  %s", f.Detail)
	default:
		return fmt.Sprintf("✓ %s", f.Detail)
	}
}

// NewFileLogEntry describes one outcome for the file list.
func NewFileLogEntry(o media.Outcome) FileLogEntry {
	entry := FileLogEntry{Path: o.Record.FilePath, Status: o.Status()}

	switch {
	case len(o.Errors) > 0:
		entry.Detail = o.Err().Error()
	case len(o.Warnings) > 0:
		entry.Detail = strings.Join(o.Warnings, "; ")
	default:
		entry.Detail = fmt.Sprintf("%s from %s", o.Resolved.Timestamp.UTC().Format("2006-01-02 15:04:05"), o.Resolved.Source)
		if o.Tag == media.ActionDone || o.Tag == media.ActionPlanned {
			entry.Detail += ", tag " + string(o.Tag)
		}
	}
	return entry
}

// ProgressModel shows the progress of a fix run.
type ProgressModel struct {
	// Application state
	root      string
	total     int
	processed int
	ok        int
	warned    int
	failed    int
	entries   []FileLogEntry
	err       error

	// UI components
	overallProgress progress.Model
	fileList        list.Model

	// Layout
	width  int
	height int

	// Control state
	finished bool
	quitting bool

	// Version for display
	Version string
}

// NewProgressModel creates a new TUI model
func NewProgressModel(root, version string) ProgressModel {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Processed Files"

	return ProgressModel{
		root:            root,
		overallProgress: progress.New(progress.WithDefaultGradient()),
		fileList:        fileList,
		Version:         version,
	}
}

// Quitting reports whether the user asked to stop before the run finished.
func (m ProgressModel) Quitting() bool { return m.quitting }

// Init implements tea.Model
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.finished {
				m.quitting = true
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetSize(msg.Width-4, msg.Height/2)

	case DiscoveredMsg:
		m.total = msg.Total

	case FileDoneMsg:
		m.processed = msg.Done
		m.total = msg.Total
		switch msg.Outcome.Status() {
		case media.StatusOK:
			m.ok++
		case media.StatusWarned:
			m.warned++
		case media.StatusFailed:
			m.failed++
		}

		m.entries = append(m.entries, NewFileLogEntry(msg.Outcome))
		items := make([]list.Item, len(m.entries))
		for i, entry := range m.entries {
			items[i] = entry
		}
		cmd := m.fileList.SetItems(items)
		return m, cmd

	case RunFinishedMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m ProgressModel) View() string {
	if m.quitting {
		return "Stopping after the files in progress...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("takeoutdate %s", m.Version))

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	overallView := fmt.Sprintf("%s\nProgress: %s (%d/%d)",
		InfoStyle.Render(m.root),
		m.overallProgress.ViewAs(percent),
		m.processed,
		m.total)

	counts := fmt.Sprintf("%s  %s  %s",
		SuccessStyle.Render(fmt.Sprintf("✓ %d", m.ok)),
		WarnStyle.Render(fmt.Sprintf("⚠ %d", m.warned)),
		ErrorStyle.Render(fmt.Sprintf("✗ %d", m.failed)))

	sections := []string{header, overallView, counts}
	if len(m.entries) > 0 {
		sections = append(sections, m.fileList.View())
	}
	sections = append(sections, DimStyle.Render("Controls: [q] Quit"))

	return strings.Join(sections, "\n\n")
}
