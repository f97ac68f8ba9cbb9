package ui

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/takeoutdate/media"
)

// RenderSummary renders the final report of a fix run: counts by outcome and
// one line per file that warned or failed.
func RenderSummary(res *media.Result, dryRun bool) string {
	s := res.Summary
	var b strings.Builder

	line := fmt.Sprintf("Processed %d files: %d ok, %d warned, %d failed", s.Total, s.OK, s.Warned, s.Failed)
	switch {
	case s.Failed > 0:
		b.WriteString(ErrorStyle.Render("❌ " + line))
	case s.Warned > 0:
		b.WriteString(WarnStyle.Render("⚠️  " + line))
	default:
		b.WriteString(SuccessStyle.Render("✅ " + line))
	}
	b.WriteString("\n")

	if dryRun {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Dry run: would write %d capture tags and set %d modification times", s.TagsPlanned, s.MtimesPlanned)))
	} else {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Wrote %d capture tags, set %d modification times", s.TagsWritten, s.MtimesSet)))
	}
	b.WriteString("\n")

	for _, o := range res.Outcomes {
		switch o.Status() {
		case media.StatusFailed:
			for _, err := range o.Errors {
				b.WriteString(ErrorStyle.Render(fmt.Sprintf("  ✗ %s: %v", o.Record.FilePath, err)))
				b.WriteString("\n")
			}
		case media.StatusWarned:
			b.WriteString(WarnStyle.Render(fmt.Sprintf("  ⚠ %s: %s", o.Record.FilePath, strings.Join(o.Warnings, "; "))))
			b.WriteString("\n")
		}
	}

	return b.String()
}
