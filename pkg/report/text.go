package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/marve/cerbero/pkg/style"
	"github.com/marve/cerbero/pkg/types"
	"github.com/pterm/pterm"
)

const actionWidth = 6

// RenderText renders r for a terminal
func RenderText(r *Report) string {
	var output strings.Builder

	header := "Merge"
	if r.DryRun {
		header += " (dry run)"
	}
	output.WriteString(style.TitleStyle.Render(header) + " " + style.PathStyle.Render(r.OutputRoot) + "\n")
	for _, in := range r.InputRoots {
		output.WriteString(style.Indent(style.MutedStyle.Render("from "+in), 1) + "\n")
	}
	output.WriteString("\n")

	for _, f := range r.Files {
		output.WriteString(style.Indent(renderFile(f), 1) + "\n")
	}

	if len(r.Missing) > 0 {
		output.WriteString("\n" + style.WarningIndicator + " " + style.Bold("Missing files") + "\n")
		output.WriteString(renderMissing(r.Missing))
	}

	if len(r.ToolFailures) > 0 {
		output.WriteString("\n" + style.ErrorIndicator + " " + style.Bold("Tool failures") + "\n")
		for _, tf := range r.ToolFailures {
			output.WriteString(style.Indent(fmt.Sprintf("%s : %s", style.PathStyle.Render(tf.RelPath), tf.Error), 1) + "\n")
		}
	}

	output.WriteString("\n" + renderSummary(r))
	return output.String()
}

// renderFile renders one file as "<action> : <path> : <outcome>"
func renderFile(f FileResult) string {
	action := style.ActionStyle(f.Action).Render(padRight(f.Action.String(), actionWidth))
	return fmt.Sprintf("%s : %s : %s", action, style.PathStyle.Render(f.RelPath), f.Outcome)
}

func renderMissing(missing []types.MissingFile) string {
	data := pterm.TableData{{"Path", "Root"}}
	for _, m := range missing {
		data = append(data, []string{m.RelPath, m.Root})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		// fall back to one line per record
		var b strings.Builder
		for _, m := range missing {
			b.WriteString(style.Indent(m.Path(), 1) + "\n")
		}
		return b.String()
	}
	return style.Indent(table, 1) + "\n"
}

func renderSummary(r *Report) string {
	var output strings.Builder
	output.WriteString(style.TitleStyle.Render("Summary") + "\n")

	counts := r.Counts()
	stats := []string{fmt.Sprintf("Total files: %d", len(r.Files))}
	for _, a := range types.Actions {
		if n := counts[a]; n > 0 {
			stats = append(stats, fmt.Sprintf("%s: %d", a, n))
		}
	}
	if len(r.Missing) > 0 {
		stats = append(stats, fmt.Sprintf("Missing: %d", len(r.Missing)))
	}
	if len(r.ToolFailures) > 0 {
		stats = append(stats, fmt.Sprintf("%s Failed: %d", style.ErrorIndicator, len(r.ToolFailures)))
	}
	if r.Duration > 0 {
		stats = append(stats, fmt.Sprintf("Duration: %s", r.Duration.Round(100*time.Millisecond)))
	}

	for _, stat := range stats {
		output.WriteString(style.Indent(stat, 1) + "\n")
	}
	return output.String()
}

// padRight pads a string to the specified width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
