package report

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// DefaultWidth is the width reports are rendered at when none is given.
const DefaultWidth = 80

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// Summary returns a single line describing r.
func (r *Report) Summary() string {
	name := r.Ruleset
	if name == "" {
		name = r.Dir
	}
	return fmt.Sprintf("%s  %s  %q  v%d  %d warning(s)", r.ID, r.Created.Format("2006-01-02 15:04:05"), name, r.Version, len(r.Warnings))
}

// CountsTable returns the record counts of r as a text table.
func (r *Report) CountsTable(width int) string {
	data := [][]string{{"Records", "Count"}}
	for _, k := range r.CountNames() {
		data = append(data, []string{k, fmt.Sprintf("%d", r.Counts[k])})
	}
	return rosed.Edit("").InsertTableOpts(0, data, width, tableOpts).String()
}

// RenderWarnings returns the warnings of the given categories as wrapped
// bullet lists, one list per category. If no categories are given, all of
// them are included.
func (r *Report) RenderWarnings(width int, cats ...Category) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if len(cats) == 0 {
		cats = Categories()
	}

	var sb strings.Builder
	for _, cat := range cats {
		ws := r.Of(cat)
		if len(ws) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s (%d):\n", cat, len(ws)))
		for _, w := range ws {
			sb.WriteString(bullet(w.Message, width))
		}
	}
	return sb.String()
}

func bullet(msg string, width int) string {
	wrapped := rosed.Edit(msg).Wrap(width - 4).String()
	lines := strings.Split(wrapped, "\n")

	var sb strings.Builder
	for i, line := range lines {
		if i == 0 {
			sb.WriteString("  - ")
		} else {
			sb.WriteString("    ")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render returns the full text of r laid out for the given width.
func (r *Report) Render(width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	name := r.Ruleset
	if name == "" {
		name = "(unnamed)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ruleset:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Directory:   %s\n", r.Dir))
	mode := ""
	if r.CompatMode {
		mode = " (compat mode)"
	}
	sb.WriteString(fmt.Sprintf("Format:      %d%s\n", r.Version, mode))
	sb.WriteString(fmt.Sprintf("Fingerprint: %s\n", r.Fingerprint))
	sb.WriteString(fmt.Sprintf("Report:      %s\n", r.ID))
	sb.WriteString("\n")
	sb.WriteString(r.CountsTable(width))
	sb.WriteString("\n")

	tally := r.Tally()
	if len(tally) == 0 {
		sb.WriteString("\nNo warnings.\n")
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(r.RenderWarnings(width))
	return sb.String()
}
