package build

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itsmostafa/userdocs/internal/tagindex"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// warnStyle for pages that could not be fixed
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	// tagStyle for tag names in the tag table
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

// FormatReport renders the build summary box
func FormatReport(w io.Writer, r *Report) {
	var status string
	switch {
	case len(r.Stale) > 0:
		status = errorStyle.Render("STALE")
	case len(r.Unfixed) > 0:
		status = warnStyle.Render("PARTIAL")
	default:
		status = successStyle.Render("OK")
	}

	line1 := fmt.Sprintf("%s %s  %s %s  %s %s",
		dimStyle.Render("Files:"), formatNumber(r.Files),
		dimStyle.Render("Documented:"), formatNumber(r.Documented),
		dimStyle.Render("Tags:"), formatNumber(r.Tags),
	)
	line2 := fmt.Sprintf("%s %s  %s %s of %s  %s %.1fs  %s",
		dimStyle.Render("Pages:"), formatNumber(r.Pages),
		dimStyle.Render("Indices:"), formatNumber(r.Indices), formatNumber(r.Combinations),
		dimStyle.Render("Duration:"), r.Duration.Seconds(),
		status,
	)

	content := titleStyle.Render("Build Complete") + "\n" + line1 + "\n" + line2
	if len(r.Unfixed) > 0 {
		content += "\n" + dimStyle.Render("Unfixed:") + " " + warnStyle.Render(strings.Join(r.Unfixed, ", "))
	}
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatStale prints one entry per out-of-date file with its diff
func FormatStale(w io.Writer, stale []Stale) {
	for _, s := range stale {
		if s.Missing {
			fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("✗"), s.Name, dimStyle.Render("(missing)"))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), s.Name)
		for _, line := range strings.SplitAfter(s.Diff, "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
				fmt.Fprint(w, dimStyle.Render(strings.TrimSuffix(line, "\n")))
			case strings.HasPrefix(line, "+"):
				fmt.Fprint(w, successStyle.Render(strings.TrimSuffix(line, "\n")))
			case strings.HasPrefix(line, "-"):
				fmt.Fprint(w, errorStyle.Render(strings.TrimSuffix(line, "\n")))
			default:
				fmt.Fprint(w, strings.TrimSuffix(line, "\n"))
			}
			if strings.HasSuffix(line, "\n") {
				fmt.Fprintln(w)
			}
		}
	}
}

// FormatTags renders the tag table, most used tags first
func FormatTags(w io.Writer, idx *tagindex.Index) {
	m := idx.Map()
	tags := idx.Tags()
	sortByCount(tags, m)

	width := 0
	for _, t := range tags {
		width = max(width, lipgloss.Width(t))
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d tags in %d files", len(tags), len(idx.Files()))))
	for _, t := range tags {
		name := tagStyle.Render(t + strings.Repeat(" ", width-lipgloss.Width(t)))
		fmt.Fprintf(w, "%s  %s %s\n", name,
			dimStyle.Render(fmt.Sprintf("%4s", formatNumber(len(m[t])))),
			dimStyle.Render(strings.Join(m[t], ", ")),
		)
	}
}

func sortByCount(tags []string, m map[string][]string) {
	sort.Slice(tags, func(i, j int) bool {
		if len(m[tags[i]]) != len(m[tags[j]]) {
			return len(m[tags[i]]) > len(m[tags[j]])
		}
		return tags[i] < tags[j]
	})
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
