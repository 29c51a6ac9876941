package report

import (
	"astral/internal/engine/rules"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type textStyles struct {
	path    lipgloss.Style
	line    lipgloss.Style
	rule    lipgloss.Style
	problem lipgloss.Style
	success lipgloss.Style
}

// newTextStyles binds styles to w so color is dropped automatically when w is
// not a terminal.
func newTextStyles(w io.Writer, color bool) textStyles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return textStyles{path: plain, line: plain, rule: plain, problem: plain, success: plain}
	}
	return textStyles{
		path:    r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		line:    r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		rule:    r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		problem: r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// writeText groups diagnostics by file, keeping the evaluation order.
func writeText(w io.Writer, opts Options, result rules.EvaluationResult) error {
	st := newTextStyles(w, opts.Color)
	var b strings.Builder

	if len(result.Diagnostics) == 0 {
		fmt.Fprintf(&b, "%s\n", st.success.Render(fmt.Sprintf("✔ No problems found (%s)", plural(result.Evaluated, "unit"))))
		_, err := io.WriteString(w, b.String())
		return err
	}

	lineWidth := 1
	for _, d := range result.Diagnostics {
		lineWidth = max(lineWidth, len(fmt.Sprint(d.Line)))
	}

	files := 0
	current := ""
	for i, d := range result.Diagnostics {
		if i == 0 || d.Path != current {
			if i > 0 {
				b.WriteByte('\n')
			}
			current = d.Path
			files++
			b.WriteString(st.path.Render(displayPath(d.Path)))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			st.line.Render(fmt.Sprintf("%*d", lineWidth, d.Line)),
			st.rule.Render(d.Rule),
			d.Message)
	}

	b.WriteByte('\n')
	b.WriteString(st.problem.Render(fmt.Sprintf("✖ %s in %s", plural(len(result.Diagnostics), "problem"), plural(files, "file"))))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func displayPath(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
