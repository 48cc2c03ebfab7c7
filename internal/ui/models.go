package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chuckie/llmc/internal/domain"
)

// renderModelList lays out models as aligned columns, marking current.
func renderModelList(st styles, models []domain.ModelConfig, current string) string {
	if len(models) == 0 {
		return st.dim.Render("No models configured.") + "\n"
	}

	headers := []string{"NAME", "PROVIDER", "MODEL ID", "API BASE"}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		base := m.APIBase
		if base == "" {
			base = "-"
		}
		rows = append(rows, []string{m.Name, m.Provider, m.ModelID, base})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range headers {
		b.WriteString(pad(st.header.Render(h), h, widths[i], i == len(headers)-1))
	}
	b.WriteString("\n")

	for ri, r := range rows {
		marker := "  "
		cellStyle := lipgloss.NewStyle()
		if models[ri].Name == current {
			marker = st.current.Render("*") + " "
			cellStyle = st.current
		}
		b.WriteString(marker)
		for i, c := range r {
			b.WriteString(pad(cellStyle.Render(c), c, widths[i], i == len(r)-1))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pad right-pads a rendered cell based on the width of its plain text.
func pad(rendered, plain string, width int, last bool) string {
	if last {
		return rendered
	}
	return rendered + strings.Repeat(" ", width-lipgloss.Width(plain)+2)
}
