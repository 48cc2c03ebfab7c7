package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chuckie/llmc/internal/domain"
)

// TUI is the interactive ports.Interaction. Confirmation runs a Bubble Tea
// program; status lines are styled with lipgloss.
type TUI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	st     styles
	errSt  styles
}

func NewTUI(in io.Reader, out, errOut io.Writer) *TUI {
	return &TUI{
		in:     in,
		out:    out,
		errOut: errOut,
		st:     newStyles(out),
		errSt:  newStyles(errOut),
	}
}

func (t *TUI) ConfirmCommit(message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message, t.st), tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return false, domain.Errorf(domain.KindIO, err, "run confirmation prompt")
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, domain.Errorf(domain.KindIO, nil, "unexpected model type %T", final)
	}
	return m.Confirmed(), nil
}

func (t *TUI) Warn(message string) {
	fmt.Fprintln(t.errOut, t.errSt.warn.Render("⚠ "+message))
}

func (t *TUI) Info(message string) {
	fmt.Fprintln(t.out, t.st.info.Render(message))
}

func (t *TUI) DisplayModelList(models []domain.ModelConfig, current string) {
	fmt.Fprint(t.out, renderModelList(t.st, models, current))
}
