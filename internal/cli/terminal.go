package cli

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/chuckie/llmc/internal/ports"
	"github.com/chuckie/llmc/internal/ui"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interaction returns the TUI when both ends are terminals and --plain is
// off, the line-based prompt otherwise.
func (o *options) interaction() ports.Interaction {
	if !o.plain && streamIsTerminal(o.in) && streamIsTerminal(o.out) {
		return ui.NewTUI(o.in, o.out, o.errOut)
	}
	return ui.NewPlain(o.in, o.out, o.errOut)
}

func streamIsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && isTerminal(f)
}
