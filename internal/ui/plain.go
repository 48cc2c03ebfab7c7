package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chuckie/llmc/internal/domain"
)

// Plain is a line-based ports.Interaction for pipes and dumb terminals.
type Plain struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	st     styles
	errSt  styles
}

// NewPlain reads answers from in, writes status to out and warnings to errOut.
func NewPlain(in io.Reader, out, errOut io.Writer) *Plain {
	return &Plain{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		st:     newStyles(out),
		errSt:  newStyles(errOut),
	}
}

// ConfirmCommit prints the message and reads one line. End of input counts
// as an empty answer.
func (p *Plain) ConfirmCommit(message string) (bool, error) {
	fmt.Fprintln(p.out, p.st.title.Render("Generated commit message"))
	fmt.Fprintln(p.out, p.st.message.Render(message))
	fmt.Fprint(p.out, confirmPrompt)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, domain.Errorf(domain.KindIO, err, "read confirmation")
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
	}
	return IsAffirmative(line), nil
}

func (p *Plain) Warn(message string) {
	fmt.Fprintln(p.errOut, p.errSt.warn.Render("warning:")+" "+message)
}

func (p *Plain) Info(message string) {
	fmt.Fprintln(p.out, message)
}

func (p *Plain) DisplayModelList(models []domain.ModelConfig, current string) {
	fmt.Fprint(p.out, renderModelList(p.st, models, current))
}
