package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/tui"
)

// prompter asks for missing flag values. On a terminal it uses the TUI
// prompt; otherwise it reads lines from the command's input.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd}
}

func (p *prompter) ask(label string, secret bool) (string, error) {
	in := p.cmd.InOrStdin()
	if isTerminal(in) {
		value, err := tui.Prompt(label, secret)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(value), nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(in)
	}
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if secret {
		return strings.TrimRight(line, "\r\n"), nil
	}
	return strings.TrimSpace(line), nil
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
